package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/repository"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

// topAgentLimit caps the per-agent ranking.
const topAgentLimit = 10

// Summary holds headline counts over the current repository snapshot.
type Summary struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
	Overdue    int `json:"overdue"`
	Assigned   int `json:"assigned"`
}

// AgentLoad is one entry of the per-agent ticket-count ranking.
type AgentLoad struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// GroupUsage is one entry of the support-group usage ranking.
type GroupUsage struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// MonthBucket counts queries created in a given month name. The same month
// of different years collapses into one bucket, as in the original system.
type MonthBucket struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Report is the full metrics projection.
type Report struct {
	Summary   Summary      `json:"summary"`
	TopAgents []AgentLoad  `json:"top_agents"`
	Groups    []GroupUsage `json:"groups"`
	Monthly   []MonthBucket `json:"monthly"`
}

// MetricsService derives operational metrics from the query repository.
// It is a pure read-side projection: every invocation rescans the current
// snapshot and nothing is cached or incrementally maintained.
type MetricsService struct {
	queries repository.QueryRepository
	now     func() time.Time
}

// NewMetricsService constructs the aggregator.
func NewMetricsService(queryRepo repository.QueryRepository) *MetricsService {
	return &MetricsService{queries: queryRepo, now: time.Now}
}

// Report computes the full projection over the current snapshot.
func (s *MetricsService) Report(ctx context.Context) (*Report, error) {
	records, err := s.queries.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return Compute(records, s.now()), nil
}

// Compute builds a report from a snapshot at the given instant.
func Compute(records []domain.Query, now time.Time) *Report {
	return &Report{
		Summary:   Summarize(records, now),
		TopAgents: TopAgents(records, topAgentLimit),
		Groups:    GroupCounts(records),
		Monthly:   MonthlyVolume(records),
	}
}

// Summarize derives headline counts. Overdue counts every query older than
// the SLA threshold regardless of status.
func Summarize(records []domain.Query, now time.Time) Summary {
	var s Summary
	s.Total = len(records)
	for _, q := range records {
		switch q.Status {
		case domain.StatusOpen:
			s.Open++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusClosed:
			s.Closed++
		}
		if q.Overdue(now) {
			s.Overdue++
		}
		if q.AssignedTo != nil && *q.AssignedTo != "" {
			s.Assigned++
		}
	}
	return s
}

// TopAgents ranks support users by assigned-ticket count, descending,
// capped at n. The tie-break is by username only to keep output stable; the
// ranking by count is the contract.
func TopAgents(records []domain.Query, n int) []AgentLoad {
	counts := map[string]int{}
	for _, q := range records {
		if q.AssignedTo == nil || *q.AssignedTo == "" {
			continue
		}
		counts[*q.AssignedTo]++
	}

	result := make([]AgentLoad, 0, len(counts))
	for username, count := range counts {
		result = append(result, AgentLoad{Username: username, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Username < result[j].Username
	})
	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// GroupCounts ranks support groups by usage, descending, uncapped. Queries
// without a group are excluded.
func GroupCounts(records []domain.Query) []GroupUsage {
	counts := map[string]int{}
	for _, q := range records {
		if q.SupportGroup == nil || *q.SupportGroup == "" {
			continue
		}
		counts[*q.SupportGroup]++
	}

	result := make([]GroupUsage, 0, len(counts))
	for group, count := range counts {
		result = append(result, GroupUsage{Group: group, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Group < result[j].Group
	})
	return result
}

var monthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthlyVolume buckets queries by creation month name, emitted in calendar
// order. Buckets spanning the same month of different years collapse; that
// matches the original reporting and is not corrected here.
func MonthlyVolume(records []domain.Query) []MonthBucket {
	counts := map[string]int{}
	for _, q := range records {
		counts[q.CreatedAt.Format("Jan")]++
	}

	result := make([]MonthBucket, 0, len(counts))
	for _, month := range monthOrder {
		if count, ok := counts[month]; ok {
			result = append(result, MonthBucket{Month: month, Count: count})
		}
	}
	return result
}
