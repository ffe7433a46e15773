package domain

import "time"

// QueryStatus enumerates lifecycle states for client queries.
type QueryStatus string

const (
	StatusOpen       QueryStatus = "Open"
	StatusInProgress QueryStatus = "In Progress"
	StatusClosed     QueryStatus = "Closed"
)

// ParseStatus validates a status string. The lifecycle engine never writes a
// status outside the enumeration.
func ParseStatus(s string) (QueryStatus, bool) {
	switch QueryStatus(s) {
	case StatusOpen, StatusInProgress, StatusClosed:
		return QueryStatus(s), true
	}
	return "", false
}

// CanTransition reports whether a query may move from one status to another.
// Every edge is currently permitted, including reopening a closed query; the
// rule lives here so a stricter policy can be substituted without touching
// callers.
func CanTransition(from, to QueryStatus) bool {
	return true
}

// QueryPriority enumerates SLA urgency.
type QueryPriority string

const (
	PriorityLow    QueryPriority = "Low"
	PriorityMedium QueryPriority = "Medium"
	PriorityHigh   QueryPriority = "High"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (QueryPriority, bool) {
	switch QueryPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return QueryPriority(s), true
	}
	return "", false
}

// NormalizePriority resolves malformed or legacy priority values to Medium
// without rewriting the stored value.
func NormalizePriority(p QueryPriority) QueryPriority {
	if _, ok := ParsePriority(string(p)); ok {
		return p
	}
	return PriorityMedium
}

// PriorityIndex returns the ordinal position of a priority among
// {Low, Medium, High}, falling back to Medium's position for values outside
// the enumeration.
func PriorityIndex(p QueryPriority) int {
	switch NormalizePriority(p) {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}

// OverdueAfter is the SLA threshold beyond which a query counts as overdue.
const OverdueAfter = 42 * time.Hour

// Query is a client-submitted support request tracked through its lifecycle.
type Query struct {
	ID           int64
	CreatedBy    string
	ContactEmail string
	ContactPhone string
	Heading      string
	Description  string
	Status       QueryStatus
	Priority     QueryPriority
	AssignedTo   *string
	SupportGroup *string
	CreatedAt    time.Time
	ClosedAt     *time.Time
}

// Overdue reports whether the query's age exceeds the SLA threshold at the
// given instant. Status is irrelevant: a closed query whose resolution took
// longer than the threshold still counts.
func (q Query) Overdue(now time.Time) bool {
	return now.Sub(q.CreatedAt) > OverdueAfter
}
