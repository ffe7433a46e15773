package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/events"
	"github.com/spec-kit/query-tracker/internal/repository"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

// LifecycleService is the ticket lifecycle engine. It holds no state of its
// own: every operation reads current rows, decides, and writes back. Last
// write wins; there is no conflict detection and no retry.
type LifecycleService struct {
	queries    repository.QueryRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// LifecycleDependencies bundles repositories for the engine.
type LifecycleDependencies struct {
	QueryRepo   repository.QueryRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// NewLifecycleService constructs the engine.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		queries:    deps.QueryRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// SubmitInput describes query creation payload.
type SubmitInput struct {
	CreatedBy    string
	ContactEmail string
	ContactPhone string
	Heading      string
	Description  string
}

// Submit creates a new query: status Open, priority Medium, no assignee, no
// closed time. Returns the record carrying its system-assigned id.
func (s *LifecycleService) Submit(ctx context.Context, input SubmitInput) (*domain.Query, error) {
	record := &domain.Query{
		CreatedBy:    input.CreatedBy,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Heading:      strings.TrimSpace(input.Heading),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.StatusOpen,
		Priority:     domain.PriorityMedium,
		CreatedAt:    s.now(),
	}
	if err := s.queries.Insert(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventQueryCreated,
		QueryID: record.ID,
		Actor:   record.CreatedBy,
		Payload: events.QueryCreatedPayload{
			CreatedBy: record.CreatedBy,
			Heading:   record.Heading,
			Priority:  record.Priority,
		},
	})
	return record, nil
}

// UpdateInput describes a single-ticket update. Heading, description, status,
// and priority overwrite unconditionally. An empty AssignedTo preserves the
// existing assignment.
type UpdateInput struct {
	Status      domain.QueryStatus
	Heading     string
	Description string
	Priority    domain.QueryPriority
	AssignedTo  string
	Actor       string
}

// Update applies a single-ticket update. Moving into Closed stamps closed_at
// with the current time, refreshing it on an already-closed ticket; moving
// anywhere else leaves closed_at untouched.
func (s *LifecycleService) Update(ctx context.Context, id int64, input UpdateInput) (*domain.Query, error) {
	record, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if !domain.CanTransition(record.Status, input.Status) {
		return nil, apperrors.NewValidationError("status transition not permitted", map[string]any{
			"from": record.Status, "to": input.Status,
		})
	}

	oldStatus := record.Status
	oldPriority := record.Priority

	record.Heading = input.Heading
	record.Description = input.Description
	record.Priority = input.Priority
	record.Status = input.Status
	if assignee := strings.TrimSpace(input.AssignedTo); assignee != "" {
		record.AssignedTo = &assignee
	}
	if input.Status == domain.StatusClosed {
		closedAt := s.now()
		record.ClosedAt = &closedAt
	}

	if err := s.queries.Update(ctx, record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventQueryUpdated,
		QueryID: record.ID,
		Actor:   input.Actor,
		Payload: events.QueryUpdatedPayload{
			OldStatus:   oldStatus,
			NewStatus:   record.Status,
			OldPriority: oldPriority,
			NewPriority: record.Priority,
			AssignedTo:  record.AssignedTo,
		},
	})
	return record, nil
}

// BulkResult reports the outcome of a bulk update: which ids applied and the
// per-id error for those that did not. The batch is never rolled back.
type BulkResult struct {
	Updated []int64
	Failed  map[int64]error
}

// BulkUpdate applies the same status/priority/assignment to every id,
// preserving each ticket's own heading and description. Ids are processed
// sequentially; a failure on one id leaves the rest of the batch applied.
func (s *LifecycleService) BulkUpdate(ctx context.Context, ids []int64, status domain.QueryStatus, priority domain.QueryPriority, assignedTo, actor string) (BulkResult, error) {
	result := BulkResult{Failed: map[int64]error{}}

	for _, id := range ids {
		record, err := s.queries.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				result.Failed[id] = apperrors.NewNotFound("query", map[string]any{"query_id": id})
			} else {
				result.Failed[id] = apperrors.MapError(err)
			}
			continue
		}

		record.Status = status
		record.Priority = priority
		if assignee := strings.TrimSpace(assignedTo); assignee != "" {
			record.AssignedTo = &assignee
		}
		if status == domain.StatusClosed {
			closedAt := s.now()
			record.ClosedAt = &closedAt
		}

		if err := s.queries.Update(ctx, record); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				result.Failed[id] = apperrors.NewNotFound("query", map[string]any{"query_id": id})
			} else {
				result.Failed[id] = apperrors.MapError(err)
			}
			continue
		}
		result.Updated = append(result.Updated, id)
	}

	failedIDs := make([]int64, 0, len(result.Failed))
	for id := range result.Failed {
		failedIDs = append(failedIDs, id)
	}
	s.publish(ctx, events.Event{
		Type:  events.EventQueryBulkUpdated,
		Actor: actor,
		Payload: events.QueryBulkUpdatedPayload{
			UpdatedIDs: result.Updated,
			FailedIDs:  failedIDs,
			NewStatus:  status,
		},
	})
	return result, nil
}

// ListAll returns every query, newest first.
func (s *LifecycleService) ListAll(ctx context.Context) ([]domain.Query, error) {
	records, err := s.queries.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListMine returns the queries submitted by a client, newest first.
func (s *LifecycleService) ListMine(ctx context.Context, username string) ([]domain.Query, error) {
	records, err := s.queries.ListByCreator(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListAssigned returns the queries assigned to a support user, newest first.
func (s *LifecycleService) ListAssigned(ctx context.Context, username string) ([]domain.Query, error) {
	records, err := s.queries.ListByAssignee(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// AddComment attaches a comment to a query.
func (s *LifecycleService) AddComment(ctx context.Context, queryID int64, commentedBy, text, sentiment string) (*domain.Comment, error) {
	if _, err := s.queries.GetByID(ctx, queryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": queryID})
		}
		return nil, apperrors.MapError(err)
	}
	comment := &domain.Comment{
		QueryID:     queryID,
		CommentedBy: commentedBy,
		Text:        strings.TrimSpace(text),
		Sentiment:   sentiment,
		CommentedAt: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// ListComments returns the comments attached to a query, oldest first.
func (s *LifecycleService) ListComments(ctx context.Context, queryID int64) ([]domain.Comment, error) {
	comments, err := s.comments.ListByQuery(ctx, queryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
