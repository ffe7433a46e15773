package events

import (
	"time"

	"github.com/spec-kit/query-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated     EventType = "query_created"
	EventQueryUpdated     EventType = "query_updated"
	EventQueryBulkUpdated EventType = "query_bulk_updated"
)

// Event represents a lifecycle event emitted by the engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	QueryID   int64       `json:"query_id,omitempty"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	CreatedBy string               `json:"created_by"`
	Heading   string               `json:"heading"`
	Priority  domain.QueryPriority `json:"priority"`
}

// QueryUpdatedPayload payload.
type QueryUpdatedPayload struct {
	OldStatus   domain.QueryStatus   `json:"old_status"`
	NewStatus   domain.QueryStatus   `json:"new_status"`
	OldPriority domain.QueryPriority `json:"old_priority"`
	NewPriority domain.QueryPriority `json:"new_priority"`
	AssignedTo  *string              `json:"assigned_to,omitempty"`
}

// QueryBulkUpdatedPayload payload.
type QueryBulkUpdatedPayload struct {
	UpdatedIDs []int64            `json:"updated_ids"`
	FailedIDs  []int64            `json:"failed_ids,omitempty"`
	NewStatus  domain.QueryStatus `json:"new_status"`
}
