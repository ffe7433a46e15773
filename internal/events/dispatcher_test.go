package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribersOfMatchingType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var created, updated []Event
	dispatcher.Subscribe(EventQueryCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	dispatcher.Subscribe(EventQueryUpdated, func(_ context.Context, e Event) error {
		updated = append(updated, e)
		return nil
	})

	event := Event{
		ID:        "evt-1",
		Type:      EventQueryCreated,
		QueryID:   7,
		Actor:     "alice",
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, created, 1)
	assert.Equal(t, int64(7), created[0].QueryID)
	assert.Empty(t, updated)
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered bool
	dispatcher.Subscribe(EventQueryUpdated, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventQueryUpdated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventQueryUpdated})
	assert.NoError(t, err)
	assert.True(t, delivered)
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventQueryBulkUpdated}))
}
