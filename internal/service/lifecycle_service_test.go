package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/query-tracker/internal/domain"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

var frozenNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEngine(repo *fakeQueryRepo) *LifecycleService {
	engine := NewLifecycleService(LifecycleDependencies{
		QueryRepo:   repo,
		CommentRepo: &fakeCommentRepo{},
	})
	engine.now = func() time.Time { return frozenNow }
	return engine
}

func submitTicket(t *testing.T, engine *LifecycleService, createdBy string) *domain.Query {
	t.Helper()
	record, err := engine.Submit(context.Background(), SubmitInput{
		CreatedBy:    createdBy,
		ContactEmail: createdBy + "@example.com",
		ContactPhone: "555-0100",
		Heading:      "printer on fire",
		Description:  "it is very much on fire",
	})
	require.NoError(t, err)
	return record
}

func TestSubmitDefaults(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())

	record := submitTicket(t, engine, "alice")

	assert.Equal(t, domain.StatusOpen, record.Status)
	assert.Equal(t, domain.PriorityMedium, record.Priority)
	assert.Nil(t, record.AssignedTo)
	assert.Nil(t, record.ClosedAt)
	assert.Equal(t, frozenNow, record.CreatedAt)
}

func TestSubmitIDsStrictlyIncrease(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())

	var last int64
	for i := 0; i < 5; i++ {
		record := submitTicket(t, engine, "alice")
		require.Greater(t, record.ID, last)
		last = record.ID
	}
}

func TestUpdateNotFound(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())

	_, err := engine.Update(context.Background(), 42, UpdateInput{
		Status:   domain.StatusOpen,
		Priority: domain.PriorityLow,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUpdateCloseSetsClosedAt(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	updated, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status:      domain.StatusClosed,
		Heading:     record.Heading,
		Description: record.Description,
		Priority:    domain.PriorityHigh,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, frozenNow, *updated.ClosedAt)
	assert.False(t, updated.ClosedAt.Before(updated.CreatedAt))
}

func TestUpdateReopenKeepsClosedAt(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	closed, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusClosed, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	firstClosedAt := *closed.ClosedAt

	reopened, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusOpen, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	require.NotNil(t, reopened.ClosedAt)
	assert.Equal(t, firstClosedAt, *reopened.ClosedAt)
}

func TestUpdateRecloseRefreshesClosedAt(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	_, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusClosed, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	later := frozenNow.Add(3 * time.Hour)
	engine.now = func() time.Time { return later }

	reclosed, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusClosed, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, later, *reclosed.ClosedAt)
}

func TestUpdateEmptyAssigneePreservesAssignment(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	assigned, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusInProgress, Heading: "h", Description: "d",
		Priority: domain.PriorityMedium, AssignedTo: "bob",
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "bob", *assigned.AssignedTo)

	updated, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusInProgress, Heading: "h2", Description: "d2",
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "bob", *updated.AssignedTo)
}

func TestUpdateAllTransitionsPermitted(t *testing.T) {
	statuses := []domain.QueryStatus{domain.StatusOpen, domain.StatusInProgress, domain.StatusClosed}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, domain.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	// Closed -> Open must work end to end.
	_, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusClosed, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	reopened, err := engine.Update(context.Background(), record.ID, UpdateInput{
		Status: domain.StatusOpen, Heading: "h", Description: "d", Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, reopened.Status)
}

func TestBulkUpdatePartialApplication(t *testing.T) {
	repo := newFakeQueryRepo()
	engine := newTestEngine(repo)
	first := submitTicket(t, engine, "alice")
	third := submitTicket(t, engine, "bob")

	result, err := engine.BulkUpdate(context.Background(),
		[]int64{first.ID, 999, third.ID},
		domain.StatusInProgress, domain.PriorityHigh, "carol", "admin")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{first.ID, third.ID}, result.Updated)
	require.Contains(t, result.Failed, int64(999))
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(result.Failed[999]).Code)

	// The failure on id 999 must not roll back the others.
	for _, id := range []int64{first.ID, third.ID} {
		record, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, record.Status)
		assert.Equal(t, domain.PriorityHigh, record.Priority)
		require.NotNil(t, record.AssignedTo)
		assert.Equal(t, "carol", *record.AssignedTo)
	}
}

func TestBulkUpdatePreservesHeadingAndDescription(t *testing.T) {
	repo := newFakeQueryRepo()
	engine := newTestEngine(repo)
	record := submitTicket(t, engine, "alice")
	wantHeading := record.Heading
	wantDescription := record.Description

	_, err := engine.BulkUpdate(context.Background(), []int64{record.ID},
		domain.StatusClosed, domain.PriorityLow, "", "admin")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, wantHeading, stored.Heading)
	assert.Equal(t, wantDescription, stored.Description)
	require.NotNil(t, stored.ClosedAt)
}

func TestAddCommentUnknownQuery(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())

	_, err := engine.AddComment(context.Background(), 7, "bob", "looks bad", "negative")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAddAndListComments(t *testing.T) {
	engine := newTestEngine(newFakeQueryRepo())
	record := submitTicket(t, engine, "alice")

	comment, err := engine.AddComment(context.Background(), record.ID, "bob", "on it", "positive")
	require.NoError(t, err)
	assert.Equal(t, record.ID, comment.QueryID)

	comments, err := engine.ListComments(context.Background(), record.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on it", comments[0].Text)
}
