package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"Open", "In Progress", "Closed"} {
		status, ok := ParseStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, QueryStatus(valid), status)
	}

	for _, invalid := range []string{"", "open", "OPEN", "InProgress", "Done"} {
		_, ok := ParseStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"Low", "Medium", "High"} {
		priority, ok := ParsePriority(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, QueryPriority(valid), priority)
	}

	_, ok := ParsePriority("Urgent")
	assert.False(t, ok)
}

func TestNormalizePriorityFallsBackToMedium(t *testing.T) {
	assert.Equal(t, PriorityLow, NormalizePriority(PriorityLow))
	assert.Equal(t, PriorityHigh, NormalizePriority(PriorityHigh))
	assert.Equal(t, PriorityMedium, NormalizePriority(""))
	assert.Equal(t, PriorityMedium, NormalizePriority("Urgent"))
	assert.Equal(t, PriorityMedium, NormalizePriority("low"))
}

func TestPriorityIndex(t *testing.T) {
	assert.Equal(t, 0, PriorityIndex(PriorityLow))
	assert.Equal(t, 1, PriorityIndex(PriorityMedium))
	assert.Equal(t, 2, PriorityIndex(PriorityHigh))
	// Out-of-enumeration values index as Medium without being rewritten.
	assert.Equal(t, 1, PriorityIndex("Urgent"))
}

func TestCanTransitionPermitsEveryEdge(t *testing.T) {
	statuses := []QueryStatus{StatusOpen, StatusInProgress, StatusClosed}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestOverdueBoundary(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	q := Query{CreatedAt: created}

	// Strictly greater than the threshold, not equal.
	assert.False(t, q.Overdue(created.Add(OverdueAfter)))
	assert.True(t, q.Overdue(created.Add(OverdueAfter+time.Second)))
	assert.False(t, q.Overdue(created.Add(time.Hour)))
}

func TestOverdueIgnoresStatus(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	closedAt := created.Add(50 * time.Hour)
	q := Query{Status: StatusClosed, CreatedAt: created, ClosedAt: &closedAt}

	assert.True(t, q.Overdue(created.Add(43*time.Hour)))
}
