package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSwipe_CanUpdate_WindowBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Swipe{CreatedAt: created}
	window := time.Hour

	assert.True(t, s.CanUpdate(created.Add(59*time.Minute), window))
	assert.True(t, s.CanUpdate(created.Add(time.Hour-time.Second), window))

	// exactly one hour old is already final
	assert.False(t, s.CanUpdate(created.Add(time.Hour), window))
	assert.False(t, s.CanUpdate(created.Add(61*time.Minute), window))
}
