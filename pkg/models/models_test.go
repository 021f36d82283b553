package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStatuses(t *testing.T) {
	terminal := []OrderStatus{StatusDelivered, StatusCancelled, StatusFailed}
	open := []OrderStatus{StatusDraft, StatusPending, StatusProcessing, StatusFulfilled, StatusShipped}

	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	for _, s := range open {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestPaginationLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Limit())
	assert.Equal(t, DefaultPageSize, Pagination{PageSize: -1}.Limit())
	assert.Equal(t, 50, Pagination{PageSize: 50}.Limit())
}

func TestKnownProviders(t *testing.T) {
	assert.Len(t, KnownProviders(), 4)
}
