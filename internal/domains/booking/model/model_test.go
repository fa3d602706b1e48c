package model_test

import (
	"testing"

	"innkeeper/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected bool
	}{
		{name: "confirmed to occupied", from: model.StatusConfirmed, to: model.StatusOccupied, expected: true},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled, expected: true},
		{name: "confirmed to no-show", from: model.StatusConfirmed, to: model.StatusNoShow, expected: true},
		{name: "confirmed cannot check out directly", from: model.StatusConfirmed, to: model.StatusCheckedOut, expected: false},
		{name: "occupied to checked out", from: model.StatusOccupied, to: model.StatusCheckedOut, expected: true},
		{name: "occupied to cancelled", from: model.StatusOccupied, to: model.StatusCancelled, expected: true},
		{name: "occupied cannot be a no-show", from: model.StatusOccupied, to: model.StatusNoShow, expected: false},
		{name: "blocked to confirmed", from: model.StatusBlocked, to: model.StatusConfirmed, expected: true},
		{name: "blocked to occupied", from: model.StatusBlocked, to: model.StatusOccupied, expected: true},
		{name: "blocked to cancelled", from: model.StatusBlocked, to: model.StatusCancelled, expected: true},
		{name: "checked out is final", from: model.StatusCheckedOut, to: model.StatusOccupied, expected: false},
		{name: "cancelled is final", from: model.StatusCancelled, to: model.StatusConfirmed, expected: false},
		{name: "no-show is final", from: model.StatusNoShow, to: model.StatusConfirmed, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{model.StatusCheckedOut, model.StatusCancelled, model.StatusNoShow}
	for _, status := range terminal {
		assert.True(t, model.IsTerminal(status), status)
	}

	open := []string{model.StatusConfirmed, model.StatusOccupied, model.StatusBlocked}
	for _, status := range open {
		assert.False(t, model.IsTerminal(status), status)
	}
}

func TestActiveStatusesHoldRooms(t *testing.T) {
	// Every status except CANCELLED keeps its claim on the window.
	assert.ElementsMatch(t, []string{
		model.StatusConfirmed,
		model.StatusOccupied,
		model.StatusCheckedOut,
		model.StatusNoShow,
		model.StatusBlocked,
	}, model.ActiveStatuses)
	assert.NotContains(t, model.ActiveStatuses, model.StatusCancelled)
}
