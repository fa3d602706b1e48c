package reservation_test

import (
	"testing"
	"time"

	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/reservation"

	"github.com/stretchr/testify/assert"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name        string
		existingIn  time.Time
		existingOut time.Time
		reqIn       time.Time
		reqOut      time.Time
		expected    bool
	}{
		{
			name:        "identical windows collide",
			existingIn:  at(10, 12),
			existingOut: at(12, 11),
			reqIn:       at(10, 12),
			reqOut:      at(12, 11),
			expected:    true,
		},
		{
			name:        "request contained in existing stay",
			existingIn:  at(10, 12),
			existingOut: at(15, 11),
			reqIn:       at(11, 12),
			reqOut:      at(12, 11),
			expected:    true,
		},
		{
			name:        "partial overlap at the tail",
			existingIn:  at(10, 12),
			existingOut: at(12, 11),
			reqIn:       at(11, 12),
			reqOut:      at(14, 11),
			expected:    true,
		},
		{
			name:        "checkout at the exact check-in is a valid handoff",
			existingIn:  at(10, 12),
			existingOut: at(12, 11),
			reqIn:       at(12, 11),
			reqOut:      at(14, 11),
			expected:    false,
		},
		{
			name:        "check-in at the exact requested checkout is a valid handoff",
			existingIn:  at(14, 11),
			existingOut: at(16, 11),
			reqIn:       at(12, 11),
			reqOut:      at(14, 11),
			expected:    false,
		},
		{
			name:        "fully disjoint windows",
			existingIn:  at(10, 12),
			existingOut: at(11, 11),
			reqIn:       at(20, 12),
			reqOut:      at(22, 11),
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reservation.Overlaps(tt.existingIn, tt.existingOut, tt.reqIn, tt.reqOut))
		})
	}
}

func TestFindConflict(t *testing.T) {
	bookings := []model.Booking{
		{
			ID:       "cancelled",
			Status:   model.StatusCancelled,
			CheckIn:  at(10, 12),
			CheckOut: at(12, 11),
		},
		{
			ID:       "holder",
			Status:   model.StatusConfirmed,
			CheckIn:  at(11, 12),
			CheckOut: at(13, 11),
		},
	}

	t.Run("a cancelled booking never conflicts", func(t *testing.T) {
		conflict := reservation.FindConflict(bookings[:1], at(10, 12), at(12, 11), "")
		assert.Nil(t, conflict)
	})

	t.Run("an active holder conflicts", func(t *testing.T) {
		conflict := reservation.FindConflict(bookings, at(10, 12), at(12, 11), "")
		assert.NotNil(t, conflict)
		assert.Equal(t, "holder", conflict.ID)
	})

	t.Run("a checked-out stay still holds its window", func(t *testing.T) {
		departed := []model.Booking{
			{
				ID:       "departed",
				Status:   model.StatusCheckedOut,
				CheckIn:  at(10, 12),
				CheckOut: at(12, 11),
			},
		}

		conflict := reservation.FindConflict(departed, at(10, 12), at(12, 11), "")
		assert.NotNil(t, conflict)
		assert.Equal(t, "departed", conflict.ID)
	})

	t.Run("a no-show still holds its window", func(t *testing.T) {
		noShow := []model.Booking{
			{
				ID:       "no-show",
				Status:   model.StatusNoShow,
				CheckIn:  at(10, 12),
				CheckOut: at(12, 11),
			},
		}

		conflict := reservation.FindConflict(noShow, at(10, 12), at(12, 11), "")
		assert.NotNil(t, conflict)
		assert.Equal(t, "no-show", conflict.ID)
	})

	t.Run("the booking being changed is excluded", func(t *testing.T) {
		conflict := reservation.FindConflict(bookings, at(10, 12), at(12, 11), "holder")
		assert.Nil(t, conflict)
	})

	t.Run("a blocked room conflicts", func(t *testing.T) {
		blocked := []model.Booking{
			{
				ID:       "block",
				Status:   model.StatusBlocked,
				CheckIn:  at(10, 0),
				CheckOut: at(20, 0),
			},
		}

		conflict := reservation.FindConflict(blocked, at(12, 12), at(13, 11), "")
		assert.NotNil(t, conflict)
	})
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name     string
		a        time.Time
		b        time.Time
		expected bool
	}{
		{
			name:     "same calendar day at different hours",
			a:        at(12, 11),
			b:        at(12, 14),
			expected: true,
		},
		{
			name:     "midnight boundary crosses the day",
			a:        time.Date(2026, 3, 12, 23, 59, 0, 0, time.UTC),
			b:        time.Date(2026, 3, 13, 0, 1, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "different days",
			a:        at(12, 11),
			b:        at(14, 11),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reservation.SameDay(tt.a, tt.b))
		})
	}
}

func TestClassifyExtension(t *testing.T) {
	current := model.Booking{
		ID:       "current",
		Status:   model.StatusOccupied,
		CheckIn:  at(10, 12),
		CheckOut: at(12, 11),
	}

	t.Run("clear when the room stays free", func(t *testing.T) {
		others := []model.Booking{current}

		outcome, blocker := reservation.ClassifyExtension(others, current.ID, current.CheckIn, at(14, 11))
		assert.Equal(t, reservation.ExtensionClear, outcome)
		assert.Nil(t, blocker)
	})

	t.Run("conflict when the new window overlaps the next stay", func(t *testing.T) {
		others := []model.Booking{
			current,
			{
				ID:       "next",
				Status:   model.StatusConfirmed,
				CheckIn:  at(13, 12),
				CheckOut: at(15, 11),
			},
		}

		outcome, blocker := reservation.ClassifyExtension(others, current.ID, current.CheckIn, at(14, 11))
		assert.Equal(t, reservation.ExtensionConflict, outcome)
		assert.NotNil(t, blocker)
		assert.Equal(t, "next", blocker.ID)
	})

	t.Run("warning when the next arrival lands on the new checkout day", func(t *testing.T) {
		others := []model.Booking{
			current,
			{
				ID:       "next",
				Status:   model.StatusConfirmed,
				CheckIn:  at(14, 14),
				CheckOut: at(16, 11),
			},
		}

		outcome, blocker := reservation.ClassifyExtension(others, current.ID, current.CheckIn, at(14, 11))
		assert.Equal(t, reservation.ExtensionSameDayWarning, outcome)
		assert.NotNil(t, blocker)
		assert.Equal(t, "next", blocker.ID)
	})

	t.Run("released bookings never block an extension", func(t *testing.T) {
		others := []model.Booking{
			current,
			{
				ID:       "gone",
				Status:   model.StatusCancelled,
				CheckIn:  at(13, 12),
				CheckOut: at(15, 11),
			},
		}

		outcome, blocker := reservation.ClassifyExtension(others, current.ID, current.CheckIn, at(14, 11))
		assert.Equal(t, reservation.ExtensionClear, outcome)
		assert.Nil(t, blocker)
	})
}
