// Package reservation holds the pure admission rules for stay windows:
// overlap detection, same-day handoffs and extension classification. It does
// no I/O so the rules can be exercised directly.
package reservation

import (
	"innkeeper/internal/domains/booking/model"
	"time"
)

// Overlaps reports whether two half-open stay windows [in, out) collide.
// A stay ending exactly when another begins is a valid same-day handoff.
func Overlaps(existingIn, existingOut, reqIn, reqOut time.Time) bool {
	return existingIn.Before(reqOut) && existingOut.After(reqIn)
}

// FindConflict returns the first booking whose window collides with the
// requested one, skipping the booking identified by excludeID and any booking
// that no longer holds the room.
func FindConflict(bookings []model.Booking, reqIn, reqOut time.Time, excludeID string) *model.Booking {
	for i := range bookings {
		b := &bookings[i]

		if b.ID == excludeID {
			continue
		}

		if !holdsRoom(b.Status) {
			continue
		}

		if Overlaps(b.CheckIn, b.CheckOut, reqIn, reqOut) {
			return b
		}
	}

	return nil
}

func holdsRoom(status string) bool {
	for _, active := range model.ActiveStatuses {
		if status == active {
			return true
		}
	}

	return false
}

// SameDay reports whether two instants fall on the same calendar day in the
// location of a.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// ExtensionOutcome classifies what happens when a stay is pushed out.
type ExtensionOutcome int

const (
	// ExtensionClear means no other booking stands in the way.
	ExtensionClear ExtensionOutcome = iota
	// ExtensionSameDayWarning means the next booking arrives on the new
	// checkout day; allowed, but the desk should be told.
	ExtensionSameDayWarning
	// ExtensionConflict means the new window collides with another booking.
	ExtensionConflict
)

// ClassifyExtension checks the new checkout against the other bookings of the
// room. A true overlap is a hard conflict; a next arrival on the new checkout
// calendar day goes through with a warning.
func ClassifyExtension(others []model.Booking, bookingID string, reqIn, newCheckOut time.Time) (ExtensionOutcome, *model.Booking) {
	if conflict := FindConflict(others, reqIn, newCheckOut, bookingID); conflict != nil {
		return ExtensionConflict, conflict
	}

	for i := range others {
		b := &others[i]

		if b.ID == bookingID || !holdsRoom(b.Status) {
			continue
		}

		if !b.CheckIn.Before(newCheckOut) && SameDay(b.CheckIn, newCheckOut) {
			return ExtensionSameDayWarning, b
		}
	}

	return ExtensionClear, nil
}
