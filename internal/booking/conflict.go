// Package booking holds the room booking rules that do not depend on storage.
package booking

import (
	"time"

	"campus-backend/internal/model"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that only share a boundary instant do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FirstConflict returns the first non-cancelled booking of roomID in existing
// that overlaps [start, end), or nil.
func FirstConflict(roomID string, start, end time.Time, existing []model.Booking) *model.Booking {
	for i := range existing {
		b := &existing[i]
		if b.RoomID != roomID || b.Status == model.BookingCancelled {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return b
		}
	}
	return nil
}

// HasConflict reports whether a proposed booking of roomID for [start, end)
// collides with any non-cancelled booking in existing.
func HasConflict(roomID string, start, end time.Time, existing []model.Booking) bool {
	return FirstConflict(roomID, start, end, existing) != nil
}

// ValidateWindow checks that a proposed window is well formed.
func ValidateWindow(start, end time.Time) error {
	switch {
	case start.IsZero():
		return errMissingStart
	case end.IsZero():
		return errMissingEnd
	case !end.After(start):
		return errEndBeforeStart
	}
	return nil
}
