package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-backend/internal/apperr"
	"campus-backend/internal/booking"
	"campus-backend/internal/model"
)

const errBookingConflictMsg = "Room is already booked for this time slot"

// BookingStore persists room bookings.
type BookingStore interface {
	// CreateBooking inserts b unless it overlaps a non-cancelled booking of
	// the same room. The check and the insert share one transaction.
	CreateBooking(ctx context.Context, b *model.Booking) error
	ListRoomBookings(ctx context.Context, roomID string, from time.Time) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if err := booking.ValidateWindow(b.StartTime, b.EndTime); err != nil {
		return err
	}
	b.StartTime, b.EndTime = b.StartTime.UTC(), b.EndTime.UTC()
	if b.Status == "" {
		b.Status = model.BookingActive
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, b.RoomID); err != nil {
			return err
		}
		if b.Status != model.BookingCancelled {
			if err := checkConflict(tx, b.RoomID, b.StartTime, b.EndTime, ""); err != nil {
				return err
			}
		}
		return tx.Omit("User").Create(b).Error
	})
	return translate(err, "Booking")
}

// lockRoom takes a row lock on the room for the rest of the transaction.
// SQLite has no row locks; its single writer serializes instead.
func lockRoom(tx *gorm.DB, roomID string) error {
	var room model.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&room, "id = ?", roomID).Error
	return translate(err, "Room")
}

// checkConflict loads the room's live bookings that touch [start, end) and
// fails with a Conflict if any overlaps. excludeID skips one booking.
func checkConflict(tx *gorm.DB, roomID string, start, end time.Time, excludeID string) error {
	q := tx.Where("room_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
		roomID, model.BookingCancelled, end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var existing []model.Booking
	if err := q.Find(&existing).Error; err != nil {
		return err
	}
	if booking.HasConflict(roomID, start, end, existing) {
		return apperr.Conflict(errBookingConflictMsg)
	}
	return nil
}

// ListRoomBookings returns the room's bookings starting at or after from,
// earliest first, with the booking user's public fields.
func (s *gormStore) ListRoomBookings(ctx context.Context, roomID string, from time.Time) ([]model.Booking, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).Select("id").Take(&room, "id = ?", roomID).Error; err != nil {
		return nil, translate(err, "Room")
	}

	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email", "first_name", "last_name")
		}).
		Where("room_id = ? AND start_time >= ?", roomID, from.UTC()).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, translate(err, "Booking")
	}
	return bookings, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).Take(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Booking")
	}
	return &b, nil
}

// UpdateBookingStatus sets the status. Any transition is allowed, but moving
// a cancelled booking back to active re-runs the overlap check.
func (s *gormStore) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid booking status %q", status)
	}

	var b model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if b.Status == status {
			return nil
		}
		if status != model.BookingCancelled {
			if err := lockRoom(tx, b.RoomID); err != nil {
				return err
			}
			if err := checkConflict(tx, b.RoomID, b.StartTime, b.EndTime, b.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&b).Update("status", status).Error; err != nil {
			return err
		}
		b.Status = status
		return nil
	})
	if err != nil {
		return nil, translate(err, "Booking")
	}
	return &b, nil
}
