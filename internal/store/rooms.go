package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-backend/internal/model"
)

// RoomStore persists rooms. List and Get embed the room's bookings that
// start at or after upcomingFrom.
type RoomStore interface {
	ListRooms(ctx context.Context, upcomingFrom time.Time) ([]model.Room, error)
	GetRoom(ctx context.Context, id string, upcomingFrom time.Time) (*model.Room, error)
	CreateRoom(ctx context.Context, r *model.Room) error
	UpdateRoom(ctx context.Context, r *model.Room) (*model.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

func upcomingBookings(from time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_time >= ? AND status <> ?", from.UTC(), model.BookingCancelled).
			Order("start_time ASC")
	}
}

func (s *gormStore) ListRooms(ctx context.Context, upcomingFrom time.Time) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Preload("Bookings", upcomingBookings(upcomingFrom)).
		Order("name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, translate(err, "Room")
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string, upcomingFrom time.Time) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Preload("Bookings", upcomingBookings(upcomingFrom)).
		Take(&room, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "Room")
	}
	return &room, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, r *model.Room) error {
	return translate(s.db.WithContext(ctx).Omit("Bookings").Create(r).Error, "Room")
}

// UpdateRoom replaces every mutable field of the stored room with r's.
func (s *gormStore) UpdateRoom(ctx context.Context, r *model.Room) (*model.Room, error) {
	var existing model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&existing, "id = ?", r.ID).Error; err != nil {
			return err
		}
		existing.Name = r.Name
		existing.Type = r.Type
		existing.Building = r.Building
		existing.Floor = r.Floor
		existing.Capacity = r.Capacity
		existing.Features = r.Features
		return tx.Omit("Bookings").Save(&existing).Error
	})
	if err != nil {
		return nil, translate(err, "Room")
	}
	return &existing, nil
}

// DeleteRoom removes the room; its bookings go with it through the
// foreign key cascade.
func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, &model.Room{}, id, "Room")
}
