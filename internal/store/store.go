package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"campus-backend/internal/apperr"
)

// pgExclusionViolation is raised by the optional bookings_no_overlap
// constraint.
const pgExclusionViolation = "23P01"

// Store defines the interface for all database operations.
type Store interface {
	UserStore
	RoomStore
	BookingStore
	TimetableStore
	MaintenanceStore
	NotificationStore
	AnnouncementStore
	SubscriptionStore

	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Ping checks that the database answers.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translate maps driver and gorm errors onto the apperr kinds. what names
// the entity for client messages, e.g. "Room".
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, err, what+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.KindValidation, err, what+" references a record that does not exist")
	case errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation:
		return apperr.Wrap(apperr.KindConflict, err, errBookingConflictMsg)
	}
	return fmt.Errorf("%s query failed: %w", what, err)
}

// deleteByID hard-deletes one row of model by primary key.
func deleteByID(ctx context.Context, db *gorm.DB, model any, id any, what string) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}
