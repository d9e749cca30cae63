package store

import (
	"context"

	"gorm.io/gorm"

	"campus-backend/internal/model"
)

// TimetableStore persists weekly class slots. Entries may overlap.
type TimetableStore interface {
	ListTimetable(ctx context.Context, f TimetableFilter) ([]model.TimetableEntry, error)
	GetTimetableEntry(ctx context.Context, id int64) (*model.TimetableEntry, error)
	CreateTimetableEntry(ctx context.Context, e *model.TimetableEntry) error
	UpdateTimetableEntry(ctx context.Context, e *model.TimetableEntry) (*model.TimetableEntry, error)
	DeleteTimetableEntry(ctx context.Context, id int64) error
}

func (s *gormStore) ListTimetable(ctx context.Context, f TimetableFilter) ([]model.TimetableEntry, error) {
	q := s.db.WithContext(ctx)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Day != "" {
		q = q.Where("day = ?", f.Day)
	}
	var entries []model.TimetableEntry
	if err := q.Order("day ASC, start_time ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, translate(err, "Timetable entry")
	}
	return entries, nil
}

func (s *gormStore) GetTimetableEntry(ctx context.Context, id int64) (*model.TimetableEntry, error) {
	var e model.TimetableEntry
	if err := s.db.WithContext(ctx).Take(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Timetable entry")
	}
	return &e, nil
}

func (s *gormStore) CreateTimetableEntry(ctx context.Context, e *model.TimetableEntry) error {
	return translate(s.db.WithContext(ctx).Create(e).Error, "Timetable entry")
}

func (s *gormStore) UpdateTimetableEntry(ctx context.Context, e *model.TimetableEntry) (*model.TimetableEntry, error) {
	var existing model.TimetableEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&existing, "id = ?", e.ID).Error; err != nil {
			return err
		}
		existing.UserID = e.UserID
		existing.Course = e.Course
		existing.Day = e.Day
		existing.StartTime = e.StartTime
		existing.EndTime = e.EndTime
		existing.Location = e.Location
		existing.Instructor = e.Instructor
		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, translate(err, "Timetable entry")
	}
	return &existing, nil
}

func (s *gormStore) DeleteTimetableEntry(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, &model.TimetableEntry{}, id, "Timetable entry")
}
