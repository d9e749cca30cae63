package store

import (
	"context"

	"gorm.io/gorm"

	"campus-backend/internal/model"
)

// AnnouncementStore persists campus-wide announcements.
type AnnouncementStore interface {
	ListAnnouncements(ctx context.Context) ([]model.Announcement, error)
	GetAnnouncement(ctx context.Context, id int64) (*model.Announcement, error)
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	UpdateAnnouncement(ctx context.Context, a *model.Announcement) (*model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

func (s *gormStore) ListAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	var list []model.Announcement
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, translate(err, "Announcement")
	}
	return list, nil
}

func (s *gormStore) GetAnnouncement(ctx context.Context, id int64) (*model.Announcement, error) {
	var a model.Announcement
	if err := s.db.WithContext(ctx).Take(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Announcement")
	}
	return &a, nil
}

func (s *gormStore) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	return translate(s.db.WithContext(ctx).Create(a).Error, "Announcement")
}

// UpdateAnnouncement replaces title and content. The author is kept.
func (s *gormStore) UpdateAnnouncement(ctx context.Context, a *model.Announcement) (*model.Announcement, error) {
	var existing model.Announcement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&existing, "id = ?", a.ID).Error; err != nil {
			return err
		}
		existing.Title = a.Title
		existing.Content = a.Content
		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, translate(err, "Announcement")
	}
	return &existing, nil
}

func (s *gormStore) DeleteAnnouncement(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, &model.Announcement{}, id, "Announcement")
}
