package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-backend/internal/model"
)

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	ListNotifications(ctx context.Context, f NotificationFilter) ([]model.Notification, error)
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	CreateNotification(ctx context.Context, n *model.Notification) error
	UpdateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id int64) error
	MarkNotificationRead(ctx context.Context, id int64, read bool) (*model.Notification, error)
}

func (s *gormStore) ListNotifications(ctx context.Context, f NotificationFilter) ([]model.Notification, error) {
	q := s.db.WithContext(ctx)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []model.Notification
	if err := q.Order("sent_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, translate(err, "Notification")
	}
	return list, nil
}

func (s *gormStore) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := s.db.WithContext(ctx).Take(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Notification")
	}
	return &n, nil
}

func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	n.SentAt = n.SentAt.UTC()
	return translate(s.db.WithContext(ctx).Create(n).Error, "Notification")
}

func (s *gormStore) UpdateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	var existing model.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&existing, "id = ?", n.ID).Error; err != nil {
			return err
		}
		existing.UserID = n.UserID
		existing.Message = n.Message
		existing.Type = n.Type
		existing.IsRead = n.IsRead
		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, translate(err, "Notification")
	}
	return &existing, nil
}

func (s *gormStore) DeleteNotification(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, &model.Notification{}, id, "Notification")
}

func (s *gormStore) MarkNotificationRead(ctx context.Context, id int64, read bool) (*model.Notification, error) {
	var n model.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&n, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&n).Update("is_read", read).Error; err != nil {
			return err
		}
		n.IsRead = read
		return nil
	})
	if err != nil {
		return nil, translate(err, "Notification")
	}
	return &n, nil
}
