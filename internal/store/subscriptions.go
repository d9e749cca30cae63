package store

import (
	"context"

	"gorm.io/gorm/clause"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
)

// SubscriptionStore persists browser push subscriptions.
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	ListSubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID int64, endpoint string) error
}

// UpsertSubscription creates the subscription or, when the endpoint is
// known, moves it to the new keys and owner.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(sub).Error
	return translate(err, "Subscription")
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Take(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, translate(err, "Subscription")
	}
	return &sub, nil
}

func (s *gormStore) ListSubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, translate(err, "Subscription")
	}
	return subs, nil
}

// DeleteSubscription removes endpoint if it belongs to userID.
func (s *gormStore) DeleteSubscription(ctx context.Context, userID int64, endpoint string) error {
	res := s.db.WithContext(ctx).
		Where("endpoint = ? AND user_id = ?", endpoint, userID).
		Delete(&model.PushSubscription{})
	if res.Error != nil {
		return translate(res.Error, "Subscription")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Subscription not found")
	}
	return nil
}
