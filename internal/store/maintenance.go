package store

import (
	"context"

	"gorm.io/gorm"

	"campus-backend/internal/model"
)

// MaintenanceStore persists maintenance requests and their update log.
type MaintenanceStore interface {
	ListMaintenanceRequests(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRequest, error)
	GetMaintenanceRequest(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	CreateMaintenanceRequest(ctx context.Context, m *model.MaintenanceRequest) error
	UpdateMaintenanceRequest(ctx context.Context, m *model.MaintenanceRequest) (*model.MaintenanceRequest, error)
	DeleteMaintenanceRequest(ctx context.Context, id string) error

	// AddMaintenanceUpdate appends to the request's log. The request's own
	// status is left as is.
	AddMaintenanceUpdate(ctx context.Context, u *model.MaintenanceUpdate) error
	ListMaintenanceUpdates(ctx context.Context, requestID string) ([]model.MaintenanceUpdate, error)
}

func (s *gormStore) ListMaintenanceRequests(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRequest, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ReporterID != nil {
		q = q.Where("reporter_id = ?", *f.ReporterID)
	}
	if f.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *f.AssigneeID)
	}
	var reqs []model.MaintenanceRequest
	if err := q.Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, translate(err, "Maintenance request")
	}
	return reqs, nil
}

func (s *gormStore) GetMaintenanceRequest(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	var m model.MaintenanceRequest
	err := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Take(&m, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "Maintenance request")
	}
	return &m, nil
}

func (s *gormStore) CreateMaintenanceRequest(ctx context.Context, m *model.MaintenanceRequest) error {
	if m.Priority == "" {
		m.Priority = model.PriorityMedium
	}
	if m.Status == "" {
		m.Status = model.MaintenanceOpen
	}
	return translate(s.db.WithContext(ctx).Omit("Updates").Create(m).Error, "Maintenance request")
}

func (s *gormStore) UpdateMaintenanceRequest(ctx context.Context, m *model.MaintenanceRequest) (*model.MaintenanceRequest, error) {
	var existing model.MaintenanceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&existing, "id = ?", m.ID).Error; err != nil {
			return err
		}
		existing.Description = m.Description
		existing.PhotoURL = m.PhotoURL
		existing.Priority = m.Priority
		existing.Status = m.Status
		existing.Location = m.Location
		existing.Category = m.Category
		existing.AssigneeID = m.AssigneeID
		return tx.Omit("Updates").Save(&existing).Error
	})
	if err != nil {
		return nil, translate(err, "Maintenance request")
	}
	return &existing, nil
}

// DeleteMaintenanceRequest removes the request and, by cascade, its log.
func (s *gormStore) DeleteMaintenanceRequest(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, &model.MaintenanceRequest{}, id, "Maintenance request")
}

func (s *gormStore) AddMaintenanceUpdate(ctx context.Context, u *model.MaintenanceUpdate) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent model.MaintenanceRequest
		if err := tx.Select("id").Take(&parent, "id = ?", u.RequestID).Error; err != nil {
			return translate(err, "Maintenance request")
		}
		return tx.Create(u).Error
	})
	return translate(err, "Maintenance update")
}

func (s *gormStore) ListMaintenanceUpdates(ctx context.Context, requestID string) ([]model.MaintenanceUpdate, error) {
	var parent model.MaintenanceRequest
	if err := s.db.WithContext(ctx).Select("id").Take(&parent, "id = ?", requestID).Error; err != nil {
		return nil, translate(err, "Maintenance request")
	}
	var updates []model.MaintenanceUpdate
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&updates).Error
	if err != nil {
		return nil, translate(err, "Maintenance update")
	}
	return updates, nil
}
