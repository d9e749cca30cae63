package store

import (
	"context"

	"campus-backend/internal/model"
)

// UserStore persists accounts and roles.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserName(ctx context.Context, id int64, firstName, lastName string) (*model.User, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, id int64) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return translate(s.db.WithContext(ctx).Omit("Role").Create(u).Error, "User")
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Preload("Role").Take(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

// GetUserByEmail expects an already normalized address.
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Preload("Role").Take(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (s *gormStore) UpdateUserName(ctx context.Context, id int64, firstName, lastName string) (*model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Omit("Role").Updates(map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
	}).Error; err != nil {
		return nil, translate(err, "User")
	}
	u.FirstName, u.LastName = firstName, lastName
	return u, nil
}

func (s *gormStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, translate(err, "Role")
	}
	return roles, nil
}

func (s *gormStore) GetRole(ctx context.Context, id int64) (*model.Role, error) {
	var r model.Role
	if err := s.db.WithContext(ctx).Take(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Role")
	}
	return &r, nil
}

func (s *gormStore) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var r model.Role
	if err := s.db.WithContext(ctx).Take(&r, "name = ?", name).Error; err != nil {
		return nil, translate(err, "Role")
	}
	return &r, nil
}
