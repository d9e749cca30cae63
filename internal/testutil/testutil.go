// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-backend/config"
	"campus-backend/internal/db"
	"campus-backend/internal/model"
)

// Logger returns a logger that discards everything.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OpenDB opens a private in-memory SQLite database with the full schema and
// seeded roles. It is closed when the test finishes.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
	}
	gormDB, err := db.Init(cfg, Logger(), logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

// CreateUser inserts a user with the given role name directly, bypassing
// password hashing. The returned user has Role preloaded.
func CreateUser(t *testing.T, gormDB *gorm.DB, email, roleName string) model.User {
	t.Helper()
	var role model.Role
	if err := gormDB.WithContext(context.Background()).First(&role, "name = ?", roleName).Error; err != nil {
		t.Fatalf("lookup role %s: %v", roleName, err)
	}
	u := model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     roleName,
		RoleID:       role.ID,
	}
	if err := gormDB.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	u.Role = role
	return u
}
