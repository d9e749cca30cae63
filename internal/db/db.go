package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"campus-backend/config"
	"campus-backend/internal/model"
)

// Init opens the database connection, tunes the pool, runs migrations and
// seeds the role table.
func Init(cfg *config.DatabaseConfig, log *logrus.Logger, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// One writer at a time; the booking transaction relies on it.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Room{},
		&model.Booking{},
		&model.TimetableEntry{},
		&model.MaintenanceRequest{},
		&model.MaintenanceUpdate{},
		&model.Notification{},
		&model.Announcement{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if err := SeedRoles(db); err != nil {
		return nil, err
	}

	if cfg.EnableExclusionConstraint {
		if cfg.Driver != config.DriverPostgres {
			log.Warnf("enable_exclusion_constraint is only supported on postgres; ignoring for %s", cfg.Driver)
		} else {
			log.Info("Applying booking exclusion constraint...")
			if err := applyBookingExclusionDDL(db); err != nil {
				log.WithError(err).Warn("failed to apply booking exclusion constraint; relying on transactional check only")
			}
		}
	}

	log.Info("Database initialization complete.")
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SeedRoles inserts the default roles, leaving existing rows untouched.
func SeedRoles(db *gorm.DB) error {
	roles := make([]model.Role, 0, len(model.DefaultRoles))
	for _, name := range model.DefaultRoles {
		roles = append(roles, model.Role{Name: name})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&roles).Error; err != nil {
		return fmt.Errorf("seed roles failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func applyBookingExclusionDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		// Non-cancelled bookings of the same room may not overlap on [start, end).
		`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (room_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
			WHERE (status <> 'cancelled');
	END IF;
END $$;`,

		"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_period_valid;",
		"ALTER TABLE bookings ADD CONSTRAINT bookings_period_valid CHECK (start_time < end_time);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
