package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"praxido.de/praxido/tracking/model"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

type DatabaseManager struct {
	SqlDB    *sql.DB
	LogLevel LogLevel

	db *gorm.DB
}

// New creates the shared pool and the gorm handle on top of it.
func New(dsn string, maxConnection int) (*DatabaseManager, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	dm := &DatabaseManager{SqlDB: sqlDB}

	dialector := mysql.New(mysql.Config{
		Conn: sqlDB,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(dm.gormLogLevel()),
		// Surfaces duplicate-key violations as gorm.ErrDuplicatedKey so
		// callers can tell a replay race from real storage trouble.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	dm.db = db

	return dm, nil
}

func (dm *DatabaseManager) gormLogLevel() logger.LogLevel {
	switch dm.LogLevel {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	case LogLevelSilent:
		return logger.Silent
	}
	return logger.Warn
}

// Migrate creates/updates the tracking schema.
func (dm *DatabaseManager) Migrate() error {
	return dm.db.AutoMigrate(
		&model.TimeStamp{},
		&model.TimeBlock{},
		&model.TimeBreak{},
		&model.OvertimeAccount{},
		&model.TimeCorrectionRequest{},
		&model.PlausibilityIssue{},
		&model.HomeofficePolicy{},
	)
}

// DB exposes the shared gorm handle for long-lived consumers like the
// policy gate.
func (dm *DatabaseManager) DB() *gorm.DB {
	return dm.db
}

// Exec runs fn against the shared gorm handle bound to ctx.
func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.db.WithContext(ctx))
}

// Transaction runs fn inside one database transaction; fn returning an
// error rolls the whole operation back.
func (dm *DatabaseManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return dm.db.WithContext(ctx).Transaction(fn)
}

// Close closes the shared pool.
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}
