package initializers

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the gorm driver for dbType.
func Dialector(dbType, uri string) (gorm.Dialector, error) {
	switch dbType {
	case "", "sqlite":
		return sqlite.Open(uri), nil
	case "postgres", "postgresql":
		return postgres.Open(uri), nil
	case "mysql":
		return mysql.Open(uri), nil
	case "sqlserver":
		return sqlserver.Open(uri), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// OpenDB opens a connection without touching the package-level DB.
func OpenDB(dbType, uri string) (*gorm.DB, error) {
	dialector, err := Dialector(dbType, uri)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if dbType == "" || dbType == "sqlite" {
		// One connection: writers never contend and ":memory:" stays a single database.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// ConnectToDB opens the configured database and stores it in DB.
func ConnectToDB(cfg *Config) error {
	db, err := OpenDB(cfg.DBType, cfg.DatabaseURI)
	if err != nil {
		return err
	}
	DB = db
	Logger.Info("Connected to database", zap.String("type", cfg.DBType))
	return nil
}

// CloseDB closes the package-level connection if one is open.
func CloseDB() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
