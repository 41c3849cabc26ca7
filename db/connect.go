package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifeops-server/confs"
	"lifeops-server/entities"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database, sizes the pool and runs migrations.
func Connect(cfg confs.Config) (Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(logger.Warn),
		PrepareStmt:    cfg.DBDriver == "postgres",
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under load
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.Println("Database connection established successfully!")

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migrations completed successfully!")

	return &GormDatabase{DB: db}, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Session{},
		&entities.Household{},
		&entities.HouseholdMember{},
		&entities.HouseholdInvite{},
		&entities.Task{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// OpenSQLite opens a migrated sqlite database at dsn. Tests use it with
// in-memory DSNs.
func OpenSQLite(dsn string) (Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newLogger(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &GormDatabase{DB: db}, nil
}

func dialectorFor(cfg confs.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if err := ensureDirForSQLite(cfg.SQLitePath); err != nil {
			return nil, err
		}
		log.Printf("Connecting to sqlite database at %s...", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case "postgres":
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

func postgresDSN(cfg confs.Config) (string, error) {
	if cfg.DBURL != "" {
		dsn := cfg.DBURL
		// hosted databases require TLS unless the URL says otherwise
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		log.Println("Connecting to database using DB_URL...")
		return dsn, nil
	}

	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}

	log.Printf("Connecting to database using individual parameters (sslmode=%s)...", sslMode)
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslMode), nil
}

func newLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ensureDirForSQLite creates the parent dir for a sqlite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
