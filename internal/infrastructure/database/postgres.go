package database

import (
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/johnquangdev/clientpulse/errors"
	"github.com/johnquangdev/clientpulse/pkg/config"
)

// NewPostgresDB opens the knowledge store using GORM
func NewPostgresDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, apperrors.ErrDBConnectionFailed(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, apperrors.ErrDBConnectionFailed(fmt.Errorf("ping: %w", err))
	}

	if log != nil {
		log.Info("✅ Database connected successfully",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
	}
	return db, nil
}

// Migrate applies (or with down=true, rolls back at most limit) migrations from dir.
// limit <= 0 means no limit.
func Migrate(db *gorm.DB, dir string, down bool, limit int, log *zap.Logger) (int, error) {
	if dir == "" {
		dir = "migrations"
	}
	source := &migrate.FileMigrationSource{Dir: dir}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate: %w", err)
	}

	direction := migrate.Up
	if down {
		direction = migrate.Down
	}

	if log != nil {
		log.Info("🔄 Applying migrations", zap.String("dir", dir), zap.Bool("down", down))
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", source, direction, limit)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if log != nil {
		log.Info("✅ Migrations applied", zap.Int("count", n))
	}
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
