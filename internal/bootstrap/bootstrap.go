// Package bootstrap wires configuration, infrastructure and use cases into a
// runnable application shared by the HTTP server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/clientpulse/internal/adapter/repository"
	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/alert"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/cache"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/database"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/external/gmail"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/storage"
	"github.com/johnquangdev/clientpulse/internal/usecase/actions"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
	"github.com/johnquangdev/clientpulse/pkg/ai"
	"github.com/johnquangdev/clientpulse/pkg/config"
	"github.com/johnquangdev/clientpulse/pkg/retry"
)

// App holds the long-lived dependencies
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Store     *storage.MinIOClient
	Alerts    *alert.RedisAlerter
	Registry  *ingest.Registry
	Scheduler *ingest.Scheduler
}

// NewLogger builds the process logger for the configured environment
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// OpenDB connects to Postgres and applies migrations when DB_AUTO_MIGRATE is set
func OpenDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			_ = database.CloseDB(db)
			return nil, fmt.Errorf("DB_AUTO_MIGRATE must not be enabled in production; run `ingest migrate up`")
		}
		if _, err := database.Migrate(db, cfg.Database.MigrationsDir, false, 0, logger); err != nil {
			_ = database.CloseDB(db)
			return nil, err
		}
	}
	return db, nil
}

// New connects every dependency and registers the source processors.
// Redis and the document bucket are optional: without Redis, ops alerts go to
// the log only; without the bucket, document sources report a missing processor.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Registry: ingest.NewRegistry()}

	if logger != nil {
		logger.Info("🔧 Initializing dependencies...")
	}

	db, err := OpenDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.DB = db

	var alerter ingest.Alerter = alert.NewLogAlerter(logger)
	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("⚠️ Redis unavailable, ops alerts will only be logged", zap.Error(err))
		}
	} else {
		app.Redis = redisClient
		app.Alerts = alert.NewRedisAlerter(redisClient, cfg.Redis.AlertChannel, cfg.Redis.AlertHistory, logger)
		alerter = app.Alerts
	}

	queueRepo := repository.NewProcessingQueueRepository(db)
	intelRepo := repository.NewIntelligenceRepository(db)
	pipeline := actions.NewPipeline(
		repository.NewTaskRepository(db),
		repository.NewTeamMemberRepository(db),
		repository.NewClientHealthRepository(db),
		repository.NewHealthAlertRepository(db),
		logger,
	)

	retryOpts := retry.FromConfig(cfg.Retry)
	deps := ingest.ProcessorDeps{
		Extractor: ingest.NewExtractor(ai.NewGroqClient(&cfg.Groq), retryOpts, logger),
		Ledger:    ingest.NewLedger(queueRepo, intelRepo, logger),
		Actions:   pipeline,
		Retry:     retryOpts,
		Logger:    logger,
	}

	google := oauth.NewGoogleProvider(&cfg.OAuth.Google)
	if !google.Configured() && logger != nil {
		logger.Warn("⚠️ OAUTH_GOOGLE_REFRESH_TOKEN not set, email sources will fail to sync")
	}
	app.Registry.Register(entities.SourceTypeEmail,
		ingest.NewEmailProcessor(gmail.NewClient(google, &cfg.OAuth.Google, &cfg.Ingestion, logger), deps))

	store, err := storage.NewMinIOClient(ctx, &cfg.Storage)
	if err != nil {
		if logger != nil {
			logger.Warn("⚠️ Document bucket unavailable, document sources disabled", zap.Error(err))
		}
	} else {
		app.Store = store
		var transcriber storage.Transcriber
		if asm := ai.NewAssemblyAIClient(&cfg.Assembly); asm != nil {
			transcriber = asm
		}
		app.Registry.Register(entities.SourceTypeDocument,
			ingest.NewDocumentProcessor(storage.NewDocumentFetcher(store, transcriber, cfg.Ingestion.MaxDocumentSize, logger), deps))
	}

	app.Registry.Register(entities.SourceTypeManual, ingest.ManualProcessor{})

	app.Scheduler = ingest.NewScheduler(
		repository.NewKnowledgeSourceRepository(db),
		repository.NewClientRepository(db),
		repository.NewSyncLogRepository(db),
		app.Registry,
		alerter,
		logger,
	)

	if logger != nil {
		logger.Info("✅ Dependencies initialized",
			zap.Strings("source_types", typeNames(app.Registry.Types())),
			zap.Bool("redis_alerts", app.Alerts != nil),
		)
	}
	return app, nil
}

// Close releases connections
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if err := database.CloseDB(a.DB); err != nil && a.Logger != nil {
			a.Logger.Warn("⚠️ Failed to close database", zap.Error(err))
		}
	}
}

func typeNames(types []entities.SourceType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Migrator applies the migrations directory to an open database
type Migrator struct {
	db     *gorm.DB
	dir    string
	logger *zap.Logger
}

// NewMigrator creates a migrator for cfg.Database.MigrationsDir
func NewMigrator(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, dir: cfg.Database.MigrationsDir, logger: logger}
}

// Migrate applies (down=false) or rolls back up to limit migrations
func (m *Migrator) Migrate(down bool, limit int) (int, error) {
	return database.Migrate(m.db, m.dir, down, limit, m.logger)
}
