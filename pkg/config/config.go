package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig     `envconfig:"SERVER"`
	Database  DatabaseConfig   `envconfig:"DB"`
	Redis     RedisConfig      `envconfig:"REDIS"`
	Cron      CronConfig       `envconfig:"CRON"`
	Groq      GroqConfig       `envconfig:"GROQ"`
	Assembly  AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	OAuth     OAuthConfig      `envconfig:"OAUTH"`
	Storage   StorageConfig    `envconfig:"STORAGE"`
	Retry     RetryConfig      `envconfig:"RETRY"`
	Ingestion IngestionConfig  `envconfig:"INGEST"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string `split_words:"true" default:"localhost"`
	Port          string `split_words:"true" default:"5432"`
	User          string `split_words:"true" default:"postgres"`
	Password      string `split_words:"true" default:"postgres"`
	Name          string `split_words:"true" default:"clientpulse"`
	SSLMode       string `split_words:"true" default:"disable"`
	MaxConns      int    `split_words:"true" default:"25"`
	MinConns      int    `split_words:"true" default:"5"`
	AutoMigrate   bool   `split_words:"true" default:"false"`
	MigrationsDir string `split_words:"true" default:"migrations"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string `split_words:"true" default:"localhost"`
	Port         string `split_words:"true" default:"6379"`
	Password     string `split_words:"true"`
	DB           int    `split_words:"true" default:"0"`
	AlertChannel string `split_words:"true" default:"ops:alerts"`
	AlertHistory int64  `split_words:"true" default:"200"`
}

// CronConfig holds the shared secret for the scheduler trigger
type CronConfig struct {
	Secret string `split_words:"true"`
}

// GroqConfig holds the OpenAI-compatible LLM endpoint configuration
type GroqConfig struct {
	APIKey      string        `split_words:"true"`
	BaseURL     string        `split_words:"true" default:"https://api.groq.com"`
	Model       string        `split_words:"true" default:"llama-3.3-70b-versatile"`
	Temperature float64       `split_words:"true" default:"0.2"`
	MaxTokens   int           `split_words:"true" default:"2000"`
	Timeout     time.Duration `split_words:"true" default:"60s"`
}

// AssemblyAIConfig holds AssemblyAI configuration. An empty key disables
// transcription of audio recordings.
type AssemblyAIConfig struct {
	APIKey       string `split_words:"true"`
	LanguageCode string `split_words:"true" default:"en"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig `split_words:"true"`
}

// GoogleOAuthConfig holds Google OAuth configuration for the Gmail source
type GoogleOAuthConfig struct {
	ClientID     string `split_words:"true"`
	ClientSecret string `split_words:"true"`
	RefreshToken string `split_words:"true"`
	GmailBaseURL string `split_words:"true" default:"https://gmail.googleapis.com"`
}

// StorageConfig holds the document bucket configuration
type StorageConfig struct {
	Endpoint        string        `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string        `split_words:"true" default:"minioadmin"`
	SecretAccessKey string        `split_words:"true" default:"minioadmin"`
	BucketName      string        `split_words:"true" default:"knowledge-documents"`
	UseSSL          bool          `split_words:"true" default:"false"`
	PresignExpiry   time.Duration `split_words:"true" default:"1h"`
}

// RetryConfig holds defaults for retrying remote calls
type RetryConfig struct {
	MaxAttempts int           `split_words:"true" default:"4"`
	BaseDelay   time.Duration `split_words:"true" default:"400ms"`
	MaxDelay    time.Duration `split_words:"true" default:"5s"`
}

// IngestionConfig holds fetch limits for knowledge-source processors
type IngestionConfig struct {
	PageSize        int   `split_words:"true" default:"50"`
	MaxItems        int   `split_words:"true" default:"200"`
	MaxDocumentSize int64 `split_words:"true" default:"1048576"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cron.Secret == "" {
		return fmt.Errorf("CRON_SECRET is required")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.Ingestion.PageSize < 1 {
		return fmt.Errorf("INGEST_PAGE_SIZE must be at least 1")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
