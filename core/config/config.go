package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// WhatsAppConfig holds WhatsApp Cloud API credentials and endpoint settings.
type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token" envconfig:"WHATSAPP_ACCESS_TOKEN"`
	PhoneNumberID string `yaml:"phone_number_id" envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
	VerifyToken   string `yaml:"verify_token" envconfig:"WHATSAPP_VERIFY_TOKEN"`
	// AppSecret enables X-Hub-Signature-256 verification when set.
	AppSecret  string `yaml:"app_secret" envconfig:"WHATSAPP_APP_SECRET"`
	APIVersion string `yaml:"api_version" envconfig:"WHATSAPP_API_VERSION"`
	BaseURL    string `yaml:"base_url" envconfig:"WHATSAPP_BASE_URL"`
	// TimeoutSeconds bounds a single Graph API call; 0 -> default
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"WHATSAPP_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies the inbound HTTP listener.
type WebhookConfig struct {
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
	Path   string `yaml:"path" envconfig:"WEBHOOK_PATH"`
}

// BookingConfig points at the remote booking REST API.
type BookingConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"API_BASE_URL"`
	VenueID        int    `yaml:"venue_id" envconfig:"SALON_ID"`
	AuthToken      string `yaml:"auth_token" envconfig:"API_AUTH_TOKEN"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"API_TIMEOUT_SECONDS"`
}

// BusinessConfig carries the shop identity used in outbound copy.
type BusinessConfig struct {
	Name         string `yaml:"name" envconfig:"BUSINESS_NAME"`
	ScheduleURL  string `yaml:"schedule_url" envconfig:"SCHEDULE_URL"`
	InstagramURL string `yaml:"instagram_url" envconfig:"INSTAGRAM_URL"`
}

// SessionConfig controls conversation expiry.
type SessionConfig struct {
	ExpirationMinutes int `yaml:"expiration_minutes" envconfig:"SESSION_EXPIRATION_MINUTES"`
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	MigrationsDir  string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password  string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" envconfig:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`
}

// FirestoreConfig holds Firestore settings for the firebase-backed store.
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id" envconfig:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	Collection      string `yaml:"collection" envconfig:"FIRESTORE_COLLECTION"`
}

// StorageConfig selects the session backend.
type StorageConfig struct {
	Driver    string          `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Firestore FirestoreConfig `yaml:"firestore"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	File        string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig holds per-sender inbound limiting. IntervalMS 0 disables it.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	Burst      int `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
}

const (
	// StorageMemory keeps sessions in process memory.
	StorageMemory = "memory"
	// StoragePostgres keeps sessions in a Postgres table.
	StoragePostgres = "postgres"
	// StorageRedis keeps sessions in Redis with a TTL.
	StorageRedis = "redis"
	// StorageFirestore keeps sessions in a Firestore collection.
	StorageFirestore = "firestore"
)

const (
	defaultAPIVersion        = "v22.0"
	defaultGraphBaseURL      = "https://graph.facebook.com"
	defaultWebhookPath       = "/webhook"
	defaultPort              = 3000
	defaultExpirationMinutes = 30
	defaultTimeoutSeconds    = 10
	defaultCollection        = "sessions"
	defaultBusinessName      = "Western Barber Shop"
)

// Config aggregates the whole process configuration.
type Config struct {
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Booking   BookingConfig   `yaml:"booking"`
	Business  BusinessConfig  `yaml:"business"`
	Session   SessionConfig   `yaml:"session"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
// A missing file is tolerated so deployments can rely on environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	wa := &cfg.WhatsApp
	if strings.TrimSpace(wa.AccessToken) == "" {
		return fmt.Errorf("whatsapp.access_token is required")
	}
	if strings.TrimSpace(wa.PhoneNumberID) == "" {
		return fmt.Errorf("whatsapp.phone_number_id is required")
	}
	if strings.TrimSpace(wa.VerifyToken) == "" {
		return fmt.Errorf("whatsapp.verify_token is required")
	}
	if wa.APIVersion == "" {
		wa.APIVersion = defaultAPIVersion
	}
	wa.BaseURL = strings.TrimRight(strings.TrimSpace(wa.BaseURL), "/")
	if wa.BaseURL == "" {
		wa.BaseURL = defaultGraphBaseURL
	}
	if wa.TimeoutSeconds < 0 {
		return fmt.Errorf("whatsapp.timeout_seconds must be >= 0")
	}
	if wa.TimeoutSeconds == 0 {
		wa.TimeoutSeconds = defaultTimeoutSeconds
	}

	if cfg.Webhook.Port == 0 {
		cfg.Webhook.Port = defaultPort
	}
	if cfg.Webhook.Port < 0 || cfg.Webhook.Port > 65535 {
		return fmt.Errorf("webhook.port %d out of range", cfg.Webhook.Port)
	}
	path := strings.TrimSpace(cfg.Webhook.Path)
	if path == "" {
		path = defaultWebhookPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	cfg.Webhook.Path = path

	bk := &cfg.Booking
	bk.BaseURL = strings.TrimRight(strings.TrimSpace(bk.BaseURL), "/")
	if bk.BaseURL == "" {
		return fmt.Errorf("booking.base_url is required")
	}
	if u, err := url.Parse(bk.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("booking.base_url %q is not an absolute URL", bk.BaseURL)
	}
	if bk.VenueID <= 0 {
		return fmt.Errorf("booking.venue_id must be > 0")
	}
	if strings.TrimSpace(bk.AuthToken) == "" {
		return fmt.Errorf("booking.auth_token is required")
	}
	if bk.TimeoutSeconds < 0 {
		return fmt.Errorf("booking.timeout_seconds must be >= 0")
	}
	if bk.TimeoutSeconds == 0 {
		bk.TimeoutSeconds = defaultTimeoutSeconds
	}

	if strings.TrimSpace(cfg.Business.Name) == "" {
		cfg.Business.Name = defaultBusinessName
	}

	if cfg.Session.ExpirationMinutes < 0 {
		return fmt.Errorf("session.expiration_minutes must be >= 0")
	}
	if cfg.Session.ExpirationMinutes == 0 {
		cfg.Session.ExpirationMinutes = defaultExpirationMinutes
	}

	if err := normalizeStorage(&cfg.Storage); err != nil {
		return err
	}

	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}
	if cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be >= 0")
	}
	if cfg.RateLimit.IntervalMS > 0 && cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 1
	}
	return nil
}

func normalizeStorage(st *StorageConfig) error {
	driver := strings.ToLower(strings.TrimSpace(st.Driver))
	if driver == "" {
		driver = StorageMemory
	}
	if driver == "pg" || driver == "postgresql" { // accept alias
		driver = StoragePostgres
	}
	switch driver {
	case StorageMemory:
	case StoragePostgres:
		pg := &st.Postgres
		if strings.TrimSpace(pg.Host) == "" || strings.TrimSpace(pg.Name) == "" {
			return fmt.Errorf("storage.postgres.host and storage.postgres.name are required when storage.driver is 'postgres'")
		}
		if pg.Port == "" {
			pg.Port = "5432"
		}
		if pg.SSLMode == "" {
			pg.SSLMode = "disable"
		}
		if pg.MaxConnections <= 0 {
			pg.MaxConnections = 5
		}
		if pg.MigrationsDir == "" {
			pg.MigrationsDir = "migrations"
		}
	case StorageRedis:
		if strings.TrimSpace(st.Redis.Addr) == "" {
			return fmt.Errorf("storage.redis.addr is required when storage.driver is 'redis'")
		}
		if st.Redis.KeyPrefix == "" {
			st.Redis.KeyPrefix = "session:"
		}
	case StorageFirestore:
		if strings.TrimSpace(st.Firestore.ProjectID) == "" {
			return fmt.Errorf("storage.firestore.project_id is required when storage.driver is 'firestore'")
		}
		if st.Firestore.Collection == "" {
			st.Firestore.Collection = defaultCollection
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: memory, postgres, redis, firestore", st.Driver)
	}
	st.Driver = driver
	return nil
}

// SessionTTL returns the configured inactivity window.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.ExpirationMinutes) * time.Minute
}

// ListenAddr joins webhook listen host and port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(c.Webhook.Listen), c.Webhook.Port)
}
