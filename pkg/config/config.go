package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	APIKey  APIKeyConfig
	GCP     GCPConfig
	GCS     GCSConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Migrate MigrateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QRBATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"QRBATCH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"QRBATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QRBATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QRBATCH_DB_DSN"`
	Driver string `envconfig:"QRBATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QRBATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"QRBATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QRBATCH_DB_USER"`
	LegacyPassword string `envconfig:"QRBATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"QRBATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"QRBATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QRBATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QRBATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QRBATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QRBATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either QRBATCH_DB_DSN or QRBATCH_DB_HOST/USER/NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"QRBATCH_REDIS_URL" required:"true"`
	Password     string        `envconfig:"QRBATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"QRBATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QRBATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QRBATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QRBATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QRBATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QRBATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QRBATCH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QRBATCH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QRBATCH_JWT_EXPIRATION_MINUTES" default:"60"`
}

type APIKeyConfig struct {
	ArgonMemoryKB    int `envconfig:"QRBATCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QRBATCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QRBATCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QRBATCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QRBATCH_ARGON_KEY_LEN" default:"32"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"QRBATCH_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"QRBATCH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"QRBATCH_GCS_BUCKET"`
}

type PubSubConfig struct {
	BatchTopic string `envconfig:"QRBATCH_PUBSUB_BATCH_TOPIC" default:"batch-events"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"QRBATCH_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"QRBATCH_OUTBOX_POLL_INTERVAL" default:"500ms"`
	PublishTimeout time.Duration `envconfig:"QRBATCH_OUTBOX_PUBLISH_TIMEOUT" default:"15s"`
	MaxAttempts    int           `envconfig:"QRBATCH_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MigrateConfig struct {
	AutoRun bool `envconfig:"QRBATCH_MIGRATE_AUTORUN" default:"false"`
}
