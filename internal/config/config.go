package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"` // pgsql, sqlite or memory
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"reports"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address           string        `envconfig:"REPORT_EXPORTER_ADDRESS" default:":8080"`
	LogLevel          string        `envconfig:"REPORT_EXPORTER_LOG_LEVEL" default:"info"`
	QueueCapacity     int           `envconfig:"REPORT_EXPORTER_QUEUE_CAPACITY" default:"200"`
	WorkerCount       int           `envconfig:"REPORT_EXPORTER_WORKER_COUNT" default:"1"`
	ReconcileInterval time.Duration `envconfig:"REPORT_EXPORTER_RECONCILE_INTERVAL" default:"1m"`
	QueuedStaleAfter  time.Duration `envconfig:"REPORT_EXPORTER_QUEUED_STALE_AFTER" default:"5m"`
	Artifact          artifactConfig
}

type artifactConfig struct {
	Dir         string `envconfig:"REPORT_EXPORTER_ARTIFACT_DIR" default:"/tmp/report-exports"`
	S3Endpoint  string `envconfig:"REPORT_EXPORTER_S3_ENDPOINT" default:""`
	S3Bucket    string `envconfig:"REPORT_EXPORTER_S3_BUCKET" default:"report-exports"`
	S3AccessKey string `envconfig:"REPORT_EXPORTER_S3_ACCESS_KEY" default:""`
	S3SecretKey string `envconfig:"REPORT_EXPORTER_S3_SECRET_KEY" default:""`
	S3UseSSL    bool   `envconfig:"REPORT_EXPORTER_S3_USE_SSL" default:"false"`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if cfg.Service.WorkerCount < 1 {
		cfg.Service.WorkerCount = 1
	}
	if cfg.Service.QueueCapacity < 1 {
		cfg.Service.QueueCapacity = 1
	}
	return cfg, nil
}

// NewDefault returns the configuration with every value at its default,
// ignoring the environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "memory"},
		Service: &svcConfig{
			Address:           ":8080",
			LogLevel:          "info",
			QueueCapacity:     200,
			WorkerCount:       1,
			ReconcileInterval: time.Minute,
			QueuedStaleAfter:  5 * time.Minute,
			Artifact:          artifactConfig{Dir: "/tmp/report-exports"},
		},
	}
}
