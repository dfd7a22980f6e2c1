package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	EnableTLS bool   `mapstructure:"enable_tls"`
	// TTL for reference-data list caches, seconds.
	ReferenceTTLSec int `mapstructure:"reference_ttl_sec"`
}

type RabbitMQConfig struct {
	URL          string `mapstructure:"url"`
	EnableTLS    bool   `mapstructure:"enable_tls"`
	ExchangeName string `mapstructure:"exchange_name"`
	RoutingKey   struct {
		SurveyDeleted string `mapstructure:"survey_deleted"`
		FormUpdated   string `mapstructure:"form_updated"`
	} `mapstructure:"routing_key"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
	PublicPrefix string `mapstructure:"public_prefix"`
}

type ExportConfig struct {
	TemplatePath string `mapstructure:"template_path"`
}

type AuthConfig struct {
	ApiBearerToken           string `mapstructure:"api_bearer_token"`
	BearerTokenPrefix        string `mapstructure:"bearer_token_prefix"`
	SecretPepper             string `mapstructure:"secret_pepper"`
	EnableArgon2Verification bool   `mapstructure:"enable_argon2_verification"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type ReferenceSeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Log           LogConfig           `mapstructure:"log"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	RabbitMQ      RabbitMQConfig      `mapstructure:"rabbitmq"`
	S3            S3Config            `mapstructure:"s3"`
	Uploads       UploadsConfig       `mapstructure:"uploads"`
	Export        ExportConfig        `mapstructure:"export"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Telemetry     TelemetryConfig     `mapstructure:"telemetry"`
	ReferenceSeed ReferenceSeedConfig `mapstructure:"reference_seed"`
}

// Load reads config.yaml (path overridable via SITESURVEY_CONFIG) and applies
// SITESURVEY_* environment overrides, e.g. SITESURVEY_DATABASE_DSN.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "sitesurvey-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.reference_ttl_sec", 600)
	v.SetDefault("rabbitmq.exchange_name", "sitesurvey.events")
	v.SetDefault("rabbitmq.routing_key.survey_deleted", "survey.deleted")
	v.SetDefault("rabbitmq.routing_key.form_updated", "form.updated")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_size_bytes", int64(10*1024*1024))
	v.SetDefault("uploads.public_prefix", "/uploads")
	v.SetDefault("auth.bearer_token_prefix", "sk_survey_")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("reference_seed.enabled", true)

	if path := os.Getenv("SITESURVEY_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SITESURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env vars alone are a valid setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
