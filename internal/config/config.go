package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	DocAI    DocAIConfig
	Delivery DeliveryConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// DocAIConfig holds Document AI extraction service settings.
type DocAIConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Location    string `mapstructure:"location"`
	Endpoint    string `mapstructure:"endpoint"` // overrides the location-derived endpoint
	AccessToken string `mapstructure:"access_token"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// DeliveryConfig holds purchase-order delivery settings. Provider "noop"
// simulates delivery; "sap" posts to a live endpoint.
type DeliveryConfig struct {
	Provider    string `mapstructure:"provider"`
	APIURL      string `mapstructure:"api_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the POFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "poflow")
	v.SetDefault("db.password", "poflow_secret")
	v.SetDefault("db.name", "poflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "poflow-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Document AI defaults
	v.SetDefault("docai.project_id", "")
	v.SetDefault("docai.location", "us")
	v.SetDefault("docai.endpoint", "")
	v.SetDefault("docai.access_token", "")
	v.SetDefault("docai.timeout_secs", 120)

	// Delivery defaults (mock mode)
	v.SetDefault("delivery.provider", "noop")
	v.SetDefault("delivery.api_url", "")
	v.SetDefault("delivery.api_key", "")
	v.SetDefault("delivery.timeout_secs", 30)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "POFLOW_SERVER_PORT",
		"server.read_timeout":   "POFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "POFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":    "POFLOW_SERVER_ENVIRONMENT",
		"db.host":               "POFLOW_DB_HOST",
		"db.port":               "POFLOW_DB_PORT",
		"db.user":               "POFLOW_DB_USER",
		"db.password":           "POFLOW_DB_PASSWORD",
		"db.name":               "POFLOW_DB_NAME",
		"db.sslmode":            "POFLOW_DB_SSLMODE",
		"db.max_open":           "POFLOW_DB_MAX_OPEN",
		"db.max_idle":           "POFLOW_DB_MAX_IDLE",
		"s3.region":             "POFLOW_S3_REGION",
		"s3.bucket":             "POFLOW_S3_BUCKET",
		"s3.endpoint":           "POFLOW_S3_ENDPOINT",
		"s3.access_key":         "POFLOW_S3_ACCESS_KEY",
		"s3.secret_key":         "POFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":   "POFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":     "POFLOW_S3_PRESIGN_EXPIRY",
		"docai.project_id":      "POFLOW_DOCAI_PROJECT_ID",
		"docai.location":        "POFLOW_DOCAI_LOCATION",
		"docai.endpoint":        "POFLOW_DOCAI_ENDPOINT",
		"docai.access_token":    "POFLOW_DOCAI_ACCESS_TOKEN",
		"docai.timeout_secs":    "POFLOW_DOCAI_TIMEOUT_SECS",
		"delivery.provider":     "POFLOW_DELIVERY_PROVIDER",
		"delivery.api_url":      "POFLOW_DELIVERY_API_URL",
		"delivery.api_key":      "POFLOW_DELIVERY_API_KEY",
		"delivery.timeout_secs": "POFLOW_DELIVERY_TIMEOUT_SECS",
		"cors.allowed_origins":  "POFLOW_CORS_ALLOWED_ORIGINS",
		"log.level":             "POFLOW_LOG_LEVEL",
		"log.format":            "POFLOW_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if POFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("POFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.DocAI = DocAIConfig{
		ProjectID:   v.GetString("docai.project_id"),
		Location:    v.GetString("docai.location"),
		Endpoint:    v.GetString("docai.endpoint"),
		AccessToken: v.GetString("docai.access_token"),
		TimeoutSecs: v.GetInt("docai.timeout_secs"),
	}
	cfg.Delivery = DeliveryConfig{
		Provider:    v.GetString("delivery.provider"),
		APIURL:      v.GetString("delivery.api_url"),
		APIKey:      v.GetString("delivery.api_key"),
		TimeoutSecs: v.GetInt("delivery.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
