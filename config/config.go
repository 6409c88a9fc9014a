package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "dev-secret-key-change-me"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration
	Debug           bool

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Dataset configuration
	DatasetPath     string
	ImagesDir       string
	StaticDir       string
	DatasetCacheDir string
	AWSRegion       string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	BcryptCost    int

	// HTTP policy
	AllowedOrigins   []string
	AuthRateLimit    int
	AuthRateLimitWin time.Duration
}

// StaticImagesDir is the secondary image folder under the static assets
func (c *Config) StaticImagesDir() string {
	if c.StaticDir == "" {
		return ""
	}
	return filepath.Join(c.StaticDir, "img")
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis server was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance from defaults, an optional
// config.yaml, environment variables and Docker secrets, in increasing
// order of precedence.
func LoadConfig() (*Config, error) {
	env := CurrentEnvironment()
	v := viper.New()
	setDefaults(v, env)
	bindEnv(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Environment:      env,
		ServerPort:       v.GetString("server_port"),
		ServerHost:       v.GetString("server_host"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		Debug:            v.GetBool("debug"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		DatasetPath:      v.GetString("dataset_path"),
		ImagesDir:        v.GetString("images_dir"),
		StaticDir:        v.GetString("static_dir"),
		DatasetCacheDir:  v.GetString("dataset_cache_dir"),
		AWSRegion:        v.GetString("aws_region"),
		DBDriver:         strings.ToLower(v.GetString("db_driver")),
		DBPath:           v.GetString("db_path"),
		DBHost:           v.GetString("db_host"),
		DBPort:           v.GetString("db_port"),
		DBUser:           v.GetString("db_user"),
		DBPassword:       v.GetString("db_password"),
		DBName:           v.GetString("db_name"),
		DBSSLMode:        v.GetString("db_ssl_mode"),
		RedisHost:        v.GetString("redis_host"),
		RedisPort:        v.GetString("redis_port"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		RedisURL:         v.GetString("redis_url"),
		SessionSecret:    v.GetString("session_secret"),
		SessionTTL:       v.GetDuration("session_ttl"),
		CookieSecure:     v.GetBool("cookie_secure"),
		BcryptCost:       v.GetInt("bcrypt_cost"),
		AllowedOrigins:   splitList(v.GetString("allowed_origins")),
		AuthRateLimit:    v.GetInt("auth_rate_limit"),
		AuthRateLimitWin: v.GetDuration("auth_rate_limit_window"),
	}

	// Docker secrets win over everything else
	if secret := readSecret("session_secret"); secret != "" {
		cfg.SessionSecret = secret
	}
	if password := readSecret("db_password"); password != "" {
		cfg.DBPassword = password
	}
	if password := readSecret("redis_password"); password != "" {
		cfg.RedisPassword = password
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("server_port", "5000")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("debug", env.Verbose())
	v.SetDefault("log_level", "info")
	if env.IsProduction() {
		v.SetDefault("log_format", "json")
	} else {
		v.SetDefault("log_format", "console")
	}

	v.SetDefault("dataset_path", "Food Ingredients and Recipe Dataset with Image Name Mapping.csv")
	v.SetDefault("images_dir", filepath.Join("Food Images", "Food Images"))
	v.SetDefault("static_dir", "static")
	v.SetDefault("dataset_cache_dir", os.TempDir())
	v.SetDefault("aws_region", "us-east-1")

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "app.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "pantry")
	v.SetDefault("db_ssl_mode", "disable")

	v.SetDefault("redis_db", 0)

	v.SetDefault("session_secret", DefaultSessionSecret)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("cookie_secure", env.IsProduction())
	v.SetDefault("bcrypt_cost", 10)

	v.SetDefault("allowed_origins", "http://localhost:5173")
	v.SetDefault("auth_rate_limit", 20)
	v.SetDefault("auth_rate_limit_window", "1h")
}

func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	// Names used by earlier deployments
	_ = v.BindEnv("server_port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("session_secret", "SESSION_SECRET", "SECRET_KEY")
	_ = v.BindEnv("debug", "DEBUG", "FLASK_DEBUG")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
