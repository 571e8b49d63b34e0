package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Env     string `yaml:"env"`
	GinMode string `yaml:"gin_mode"`
	Port    string `yaml:"port"`

	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`

	JWTSecret            string `yaml:"jwt_secret"`
	JWTResetSecret       string `yaml:"jwt_reset_secret"`
	JWTTTLHours          int    `yaml:"jwt_ttl_hours"`
	ResetTokenTTLMinutes int    `yaml:"reset_token_ttl_minutes"`

	FrontendURL string `yaml:"frontend_url"`

	AWSRegion          string `yaml:"aws_region"`
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	AWSBucketName      string `yaml:"aws_bucket_name"`
	AWSEndpoint        string `yaml:"aws_endpoint"`
	AWSPublicRead      bool   `yaml:"aws_public_read"`

	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
	SMTPFrom string `yaml:"smtp_from"`

	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

// Load reads the optional YAML file at CONFIG_PATH and then applies
// environment variables on top of it.
func Load() (*Config, error) {
	cfg := &Config{AWSPublicRead: true}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Env = getEnv("APP_ENV", or(cfg.Env, "development"))
	cfg.GinMode = getEnv("GIN_MODE", or(cfg.GinMode, "debug"))
	cfg.Port = getEnv("PORT", or(cfg.Port, "3000"))

	cfg.DBDriver = getEnv("DB_DRIVER", or(cfg.DBDriver, "mysql"))
	cfg.DBHost = getEnv("DB_HOST", or(cfg.DBHost, "localhost"))
	cfg.DBPort = getEnv("DB_PORT", or(cfg.DBPort, "3306"))
	cfg.DBUser = getEnv("DB_USER", or(cfg.DBUser, "ongconnect"))
	cfg.DBPassword = getEnv("DB_PASSWORD", or(cfg.DBPassword, "ongconnect"))
	cfg.DBName = getEnv("DB_NAME", or(cfg.DBName, "ong_connect"))

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", or(cfg.RedisPort, "6379"))
	cfg.SessionSecret = getEnv("SESSION_SECRET", or(cfg.SessionSecret, "default-secret-key-change-me"))

	cfg.JWTSecret = getEnv("JWT_SECRET", or(cfg.JWTSecret, "default-jwt-secret-change-me"))
	cfg.JWTResetSecret = getEnv("JWT_RESET_SECRET", or(cfg.JWTResetSecret, "default-reset-secret-change-me"))
	cfg.JWTTTLHours = getEnvInt("JWT_TTL_HOURS", orInt(cfg.JWTTTLHours, 24))
	cfg.ResetTokenTTLMinutes = getEnvInt("RESET_TOKEN_TTL_MINUTES", orInt(cfg.ResetTokenTTLMinutes, 60))

	cfg.FrontendURL = getEnv("FRONTEND_URL", or(cfg.FrontendURL, "http://localhost:3001"))

	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.AWSAccessKeyID)
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.AWSSecretAccessKey)
	cfg.AWSBucketName = getEnv("AWS_BUCKET_NAME", or(cfg.AWSBucketName, "ong-connect"))
	cfg.AWSEndpoint = getEnv("AWS_ENDPOINT", cfg.AWSEndpoint)
	cfg.AWSPublicRead = getEnvBool("AWS_PUBLIC_READ", cfg.AWSPublicRead)

	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvInt("SMTP_PORT", orInt(cfg.SMTPPort, 587))
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPass = getEnv("SMTP_PASS", cfg.SMTPPass)
	cfg.SMTPFrom = getEnv("SMTP_FROM", or(cfg.SMTPFrom, "no-reply@ongconnect.local"))

	cfg.MaxUploadMB = int64(getEnvInt("MAX_UPLOAD_MB", orInt(int(cfg.MaxUploadMB), 10)))

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
