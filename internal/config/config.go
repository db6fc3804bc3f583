package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment       string
	Port              string
	LogLevel          slog.Level
	DatabaseURL       string
	RedisURL          string
	InstitutionDomain string
	AllowedOrigin     string
	BcryptCost        int
	CacheTTL          time.Duration

	JWT   JWTConfig
	Kafka KafkaConfig
}

// JWTConfig holds the signing material shared by token issue and verify.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=edutrack port=5432 sslmode=disable")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "rahasia-super-aman")
	v.SetDefault("JWT_TTL", "6h")
	v.SetDefault("INSTITUTION_DOMAIN", "itera.ac.id")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_TOPIC", "forum.events")
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	cfg.Environment = v.GetString("ENVIRONMENT")
	cfg.Port = v.GetString("PORT")
	cfg.DatabaseURL = v.GetString("DATABASE_URL")
	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.InstitutionDomain = v.GetString("INSTITUTION_DOMAIN")
	cfg.AllowedOrigin = v.GetString("CORS_ALLOWED_ORIGIN")
	cfg.BcryptCost = v.GetInt("BCRYPT_COST")
	cfg.CacheTTL = v.GetDuration("CACHE_TTL")

	level, err := parseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.TTL = v.GetDuration("JWT_TTL")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %q", v.GetString("JWT_TTL"))
	}

	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.Topic = v.GetString("EVENTS_TOPIC")

	return &cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
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
