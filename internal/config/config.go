package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment         string
	Store               string
	DBDSN               string
	HTTPAddr            string
	JWTSecret           string
	SessionTTL          time.Duration
	StoreTimeout        time.Duration
	NewBookingsInterval time.Duration
	EmployeeServices    model.AssignmentMode
	RedisAddr           string
	RedisPassword       string
	TelegramToken       string
	AdminChatID         string
	RateLimitPerMin     int
	Timezone            *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}
	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:      getenv("ENV", "development"),
		Store:            getenv("STORE", StorePostgres),
		DBDSN:            os.Getenv("DB_DSN"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		EmployeeServices: model.AssignmentMode(getenv("EMPLOYEE_SERVICES", string(model.AssignmentSingle))),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		AdminChatID:      os.Getenv("ADMIN_CHAT_ID"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = durationEnv("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.NewBookingsInterval, err = durationEnv("NEW_BOOKINGS_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin, err = intEnv("RATE_LIMIT_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.Timezone, err = time.LoadLocation(getenv("TZ_NAME", "Europe/Stockholm")); err != nil {
		return nil, fmt.Errorf("TZ_NAME: %w", err)
	}

	// Проверяем обязательные поля
	switch cfg.Store {
	case StorePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if !cfg.EmployeeServices.Valid() {
		return nil, fmt.Errorf("EMPLOYEE_SERVICES must be single or multiple, got %q", cfg.EmployeeServices)
	}
	if cfg.RateLimitPerMin <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
