package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"daily-routine/internal/model"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config keeps runtime settings for the bot and the HTTP API.
type Config struct {
	TelegramToken      string
	StorageBackend     string
	DatabaseURL        string
	RedisURL           string
	HTTPAddr           string
	Location           *time.Location
	AnalysisDelay      time.Duration
	MotivationTime     string
	StreakReminderTime string
	DailyReportTime    string
}

// Load reads configuration from environment variables with sane defaults. A
// .env file in the working directory is read first when present; variables
// already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		TelegramToken:      env("TELEGRAM_TOKEN", ""),
		StorageBackend:     strings.ToLower(env("STORAGE_BACKEND", BackendSQLite)),
		DatabaseURL:        env("DATABASE_URL", "daily_routine.db"),
		RedisURL:           env("REDIS_URL", ""),
		HTTPAddr:           ":8080",
		MotivationTime:     env("MOTIVATION_TIME", "08:00"),
		StreakReminderTime: env("STREAK_REMINDER_TIME", "20:00"),
		DailyReportTime:    env("DAILY_REPORT_TIME", "21:30"),
	}
	// An explicitly empty HTTP_ADDR turns the API off.
	if addr, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = strings.TrimSpace(addr)
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return cfg, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	loc, err := time.LoadLocation(env("TIMEZONE", "Local"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	delay, err := time.ParseDuration(env("ANALYSIS_DELAY", "2s"))
	if err != nil || delay < 0 {
		return cfg, fmt.Errorf("invalid ANALYSIS_DELAY %q", os.Getenv("ANALYSIS_DELAY"))
	}
	cfg.AnalysisDelay = delay

	for name, value := range map[string]string{
		"MOTIVATION_TIME":      cfg.MotivationTime,
		"STREAK_REMINDER_TIME": cfg.StreakReminderTime,
		"DAILY_REPORT_TIME":    cfg.DailyReportTime,
	} {
		if !model.IsClock(value) {
			return cfg, fmt.Errorf("invalid %s %q, expected HH:MM", name, value)
		}
	}

	return cfg, nil
}

func env(name, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}
