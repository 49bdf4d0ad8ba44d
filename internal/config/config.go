// Package config reads the bot's runtime configuration from environment
// variables, typically loaded from a .env file by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/user/bramify/internal/work"
)

// Config holds everything the bot needs to start.
type Config struct {
	TelegramToken     string
	AllowedUserIDs    []int64
	SpreadsheetID     string
	CredentialsFile   string
	ClientCodesFile   string
	DefaultHourlyRate float64
	Debug             bool
}

// Load reads the configuration from the environment. The Telegram token and
// spreadsheet ID are required; everything else has a sensible default.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		SpreadsheetID:     os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
		CredentialsFile:   getEnv("GOOGLE_SHEETS_CREDENTIALS_FILE", "credentials.json"),
		ClientCodesFile:   getEnv("CLIENT_CODES_FILE", "config/client_codes.json"),
		DefaultHourlyRate: work.DefaultHourlyRate,
		Debug:             os.Getenv("DEBUG") == "true",
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID is required")
	}

	if raw := os.Getenv("DEFAULT_HOURLY_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid DEFAULT_HOURLY_RATE: %q", raw)
		}
		cfg.DefaultHourlyRate = rate
	}

	ids, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AllowedUserIDs = ids

	return cfg, nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in TELEGRAM_ALLOWED_USER_IDS: %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
