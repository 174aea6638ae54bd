package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	BaseURL string

	RequestTimeout time.Duration
	ThinkTimeout   time.Duration

	// AIMode, when set, is pushed to the server at startup: black|white|none.
	AIMode string

	RedisURL    string
	DatabaseURL string

	MsgcatDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		RequestTimeout: 10 * time.Second,
		ThinkTimeout:   60 * time.Second,
	}

	cfg.BaseURL = strings.TrimSpace(os.Getenv("ANNAN_BASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MsgcatDir = strings.TrimSpace(os.Getenv("MESSAGE_DIR"))

	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("THINK_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ThinkTimeout = time.Duration(n) * time.Second
		}
	}

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE"))); v != "" {
		switch v {
		case "black", "white", "none":
			cfg.AIMode = v
		default:
			return nil, errors.New("AI_MODE must be black, white, or none")
		}
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("ANNAN_BASE_URL is required")
	}

	return cfg, nil
}
