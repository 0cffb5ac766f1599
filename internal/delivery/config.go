package delivery

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL       string
	EnvironmentID string
	APIKey        string
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		BaseURL:       os.Getenv("DELIVERY_BASE_URL"),
		EnvironmentID: os.Getenv("DELIVERY_ENVIRONMENT_ID"),
		APIKey:        os.Getenv("DELIVERY_API_KEY"),
	}

	if cfg.BaseURL == "" {
		slog.Error("DELIVERY_BASE_URL environment variable is not set")
		return nil, fmt.Errorf("DELIVERY_BASE_URL environment variable is not set")
	}
	if _, err := uuid.Parse(cfg.EnvironmentID); err != nil {
		slog.Error("DELIVERY_ENVIRONMENT_ID is not a valid environment id", "value", cfg.EnvironmentID)
		return nil, fmt.Errorf("DELIVERY_ENVIRONMENT_ID is not a valid environment id: %w", err)
	}

	return cfg, nil
}
