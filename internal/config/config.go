package config

import (
	"fmt"
	"os"
	"strconv"

	"gohrm/domain/melt"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Port           string
	MaxUploadBytes int64
}

// AnalysisConfig holds default engine settings, overridable per request
type AnalysisConfig struct {
	SmoothingWindow int
	Mode            melt.NormalizationMode
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("HRM_PORT", "8080"),
			MaxUploadBytes: int64(getEnvInt("HRM_MAX_UPLOAD_MB", 32)) << 20,
		},
		Analysis: AnalysisConfig{
			SmoothingWindow: getEnvInt("HRM_SMOOTHING_WINDOW", 3),
			Mode:            melt.NormalizationMode(getEnv("HRM_NORMALIZATION_MODE", string(melt.ModeAuto))),
		},
	}

	if cfg.Analysis.SmoothingWindow < 1 {
		return nil, fmt.Errorf("HRM_SMOOTHING_WINDOW must be >= 1, got %d", cfg.Analysis.SmoothingWindow)
	}
	if cfg.Analysis.Mode != melt.ModeAuto && cfg.Analysis.Mode != melt.ModeManual {
		return nil, fmt.Errorf("HRM_NORMALIZATION_MODE must be auto or manual, got %q", cfg.Analysis.Mode)
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("HRM_MAX_UPLOAD_MB must be positive")
	}
	return cfg, nil
}

// Settings returns the configured defaults as engine settings
func (c AnalysisConfig) Settings() melt.AnalysisSettings {
	return melt.AnalysisSettings{
		Mode:            c.Mode,
		SmoothingWindow: c.SmoothingWindow,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
