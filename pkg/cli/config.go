package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/filtr/pkg/raster"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	// Workers bounds the engine's row-band parallelism; 0 uses GOMAXPROCS.
	Workers int
	// JPEGQuality is used when saving .jpg/.jpeg files.
	JPEGQuality int
	// LogLevel is the minimum level written to stderr.
	LogLevel slog.Level
	// PreviewDebug prints terminal detection details.
	PreviewDebug bool
}

// DefaultConfig returns the settings used when no variable is set.
func DefaultConfig() Config {
	return Config{JPEGQuality: 92, LogLevel: slog.LevelWarn}
}

// LoadConfig loads envFile (".env" when empty) into the process environment
// and parses the FILTR_* variables. A missing env file is not an error.
// Variables already present in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv parses settings through getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv("FILTR_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("FILTR_WORKERS: want a non-negative integer, got %q", v)
		}
		cfg.Workers = n
	}

	if v := strings.TrimSpace(getenv("FILTR_JPEG_QUALITY")); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("FILTR_JPEG_QUALITY: want 1..100, got %q", v)
		}
		cfg.JPEGQuality = q
	}

	if v := strings.TrimSpace(getenv("FILTR_LOG_LEVEL")); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("FILTR_LOG_LEVEL: %w", err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(getenv("PREVIEW_DEBUG"))) {
	case "1", "true", "yes", "on":
		cfg.PreviewDebug = true
	}
	return cfg, nil
}

// Install applies cfg to the engine: worker count, a text logger on w at
// the configured level, and the preview debug switch.
func (cfg Config) Install(w io.Writer) {
	raster.SetWorkers(cfg.Workers)
	raster.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})))
	previewDebug = cfg.PreviewDebug
}
