package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("got %+v, want defaults %+v", cfg, DefaultConfig())
	}
	if cfg.JPEGQuality != 92 || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := ConfigFromEnv(envMap(map[string]string{
		"FILTR_WORKERS":      "3",
		"FILTR_JPEG_QUALITY": "75",
		"FILTR_LOG_LEVEL":    "DEBUG",
		"PREVIEW_DEBUG":      "true",
	}))
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	want := Config{Workers: 3, JPEGQuality: 75, LogLevel: slog.LevelDebug, PreviewDebug: true}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestConfigErrorsNameVariable(t *testing.T) {
	cases := map[string]string{
		"FILTR_WORKERS":      "-1",
		"FILTR_JPEG_QUALITY": "101",
		"FILTR_LOG_LEVEL":    "loud",
	}
	for k, v := range cases {
		_, err := ConfigFromEnv(envMap(map[string]string{k: v}))
		if err == nil {
			t.Fatalf("%s=%s: expected an error", k, v)
		}
		if !strings.Contains(err.Error(), k) {
			t.Fatalf("error %q does not name %s", err, k)
		}
	}
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filtr.env")
	if err := os.WriteFile(path, []byte("FILTR_JPEG_QUALITY=61\n# comment\nFILTR_WORKERS=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load never overrides existing variables; make sure ours are unset
	// and cleaned up afterwards.
	t.Setenv("FILTR_JPEG_QUALITY", "")
	t.Setenv("FILTR_WORKERS", "")
	os.Unsetenv("FILTR_JPEG_QUALITY")
	os.Unsetenv("FILTR_WORKERS")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.JPEGQuality != 61 || cfg.Workers != 2 {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should not fail: %v", err)
	}
}
