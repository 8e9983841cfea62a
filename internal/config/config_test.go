package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

// isolateEnv clears the variables Load reads and restores them after the test.
func isolateEnv(t *testing.T) {
	t.Helper()

	originalEnv := make(map[string]string)
	envVars := []string{"DB_PATH", "API_PORT", "LOG_LEVEL", "LOG_FORMAT", "SAVE_TIMEOUT", "IMPORT_DIR"}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	t.Cleanup(func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "default values for optional fields",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.SaveTimeout == 5*time.Second &&
					cfg.ImportDir == ""
			},
		},
		{
			name: "all values set",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "custom.db"))
				setEnv("API_PORT", "8080")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "JSON")
				setEnv("SAVE_TIMEOUT", "250ms")
				setEnv("IMPORT_DIR", "/srv/notes")
			},
			checkConfig: func(cfg *Config) bool {
				return strings.HasSuffix(cfg.DBPath, "custom.db") &&
					cfg.APIPort == "8080" &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.SaveTimeout == 250*time.Millisecond &&
					cfg.ImportDir == "/srv/notes"
			},
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
				setEnv("LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "invalid SAVE_TIMEOUT",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
				setEnv("SAVE_TIMEOUT", "soon")
			},
			wantErr: true,
		},
		{
			name: "zero SAVE_TIMEOUT",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "notes.db"))
				setEnv("SAVE_TIMEOUT", "0s")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config = %+v, checks failed", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	isolateEnv(t)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check that directory was created
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		log     func(*slog.Logger)
		want    string
		wantOut bool
	}{
		{
			name:    "text format",
			cfg:     Config{LogLevel: slog.LevelInfo, LogFormat: "text"},
			log:     func(l *slog.Logger) { l.Info("hello", "k", "v") },
			want:    "msg=hello k=v",
			wantOut: true,
		},
		{
			name:    "json format",
			cfg:     Config{LogLevel: slog.LevelInfo, LogFormat: "json"},
			log:     func(l *slog.Logger) { l.Info("hello") },
			want:    `"msg":"hello"`,
			wantOut: true,
		},
		{
			name:    "level filters debug",
			cfg:     Config{LogLevel: slog.LevelInfo, LogFormat: "text"},
			log:     func(l *slog.Logger) { l.Debug("hidden") },
			wantOut: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(tt.cfg.NewLogger(&buf))

			out := buf.String()
			if !tt.wantOut {
				if out != "" {
					t.Errorf("NewLogger() wrote %q, want nothing", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("NewLogger() output = %q, want substring %q", out, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
