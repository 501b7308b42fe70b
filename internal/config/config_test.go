package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Root == "" {
		t.Error("default root is empty, want the home directory")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log_level = %q, want info", cfg.LogLevel)
	}
	if cfg.LogJSON {
		t.Error("default log_json = true, want false")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv("CTFSCOPE_ROOT", root)
	t.Setenv("CTFSCOPE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Root != root {
		t.Errorf("root = %q, want %q", cfg.Root, root)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidRoot(t *testing.T) {
	t.Setenv("CTFSCOPE_ROOT", filepath.Join(t.TempDir(), "missing"))

	if _, err := Load(); !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Load() error = %v, want ErrRootNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg:  Config{Root: root, LogLevel: "info"},
		},
		{
			name:    "missing root",
			cfg:     Config{Root: filepath.Join(root, "nope"), LogLevel: "info"},
			wantErr: ErrRootNotFound,
		},
		{
			name:    "bad log level",
			cfg:     Config{Root: root, LogLevel: "loud"},
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q) unexpected error: %v", tt.level, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if _, err := (&Config{LogLevel: "loud"}).SlogLevel(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("SlogLevel(loud) error = %v, want ErrInvalidLogLevel", err)
	}
}
