package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDataDir, EnvBackend, EnvLogLevel, EnvLogFile} {
		t.Setenv(key, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid file backend",
			config: Config{DataDir: "/tmp/x", Backend: "file", LogLevel: "info"},
		},
		{
			name:   "memory backend needs no data dir",
			config: Config{Backend: "memory", LogLevel: "debug"},
		},
		{
			name:        "unknown backend",
			config:      Config{DataDir: "/tmp/x", Backend: "cloud", LogLevel: "info"},
			wantErr:     true,
			errorString: "invalid backend 'cloud'",
		},
		{
			name:        "empty data dir",
			config:      Config{Backend: "sqlite", LogLevel: "info"},
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "bad log level",
			config:      Config{DataDir: "/tmp/x", Backend: "file", LogLevel: "loud"},
			wantErr:     true,
			errorString: "unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_Validate_AggregatesErrors(t *testing.T) {
	err := (&Config{Backend: "cloud", LogLevel: "loud"}).Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Count(err.Error(), "\n- ") != 3 {
		t.Errorf("expected three problems reported, got %q", err.Error())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "data_dir: " + dir + "\nbackend: sqlite\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != dir || cfg.Backend != "sqlite" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}

	t.Setenv(EnvBackend, "memory")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "memory" {
		t.Errorf("env should override file, got backend %q", cfg.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unset env should not clear file values, got %q", cfg.LogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Backend != "file" || cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{DataDir: "/data", Backend: "sqlite", LogLevel: "warn", LogFile: "/var/log/x.log"}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLogPath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.LogPath(); got != filepath.Join("/data", "debug.log") {
		t.Errorf("unexpected default log path %q", got)
	}
	cfg.LogFile = "/tmp/app.log"
	if got := cfg.LogPath(); got != "/tmp/app.log" {
		t.Errorf("explicit log file ignored, got %q", got)
	}
}
