package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Fatalf("Port = %d, want %d", cfg.Port, DefaultConfig().Port)
	}
	if cfg.Bind != "127.0.0.1" {
		t.Fatalf("Bind = %q, want 127.0.0.1", cfg.Bind)
	}
	if !cfg.AllowsAnyOrigin() {
		t.Fatal("default config should allow any CORS origin")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	body := `{"port": 8080, "cors_origins": ["http://localhost:3000"], "verbose": true}`
	if err := os.WriteFile(configPath, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Bind != "127.0.0.1" {
		t.Fatalf("Bind = %q, want default retained", cfg.Bind)
	}
	if !cfg.Verbose {
		t.Fatal("Verbose = false, want true")
	}
	if cfg.AllowsAnyOrigin() {
		t.Fatal("explicit origin list should not allow any origin")
	}
}

func TestAllowsAnyOrigin_NilConfig(t *testing.T) {
	var cfg *Config
	if !cfg.AllowsAnyOrigin() {
		t.Fatal("nil config should allow any CORS origin")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["db_query", " db_query ", "db_snapshot_restore"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"db_query", "db_snapshot_restore"}
	if !reflect.DeepEqual(cfg.DisabledTools, want) {
		t.Fatalf("DisabledTools = %v, want %v", cfg.DisabledTools, want)
	}
}

func TestResolveSnapshotDir(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "data")

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"nil config", nil, filepath.Join(base, "snapshots")},
		{"default", DefaultConfig(), filepath.Join(base, "snapshots")},
		{"relative", &Config{SnapshotDir: "backups"}, filepath.Join(base, "backups")},
		{"absolute", &Config{SnapshotDir: filepath.Join(string(filepath.Separator), "srv", "snaps")}, filepath.Join(string(filepath.Separator), "srv", "snaps")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveSnapshotDir(base); got != tt.want {
				t.Errorf("ResolveSnapshotDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := &Config{Bind: "127.0.0.1", Port: 5000, DisabledTypes: []string{"db"}}
	overlay := &Config{Port: 9000, DisabledTypes: []string{"db", "task"}, Verbose: true}

	got := Merge(base, overlay)

	if got.Bind != "127.0.0.1" {
		t.Errorf("Bind = %q, want base value", got.Bind)
	}
	if got.Port != 9000 {
		t.Errorf("Port = %d, want overlay value 9000", got.Port)
	}
	if !reflect.DeepEqual(got.DisabledTypes, []string{"db", "task"}) {
		t.Errorf("DisabledTypes = %v, want [db task]", got.DisabledTypes)
	}
	if !got.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestMergeStringSlice_Empty(t *testing.T) {
	if got := mergeStringSlice(nil, []string{" ", ""}); got != nil {
		t.Errorf("mergeStringSlice() = %v, want nil", got)
	}
}
