package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSnapshotDirName is the snapshots directory created under the data dir.
const DefaultSnapshotDirName = "snapshots"

// Config holds application configuration.
type Config struct {
	// Bind is the interface the HTTP API listens on.
	Bind string `json:"bind,omitempty"`

	// Port is the HTTP API port.
	Port int `json:"port,omitempty"`

	// CORSOrigins lists origins allowed to call the HTTP API.
	// "*" allows any origin (the default, so a local frontend can reach the API).
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// SnapshotDir overrides where database snapshots are written.
	// Relative paths are resolved against the data directory.
	SnapshotDir string `json:"snapshot_dir,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool type prefixes to disable entirely.
	// Known types: "task", "db". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind: "127.0.0.1",
		Port: 5000,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.taskbox.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// ResolveSnapshotDir returns the absolute snapshots directory for baseDir.
func (c *Config) ResolveSnapshotDir(baseDir string) string {
	if c == nil || c.SnapshotDir == "" {
		return filepath.Join(baseDir, DefaultSnapshotDirName)
	}
	if filepath.IsAbs(c.SnapshotDir) {
		return filepath.Clean(c.SnapshotDir)
	}
	return filepath.Join(baseDir, c.SnapshotDir)
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *Config) AllowsAnyOrigin() bool {
	if c == nil || len(c.CORSOrigins) == 0 {
		return true
	}
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Bind = overlay.Bind
	if result.Bind == "" {
		result.Bind = base.Bind
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.SnapshotDir = overlay.SnapshotDir
	if result.SnapshotDir == "" {
		result.SnapshotDir = base.SnapshotDir
	}

	result.Verbose = base.Verbose || overlay.Verbose

	result.CORSOrigins = mergeStringSlice(base.CORSOrigins, overlay.CORSOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
