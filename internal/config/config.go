package config

import (
	"encoding/json"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// GeminiAPIKey is the server default provider key. A key sent with a
	// request takes priority. Prefer the GEMINI_API_KEY environment variable
	// over storing it in a file.
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	// FallbackModels are tried in order after the selected model.
	// An overlay list replaces the base list rather than merging, since
	// order matters.
	FallbackModels []string `json:"fallback_models,omitempty"`

	// ModelAliases maps configurable model names to provider model ids.
	// Overlay entries win per key.
	ModelAliases map[string]string `json:"model_aliases,omitempty"`

	// HistoryLimit caps stored optimization history per owner.
	HistoryLimit int `json:"history_limit"`

	// SimilarityThreshold is the Jaccard score at which a prompt counts as
	// a repeat of an earlier one.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// Bind and Port are the HTTP listen address for serve.
	Bind string `json:"bind"`
	Port int    `json:"port"`

	// LogLevel is a logrus level name.
	LogLevel string `json:"log_level"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool groups to disable entirely.
	// Known types: "prompt", "history", "prompts", "metrics".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:        50,
		SimilarityThreshold: 0.6,
		Bind:                "127.0.0.1",
		Port:                3001,
		LogLevel:            "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.erde.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.erde) and repo (.erde) directories.
// Repo config is found by walking upward from startDir to find the nearest .erde/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .erde/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".erde", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ApplyEnv overlays environment variables onto cfg:
// GEMINI_API_KEY, ERDE_BIND, ERDE_PORT, ERDE_LOG_LEVEL, ERDE_HISTORY_LIMIT.
func ApplyEnv(cfg *Config) *Config {
	v := viper.New()
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("bind", "ERDE_BIND")
	_ = v.BindEnv("port", "ERDE_PORT")
	_ = v.BindEnv("log_level", "ERDE_LOG_LEVEL")
	_ = v.BindEnv("history_limit", "ERDE_HISTORY_LIMIT")

	env := &Config{
		GeminiAPIKey: strings.TrimSpace(v.GetString("gemini_api_key")),
		Bind:         strings.TrimSpace(v.GetString("bind")),
		Port:         v.GetInt("port"),
		LogLevel:     strings.TrimSpace(v.GetString("log_level")),
		HistoryLimit: v.GetInt("history_limit"),
	}
	return Merge(cfg, env)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
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
	result := &Config{
		GeminiAPIKey:        pick(overlay.GeminiAPIKey, base.GeminiAPIKey),
		HistoryLimit:        pick(overlay.HistoryLimit, base.HistoryLimit),
		SimilarityThreshold: pick(overlay.SimilarityThreshold, base.SimilarityThreshold),
		Bind:                pick(overlay.Bind, base.Bind),
		Port:                pick(overlay.Port, base.Port),
		LogLevel:            pick(overlay.LogLevel, base.LogLevel),
		DBMaxOpenConns:      pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:      pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	result.FallbackModels = cleanStringSlice(overlay.FallbackModels)
	if result.FallbackModels == nil {
		result.FallbackModels = cleanStringSlice(base.FallbackModels)
	}

	if len(base.ModelAliases)+len(overlay.ModelAliases) > 0 {
		result.ModelAliases = make(map[string]string, len(base.ModelAliases)+len(overlay.ModelAliases))
		maps.Copy(result.ModelAliases, base.ModelAliases)
		maps.Copy(result.ModelAliases, overlay.ModelAliases)
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// pick returns overlay unless it is the zero value.
func pick[T comparable](overlay, base T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	return cleanStringSlice(append(append([]string{}, a...), b...))
}

// cleanStringSlice trims entries and drops blanks and duplicates, keeping
// first occurrences. Returns nil when nothing remains.
func cleanStringSlice(in []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
