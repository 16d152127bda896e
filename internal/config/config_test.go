package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.HistoryLimit != def.HistoryLimit || cfg.SimilarityThreshold != def.SimilarityThreshold {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Port != 3001 || cfg.Bind != "127.0.0.1" || cfg.LogLevel != "info" {
		t.Errorf("listen defaults = %s:%d level %s", cfg.Bind, cfg.Port, cfg.LogLevel)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"history_limit": 10, "similarity_threshold": 0.8, "fallback_models": ["gemini-2.0-flash"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("SimilarityThreshold = %v, want 0.8", cfg.SimilarityThreshold)
	}
	if !slices.Equal(cfg.FallbackModels, []string{"gemini-2.0-flash"}) {
		t.Errorf("FallbackModels = %v", cfg.FallbackModels)
	}
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, want default 3001", cfg.Port)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["prompt_optimize", "metrics_reset"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.DisabledTools, []string{"prompt_optimize", "metrics_reset"}) {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()
	writeConfig(t, globalDir, `{"port": 4000, "disabled_tools": ["prompt_optimize"], "model_aliases": {"fast": "gemini-2.0-flash", "smart": "gemini-2.5-pro"}}`)
	writeConfig(t, filepath.Join(repoRoot, ".erde"), `{"history_limit": 5, "disabled_tools": ["metrics_reset"], "model_aliases": {"smart": "gemini-3-pro-preview"}}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000 (global)", cfg.Port)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("HistoryLimit = %d, want 5 (repo)", cfg.HistoryLimit)
	}
	if !slices.Equal(cfg.DisabledTools, []string{"prompt_optimize", "metrics_reset"}) {
		t.Errorf("DisabledTools = %v, want merged", cfg.DisabledTools)
	}
	if cfg.ModelAliases["fast"] != "gemini-2.0-flash" || cfg.ModelAliases["smart"] != "gemini-3-pro-preview" {
		t.Errorf("ModelAliases = %v", cfg.ModelAliases)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, ".erde"), `{"log_level": "debug"}`)

	subdir := filepath.Join(repoRoot, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestFindRepoConfig(t *testing.T) {
	repoRoot := t.TempDir()
	configPath := writeConfig(t, filepath.Join(repoRoot, ".erde"), `{}`)

	if found := FindRepoConfig(repoRoot); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{HistoryLimit: 50, DBMaxOpenConns: 5, Bind: "127.0.0.1"}
	overlay := &Config{HistoryLimit: 20}

	result := Merge(base, overlay)

	if result.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want 20 (overlay)", result.HistoryLimit)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.Bind != "127.0.0.1" {
		t.Errorf("Bind = %q, want base", result.Bind)
	}
}

func TestMerge_FallbacksReplaced(t *testing.T) {
	base := &Config{FallbackModels: []string{"a", "b"}}

	if got := Merge(base, &Config{FallbackModels: []string{"c", " c ", ""}}).FallbackModels; !slices.Equal(got, []string{"c"}) {
		t.Errorf("FallbackModels = %v, want [c]", got)
	}
	if got := Merge(base, &Config{}).FallbackModels; !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("FallbackModels = %v, want base", got)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"prompt_optimize", "history_list"}}
	overlay := &Config{DisabledTools: []string{"history_list", " metrics_get "}}

	result := Merge(base, overlay)

	want := []string{"prompt_optimize", "history_list", "metrics_get"}
	if !slices.Equal(result.DisabledTools, want) {
		t.Errorf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " env-key ")
	t.Setenv("ERDE_PORT", "9090")
	t.Setenv("ERDE_LOG_LEVEL", "warn")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q, want env-key", cfg.GeminiAPIKey)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Bind != "127.0.0.1" {
		t.Errorf("Bind = %q, want default", cfg.Bind)
	}
}

func TestApplyEnv_InvalidPortIgnored(t *testing.T) {
	t.Setenv("ERDE_PORT", "not-a-port")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, want default 3001", cfg.Port)
	}
}
