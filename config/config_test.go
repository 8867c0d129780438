package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/logger"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Pipeline      struct {
		Debounce time.Duration `mapstructure:"debounce"`
		PageSize int           `mapstructure:"page_size"`
		Strategy string        `mapstructure:"strategy"`
	} `mapstructure:"pipeline"`
}

func testDefaults() map[string]any {
	return map[string]any{
		"name":               "searchlab",
		"pipeline.debounce":  400 * time.Millisecond,
		"pipeline.page_size": 3,
		"pipeline.strategy":  "cancel-latest",
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != EnvDevelopment {
			t.Errorf("expected development, got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Version == "" {
			t.Error("expected a version")
		}
		if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
			t.Errorf("logging defaults not applied: %+v", cfg.Logging)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: EnvProduction, Version: "1.2.3"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Version != "1.2.3" {
			t.Errorf("version overwritten: %q", cfg.Version)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: EnvDevelopment}, ""},
		{"valid staging", ServiceConfig{Name: "svc", Environment: EnvStaging}, ""},
		{"missing name", ServiceConfig{Environment: EnvProduction}, "name"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment"},
		{"invalid log level", ServiceConfig{Name: "svc", Environment: EnvProduction, Logging: logger.Config{Level: "loud", Format: "json"}}, "logging.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cfg.Logging.Level == "" {
				tc.cfg.Logging.ApplyDefaults()
			}
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	var cfg testConfig
	files, err := LoadConfig("searchlab", &cfg,
		WithFileSystem(&mockFS{}),
		WithDefaults(testDefaults()),
		WithEnvPrefix("SEARCHLAB_TEST_DEFAULTS"),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if files.ConfigFile != "" || files.EnvFile != "" {
		t.Errorf("expected no files, got %+v", files)
	}
	if cfg.Name != "searchlab" || cfg.Pipeline.PageSize != 3 || cfg.Pipeline.Debounce != 400*time.Millisecond {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: demo
environment: staging
pipeline:
  debounce: 250ms
  strategy: merge
`)

	var cfg testConfig
	files, err := LoadConfig("searchlab", &cfg,
		WithConfigFile(path),
		WithDefaults(testDefaults()),
		WithEnvPrefix("SEARCHLAB_TEST_YAML"),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if files.ConfigFile != path {
		t.Errorf("config file = %q, want %q", files.ConfigFile, path)
	}
	if cfg.Name != "demo" || cfg.Environment != EnvStaging {
		t.Errorf("service fields not loaded: %+v", cfg.ServiceConfig)
	}
	if cfg.Pipeline.Debounce != 250*time.Millisecond || cfg.Pipeline.Strategy != "merge" {
		t.Errorf("pipeline fields not loaded: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.PageSize != 3 {
		t.Errorf("unset key must keep its default, got %d", cfg.Pipeline.PageSize)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "pipeline:\n  page_size: 5\n")
	t.Setenv("SEARCHLAB_TEST_ENV_PIPELINE_PAGE_SIZE", "7")
	t.Setenv("SEARCHLAB_TEST_ENV_PIPELINE_STRATEGY", "exhaust")

	var cfg testConfig
	if _, err := LoadConfig("searchlab", &cfg,
		WithConfigFile(path),
		WithDefaults(testDefaults()),
		WithEnvPrefix("SEARCHLAB_TEST_ENV"),
	); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.PageSize != 7 || cfg.Pipeline.Strategy != "exhaust" {
		t.Errorf("environment did not override: %+v", cfg.Pipeline)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "SEARCHLAB_TEST_DOTENV_PIPELINE_STRATEGY"
	path := writeFile(t, t.TempDir(), ".env", key+"=concat\n")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	var cfg testConfig
	files, err := LoadConfig("searchlab", &cfg,
		WithEnvFile(path),
		WithDefaults(testDefaults()),
		WithEnvPrefix("SEARCHLAB_TEST_DOTENV"),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if files.EnvFile != path {
		t.Errorf("env file = %q, want %q", files.EnvFile, path)
	}
	if cfg.Pipeline.Strategy != "concat" {
		t.Errorf("env file value not applied, got %q", cfg.Pipeline.Strategy)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	var cfg testConfig
	files, err := LoadConfig("searchlab", &cfg,
		WithConfigFile("/nonexistent/config.yml"),
		WithDefaults(testDefaults()),
	)
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if files.ConfigFile != "" {
		t.Errorf("missing file reported as loaded: %q", files.ConfigFile)
	}
	if cfg.Pipeline.Strategy != "cancel-latest" {
		t.Errorf("defaults not applied: %+v", cfg.Pipeline)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "pipeline: [unclosed\n")

	var cfg testConfig
	_, err := LoadConfig("searchlab", &cfg, WithConfigFile(path))
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"cmd directory first", []string{"./cmd/searchlab/config.yml", "config.yml"}, "./cmd/searchlab/config.yml", ""},
		{"yaml extension", []string{"./config/config.yaml"}, "./config/config.yaml", ""},
		{"working directory", []string{"config.yml", ".env"}, "config.yml", ".env"},
		{"service env file wins", []string{".env", "../.env.searchlab"}, "", "../.env.searchlab"},
		{"nothing found", nil, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			r := &Resolver{FileSystem: fs}
			got := r.ResolveFiles("searchlab", ResolvedFiles{})
			if got.ConfigFile != tc.wantConfig || got.EnvFile != tc.wantEnv {
				t.Errorf("got %+v, want config=%q env=%q", got, tc.wantConfig, tc.wantEnv)
			}
		})
	}
}

func TestResolverKeepsExplicitPaths(t *testing.T) {
	r := &Resolver{FileSystem: &mockFS{files: map[string]bool{"config.yml": true}}}
	got := r.ResolveFiles("searchlab", ResolvedFiles{ConfigFile: "custom.yml"})
	if got.ConfigFile != "custom.yml" {
		t.Errorf("explicit path replaced: %q", got.ConfigFile)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("search-lab"); got != "SEARCH_LAB" {
		t.Errorf("envPrefix = %q", got)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestValidateReportsInvalidConfig(t *testing.T) {
	type section struct {
		PageSize int `mapstructure:"page_size" validate:"gte=1"`
	}
	if err := Validate(&section{PageSize: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Validate(&section{})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidConfig {
		t.Fatalf("expected invalid config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "page_size") {
		t.Errorf("error must name the field, got %q", err.Error())
	}
}
