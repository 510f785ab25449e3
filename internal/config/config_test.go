package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// --- Default Tests ---

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scraping.MaxColleges != 50 || cfg.Scraping.RequestDelay != 1500*time.Millisecond {
		t.Errorf("Scraping = %+v", cfg.Scraping)
	}
	if cfg.Scraping.Timeout != 30*time.Second || cfg.Scraping.RetryAttempts != 3 || !cfg.Scraping.UseDynamicFallback {
		t.Errorf("Scraping = %+v", cfg.Scraping)
	}
	if cfg.Generation.MaxTokens != 2500 || cfg.Generation.Temperature != 0.7 || cfg.Generation.MaxRetries != 3 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if got := strings.Join(cfg.Output.SaveFormats, ","); got != "json,excel,summary" {
		t.Errorf("SaveFormats = %q", got)
	}
	if len(cfg.SearchTerms) != 5 || len(cfg.TargetSources) != 3 {
		t.Errorf("SearchTerms = %d, TargetSources = %d", len(cfg.SearchTerms), len(cfg.TargetSources))
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestDefault_DoesNotShareSlices(t *testing.T) {
	a := Default()
	a.TargetSources[0].Selectors[0] = "changed"
	a.SearchTerms[0] = "changed"

	b := Default()
	if b.TargetSources[0].Selectors[0] == "changed" || b.SearchTerms[0] == "changed" {
		t.Error("Default() shares slices between calls")
	}
}

// --- Validate Tests ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero max colleges", func(c *Config) { c.Scraping.MaxColleges = 0 }, "MaxColleges"},
		{"negative delay", func(c *Config) { c.Scraping.RequestDelay = -time.Second }, "RequestDelay"},
		{"zero concurrency", func(c *Config) { c.Scraping.Concurrency = 0 }, "Concurrency"},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 2.5 }, "Temperature"},
		{"unknown provider", func(c *Config) { c.Generation.Provider = "gemini" }, "Provider"},
		{"unknown fallback", func(c *Config) { c.Generation.FallbackOrder = []string{"openrouter", "bard"} }, "FallbackOrder"},
		{"unknown format", func(c *Config) { c.Output.SaveFormats = []string{"json", "pdf"} }, "SaveFormats"},
		{"no formats", func(c *Config) { c.Output.SaveFormats = nil }, "SaveFormats"},
		{"bad source url", func(c *Config) { c.TargetSources[1].URL = "not a url" }, "URL"},
		{"source without selectors", func(c *Config) { c.TargetSources[0].Selectors = nil }, "Selectors"},
		{"blank search term", func(c *Config) { c.SearchTerms = []string{""} }, "SearchTerms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() error = %q, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestValidate_AcceptsPinnedProvider(t *testing.T) {
	cfg := Default()
	cfg.Generation.Provider = "anthropic"
	cfg.Generation.Temperature = 0
	cfg.Output.SaveFormats = []string{"jsonl", "yaml"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// --- Load Tests ---

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scraping.MaxColleges != 50 || len(cfg.TargetSources) != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.TargetSources[0].Name != "careers360" {
		t.Errorf("TargetSources[0] = %+v", cfg.TargetSources[0])
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `scraping:
  max_colleges: 10
  request_delay: 250ms
generation:
  provider: ollama
  temperature: 0.2
output:
  save_formats: [jsonl]
  database: runs.db
search_terms:
  - engineering colleges Mysore
target_sources:
  - name: example
    url: https://example.com/list
    selectors: ["a.college"]
    max_pages: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scraping.MaxColleges != 10 || cfg.Scraping.RequestDelay != 250*time.Millisecond {
		t.Errorf("Scraping = %+v", cfg.Scraping)
	}
	// unset keys keep their defaults
	if cfg.Scraping.Timeout != 30*time.Second || cfg.Generation.MaxTokens != 2500 {
		t.Errorf("defaults lost: %+v / %+v", cfg.Scraping, cfg.Generation)
	}
	if cfg.Generation.Provider != "ollama" || cfg.Generation.Temperature != 0.2 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if len(cfg.Output.SaveFormats) != 1 || cfg.Output.SaveFormats[0] != "jsonl" || cfg.Output.Database != "runs.db" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if len(cfg.SearchTerms) != 1 {
		t.Errorf("SearchTerms = %v, want the file's list only", cfg.SearchTerms)
	}
	if len(cfg.TargetSources) != 1 || cfg.TargetSources[0].MaxPages != 2 || cfg.TargetSources[0].Selectors[0] != "a.college" {
		t.Errorf("TargetSources = %+v", cfg.TargetSources)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COLLEGESCOUT_SCRAPING_MAX_COLLEGES", "7")
	t.Setenv("COLLEGESCOUT_OUTPUT_OUTPUT_DIRECTORY", "results")

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scraping.MaxColleges != 7 {
		t.Errorf("MaxColleges = %d, want 7", cfg.Scraping.MaxColleges)
	}
	if cfg.Output.OutputDirectory != "results" {
		t.Errorf("OutputDirectory = %q, want results", cfg.Output.OutputDirectory)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COLLEGESCOUT_TEST_DOTENV_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("COLLEGESCOUT_TEST_DOTENV_KEY") })

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := Load(v); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := os.Getenv("COLLEGESCOUT_TEST_DOTENV_KEY"); got != "from-dotenv" {
		t.Errorf("env from .env = %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("generation:\n  temperature: 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := Load(v); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Init() expected error for a missing explicit file")
	}
}

// --- Mapping Tests ---

func TestConfig_Fetcher(t *testing.T) {
	cfg := Default()
	cfg.Scraping.Timeout = 5 * time.Second
	cfg.Scraping.UseDynamicFallback = false
	cfg.Scraping.RetryAttempts = 1

	fc := cfg.Fetcher()
	if fc.Static.Timeout != 5*time.Second || fc.Dynamic.Timeout != 5*time.Second {
		t.Errorf("timeouts = %v / %v", fc.Static.Timeout, fc.Dynamic.Timeout)
	}
	if fc.UseDynamicFallback || fc.RetryAttempts != 1 || fc.RequestDelay != 1500*time.Millisecond {
		t.Errorf("Fetcher() = %+v", fc)
	}
}

func TestConfig_Crawler(t *testing.T) {
	cfg := Default()
	cc := cfg.Crawler()
	if cc.MaxColleges != 50 || len(cc.SearchTerms) != 5 || len(cc.Directories) != 3 {
		t.Errorf("Crawler() = %+v", cc)
	}
	if cc.Fetch.Timeout != 30*time.Second {
		t.Errorf("Crawler().Fetch.Timeout = %v", cc.Fetch.Timeout)
	}
	if cc.Fetch.Headers["Accept-Language"] == "" {
		t.Errorf("Crawler().Fetch.Headers = %v, want browser headers", cc.Fetch.Headers)
	}
}

func TestConfig_Chain(t *testing.T) {
	cfg := Default()
	cfg.Generation.Provider = "ollama"
	cfg.Generation.Model = "llama3.2"

	cc := cfg.Chain("collegescout/test")
	if cc.Provider != "ollama" || cc.Model != "llama3.2" {
		t.Errorf("Chain() = %+v", cc)
	}
	if cc.Base.AppTitle != "collegescout/test" {
		t.Errorf("Base.AppTitle = %q", cc.Base.AppTitle)
	}
	if len(cc.Options) != 3 || len(cc.Order) != 4 {
		t.Errorf("Options = %d, Order = %v", len(cc.Options), cc.Order)
	}
}

// --- Sample Tests ---

func TestWriteSample_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{"max_colleges: 50", "request_delay: 1.5s", "save_formats:", "careers360"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("sample missing %q:\n%s", want, data)
		}
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scraping.RequestDelay != 1500*time.Millisecond || len(cfg.TargetSources) != 3 {
		t.Errorf("Load(sample) = %+v", cfg)
	}
}
