// Package config loads collegescout configuration from flags, COLLEGESCOUT_*
// environment variables, an optional .env file and a YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/pkg/fetcher"
	"github.com/jmylchreest/collegescout/pkg/generate"
	"github.com/jmylchreest/collegescout/pkg/llm"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. COLLEGESCOUT_SCRAPING_MAX_COLLEGES.
const EnvPrefix = "COLLEGESCOUT"

// FileName is the config file searched for in $HOME and the working directory.
const FileName = ".collegescout"

// Config is the full application configuration.
type Config struct {
	Scraping      Scraping            `mapstructure:"scraping" yaml:"scraping"`
	Generation    Generation          `mapstructure:"generation" yaml:"generation"`
	Output        Output              `mapstructure:"output" yaml:"output"`
	SearchTerms   []string            `mapstructure:"search_terms" yaml:"search_terms" validate:"dive,required"`
	TargetSources []crawler.Directory `mapstructure:"target_sources" yaml:"target_sources" validate:"dive"`
	LogDir        string              `mapstructure:"log_dir" yaml:"log_dir,omitempty"`
}

// Scraping controls discovery and page fetching.
type Scraping struct {
	MaxColleges        int           `mapstructure:"max_colleges" yaml:"max_colleges" validate:"gt=0"`
	RequestDelay       time.Duration `mapstructure:"request_delay" yaml:"request_delay" validate:"gte=0"`
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	RetryAttempts      int           `mapstructure:"retry_attempts" yaml:"retry_attempts" validate:"gte=1"`
	UseDynamicFallback bool          `mapstructure:"use_dynamic_fallback" yaml:"use_dynamic_fallback"`
	Concurrency        int           `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1"`
}

// Generation controls the content generator chain.
type Generation struct {
	// Provider pins one provider; empty auto-detects along FallbackOrder.
	Provider string `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=openrouter anthropic openai ollama"`
	// Model overrides the provider's default model.
	Model         string   `mapstructure:"model" yaml:"model"`
	MaxTokens     int      `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	Temperature   float64  `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxRetries    int      `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=1"`
	FallbackOrder []string `mapstructure:"fallback_order" yaml:"fallback_order" validate:"dive,oneof=openrouter anthropic openai ollama"`
	OllamaURL     string   `mapstructure:"ollama_url" yaml:"ollama_url,omitempty" validate:"omitempty,url"`
}

// Output controls where results are written.
type Output struct {
	SaveFormats     []string `mapstructure:"save_formats" yaml:"save_formats" validate:"min=1,dive,oneof=json jsonl yaml excel summary"`
	OutputDirectory string   `mapstructure:"output_directory" yaml:"output_directory" validate:"required"`
	// Database is a sqlite path; empty disables run storage.
	Database string `mapstructure:"database" yaml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	dirs := make([]crawler.Directory, len(crawler.DefaultDirectories))
	for i, d := range crawler.DefaultDirectories {
		d.Selectors = append([]string(nil), d.Selectors...)
		dirs[i] = d
	}
	return Config{
		Scraping: Scraping{
			MaxColleges:        50,
			RequestDelay:       1500 * time.Millisecond,
			Timeout:            30 * time.Second,
			RetryAttempts:      3,
			UseDynamicFallback: true,
			Concurrency:        3,
		},
		Generation: Generation{
			MaxTokens:     2500,
			Temperature:   0.7,
			MaxRetries:    3,
			FallbackOrder: append([]string(nil), llm.FallbackOrder...),
		},
		Output: Output{
			SaveFormats:     []string{"json", "excel", "summary"},
			OutputDirectory: "output",
		},
		SearchTerms:   append([]string(nil), crawler.DefaultSearchTerms...),
		TargetSources: dirs,
	}
}

// SetDefaults registers every default on v so that environment variables
// resolve for keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("scraping.max_colleges", d.Scraping.MaxColleges)
	v.SetDefault("scraping.request_delay", d.Scraping.RequestDelay)
	v.SetDefault("scraping.timeout", d.Scraping.Timeout)
	v.SetDefault("scraping.retry_attempts", d.Scraping.RetryAttempts)
	v.SetDefault("scraping.use_dynamic_fallback", d.Scraping.UseDynamicFallback)
	v.SetDefault("scraping.concurrency", d.Scraping.Concurrency)

	v.SetDefault("generation.provider", d.Generation.Provider)
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.max_tokens", d.Generation.MaxTokens)
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.max_retries", d.Generation.MaxRetries)
	v.SetDefault("generation.fallback_order", d.Generation.FallbackOrder)
	v.SetDefault("generation.ollama_url", d.Generation.OllamaURL)

	v.SetDefault("output.save_formats", d.Output.SaveFormats)
	v.SetDefault("output.output_directory", d.Output.OutputDirectory)
	v.SetDefault("output.database", d.Output.Database)

	v.SetDefault("search_terms", d.SearchTerms)
	v.SetDefault("target_sources", d.TargetSources)
	v.SetDefault("log_dir", d.LogDir)
}

// Init points v at the config file and the environment. An explicit file
// must exist; the searched locations are optional.
func Init(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load loads .env into the process environment, decodes v and validates the
// result.
func Load(v *viper.Viper) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints. Failures wrap ErrInvalid.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Fetcher maps the scraping section onto a fetcher configuration.
func (c Config) Fetcher() fetcher.Config {
	fc := fetcher.DefaultConfig()
	fc.Static.Timeout = c.Scraping.Timeout
	fc.Dynamic.Timeout = c.Scraping.Timeout
	fc.UseDynamicFallback = c.Scraping.UseDynamicFallback
	fc.RetryAttempts = c.Scraping.RetryAttempts
	fc.RequestDelay = c.Scraping.RequestDelay
	return fc
}

// Crawler maps search terms and target sources onto a discovery configuration.
func (c Config) Crawler() crawler.Config {
	return crawler.Config{
		SearchTerms: c.SearchTerms,
		Directories: c.TargetSources,
		MaxColleges: c.Scraping.MaxColleges,
		Fetch:       c.FetchOptions(),
	}
}

// FetchOptions are the per-request options for page fetches.
func (c Config) FetchOptions() fetcher.Options {
	return fetcher.Options{
		Timeout: c.Scraping.Timeout,
		Headers: fetcher.DefaultHeaders(),
	}
}

// Chain maps the generation section onto a generator chain configuration.
func (c Config) Chain(appTitle string) generate.ChainConfig {
	base := llm.DefaultProviderConfig()
	if appTitle != "" {
		base.AppTitle = appTitle
	}
	return generate.ChainConfig{
		Provider:  c.Generation.Provider,
		Model:     c.Generation.Model,
		Order:     c.Generation.FallbackOrder,
		Base:      base,
		OllamaURL: c.Generation.OllamaURL,
		Options: []generate.Option{
			generate.WithMaxTokens(c.Generation.MaxTokens),
			generate.WithTemperature(c.Generation.Temperature),
			generate.WithMaxAttempts(c.Generation.MaxRetries),
		},
	}
}

// Sample renders the default configuration as YAML.
func Sample() ([]byte, error) {
	return yaml.Marshal(Default())
}

// WriteSample writes the default configuration to path, creating parent
// directories.
func WriteSample(path string) error {
	data, err := Sample()
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
