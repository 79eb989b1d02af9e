// Package config provides configuration types, defaults, and persistence for intake.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kachijames/intake/internal/log"
)

// DefaultBaseURL is the production registration service.
const DefaultBaseURL = "https://isinrimuseum-serverside.onrender.com"

// DefaultPath is where a default config is written when none is found.
const DefaultPath = ".intake/config.yaml"

// Config holds all application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// APIConfig configures the remote registration service client.
type APIConfig struct {
	// BaseURL is the scheme and host of the registration service.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every request. A request that exceeds it fails with a
	// retryable error.
	Timeout time.Duration `mapstructure:"timeout"`

	// StatsCacheTTL is how long fetched registration stats are reused.
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Title         string        `mapstructure:"title"`
	MarkdownStyle string        `mapstructure:"markdown_style"` // "dark", "light", "notty" or "ascii"
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	Theme         ThemeConfig   `mapstructure:"theme"`
}

// ThemeConfig selects a color preset and per-token overrides.
type ThemeConfig struct {
	// Preset is a built-in theme name: "default", "high-contrast" or "light".
	Preset string `mapstructure:"preset"`

	// Colors maps color tokens such as "status.error" to hex values.
	Colors map[string]string `mapstructure:"colors"`
}

// LogConfig holds debug log settings.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"`
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0].
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName identifies this client in traces.
	ServiceName string `mapstructure:"service_name"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       15 * time.Second,
			StatsCacheTTL: 30 * time.Second,
		},
		UI: UIConfig{
			Title:         "Kachi James Initiative Training Form",
			MarkdownStyle: "dark",
			ToastDuration: 3 * time.Second,
			Theme:         ThemeConfig{Preset: "default"},
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "intake-debug.log",
			Level:   "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     filepath.Join(".intake", "traces.jsonl"),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "intake",
		},
	}
}

var urlValidator = validator.New()

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateAPI(c.API); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateAPI checks the service client settings.
func ValidateAPI(api APIConfig) error {
	if err := urlValidator.Var(api.BaseURL, "required,http_url"); err != nil {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", api.BaseURL)
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", api.Timeout)
	}
	if api.StatsCacheTTL < 0 {
		return fmt.Errorf("api.stats_cache_ttl must not be negative, got %s", api.StatsCacheTTL)
	}
	return nil
}

// ValidateUI checks the terminal UI settings.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light", "notty", "ascii":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\", \"notty\" or \"ascii\", got %q", ui.MarkdownStyle)
	}
	if ui.ToastDuration < 0 {
		return fmt.Errorf("ui.toast_duration must not be negative, got %s", ui.ToastDuration)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# intake configuration

# Registration service
api:
  base_url: ` + DefaultBaseURL + `
  timeout: 15s            # Requests slower than this fail and can be retried
  stats_cache_ttl: 30s    # How long registration stats are reused

# Terminal UI
ui:
  title: Kachi James Initiative Training Form
  markdown_style: dark    # "dark", "light", "notty" or "ascii"
  toast_duration: 3s      # How long notifications stay on screen
  theme:
    preset: default       # "default", "high-contrast" or "light"
    # colors:
    #   status.error: "#FF5F5F"

# Debug log (also enabled by --debug or INTAKE_DEBUG=1)
log:
  enabled: false
  path: intake-debug.log
  level: debug            # "debug", "info", "warn" or "error"

# OpenTelemetry tracing of service calls
tracing:
  enabled: false
  exporter: file          # "none", "file", "stdout" or "otlp"
  file_path: .intake/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: intake
`
}

// WriteDefaultConfig creates a config file with default settings.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
