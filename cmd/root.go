package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/app"
	"github.com/kachijames/intake/internal/config"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/store"
	"github.com/kachijames/intake/internal/tracing"
	"github.com/kachijames/intake/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	configErr error
	debugFlag bool
	noColor   bool

	// Filled by setup, released by Execute.
	tracer   *tracing.Provider
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Training program registration form for the terminal",
	Long: `intake collects a trainee registration (personal details, education,
experience, program preferences and skills), validates it, checks the
email against existing registrations and submits it to the registration
service.

Run without a subcommand to open the interactive form.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .intake/config.yaml or ~/.config/intake/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "registration service base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout (e.g. 10s)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "write a debug log (log.path)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("api.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	// A .env file in the working directory seeds INTAKE_* variables.
	_ = godotenv.Load()

	var used string
	cfg, used, configErr = loadConfig(viper.GetViper(), cfgFile)
	if configErr == nil && used != "" {
		log.Debug(log.CatConfig, "config loaded", "path", used)
	}
}

// loadConfig reads configuration into v from path, or from the default
// lookup locations when path is empty, writing a default file if none
// exists. Environment variables prefixed INTAKE_ override file values.
func loadConfig(v *viper.Viper, path string) (config.Config, string, error) {
	setDefaults(v, config.Defaults())

	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log.enabled", "INTAKE_DEBUG", "INTAKE_LOG_ENABLED")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Config lookup order:
		// 1. .intake/config.yaml (current directory)
		// 2. ~/.config/intake/config.yaml (user config)
		if _, err := os.Stat(config.DefaultPath); err == nil {
			v.SetConfigFile(config.DefaultPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "intake"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		// No config file found anywhere - create default at .intake/config.yaml
		if writeErr := config.WriteDefaultConfig(config.DefaultPath); writeErr == nil {
			v.SetConfigFile(config.DefaultPath)
			_ = v.ReadInConfig()
		}
		// If write fails, just continue with defaults (no config file)
	}

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	return out, v.ConfigFileUsed(), nil
}

// setDefaults registers every key so environment overrides resolve.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.stats_cache_ttl", d.API.StatsCacheTTL)
	v.SetDefault("ui.title", d.UI.Title)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.toast_duration", d.UI.ToastDuration)
	v.SetDefault("ui.theme.preset", d.UI.Theme.Preset)
	v.SetDefault("log.enabled", d.Log.Enabled)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// setup validates the loaded config and starts logging and tracing.
func setup(_ *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if debugFlag {
		cfg.Log.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyTheme(styles.ThemeConfig{Preset: cfg.UI.Theme.Preset, Colors: cfg.UI.Theme.Colors}); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	if cfg.Log.Enabled {
		cleanup, err := log.InitWithTeaLog(cfg.Log.Path, "intake")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		cleanups = append(cleanups, cleanup)
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "intake starting", "version", version, "config", viper.ConfigFileUsed())
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	tracer = provider
	cleanups = append(cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	})
	return nil
}

// newClient builds the registration service client from cfg.
func newClient() *api.Client {
	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(userAgent()),
	}
	if tracer != nil {
		opts = append(opts, api.WithTracer(tracer.Tracer()))
	}
	return api.NewClient(cfg.API.BaseURL, opts...)
}

// newStore builds a store over a fresh client.
func newStore(opts ...store.Option) *store.Store {
	opts = append([]store.Option{store.WithStatsTTL(cfg.API.StatsCacheTTL)}, opts...)
	return store.New(newClient(), opts...)
}

func userAgent() string {
	v := strings.Fields(version)
	if len(v) == 0 {
		return "intake"
	}
	return "intake/" + v[0]
}

func runApp(cmd *cobra.Command, _ []string) error {
	st := newStore()
	defer st.Close()

	zone.NewGlobal()
	model := app.New(cmd.Context(), st, app.Config{
		Title:         cfg.UI.Title,
		MarkdownStyle: cfg.UI.MarkdownStyle,
		ToastDuration: cfg.UI.ToastDuration,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer runCleanups()
	return rootCmd.ExecuteContext(context.Background())
}

// runCleanups releases what setup started, newest first.
func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
