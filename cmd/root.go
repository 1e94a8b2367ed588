package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dbPath     string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// newTextChannel returns the channel captures are read from and prompts are
// written to. Tests replace it with an in-memory channel.
var newTextChannel = func() internal.TextChannel {
	return internal.NewSystemClipboard()
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-rotator",
	Short: "Rotate one question across chat services and collect the answers",
	Long: `Ask the same question of several browser chat services and collect their
answers from the clipboard into one local timeline.

Outbound prompts carry a tracking tag that services are asked to copy back,
so every captured answer is tied to its question and service. Identical
answers are stored once and credential-shaped text is never stored.

Quick Start:
  chat-rotator prompt Claude "What is recursion?"   # tag a prompt and copy it
  chat-rotator watch --mode continuous              # capture answers as you copy them
  chat-rotator search service=Claude,Gemini         # filter the timeline
  chat-rotator export --format md                   # export as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides config and "+internal.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <data dir>/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// app bundles what most commands need: merged config, store and registry
type app struct {
	cfg      *internal.Config
	store    *internal.Store
	registry *internal.ServiceRegistry
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*internal.Config, error) {
	paths, err := internal.DetectDataPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to detect data paths: %w", err)
	}
	cfg, err := internal.LoadConfig(configPath, paths)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openApp loads the config and opens the database. Services listed in the
// config are written into the registry so they override stored entries.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	internal.LogDebug("Opening database %s", cfg.DBPath)
	db, err := internal.OpenDatabase(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	store := internal.NewStore(db, cfg.DBPath)

	registry, err := internal.NewServiceRegistry(db)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	for _, svc := range cfg.Services {
		if err := registry.Save(svc); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("config service %q: %w", svc.Name, err)
		}
	}

	return &app{cfg: cfg, store: store, registry: registry}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close database: %v", err)
	}
}

// coordinator builds a capture coordinator over the registry's classifier
func (a *app) coordinator(channel internal.TextChannel) (*internal.CaptureCoordinator, error) {
	classifier, err := a.registry.Classifier()
	if err != nil {
		return nil, err
	}
	return internal.NewCaptureCoordinator(a.store, channel, internal.CoordinatorOptions{
		Classifier: classifier,
		Interval:   a.cfg.PollInterval,
		Mode:       a.cfg.CaptureMode(),
		Hint:       a.cfg.Hint,
	}), nil
}
