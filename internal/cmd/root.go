package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/Digital-Shane/release-lens/internal/log"
	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/Digital-Shane/release-lens/internal/provider/tmdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newClient builds the TMDB client for a run. Tests swap it for a fake.
var newClient = func(cfg *config.Config) provider.Client {
	client := tmdb.New(
		tmdb.WithLanguage(cfg.TMDBLanguage),
		tmdb.WithRateLimit(cfg.RateLimit),
	)
	if !cfg.CacheEnabled {
		return client
	}
	return tmdb.NewCachedSearcher(client, time.Duration(cfg.CacheDurationHours)*time.Hour)
}

// app carries the state shared by every command of one invocation
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *logrus.Logger
	closeLog func() error
}

// keys layers the environment over the config file
func (a *app) keys() config.KeyStore {
	return config.Layered{config.EnvStore{}, a.cfg}
}

func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPath()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "release-lens",
		Short: "Identify media releases from their filenames",
		Long: `release-lens parses torrent style release filenames into a title, year,
season and episode, then looks the release up on TMDB.

Lookups try a typed movie or TV search first and fall back to a multi search.
The TMDB API key is read from RELEASE_LENS_TMDB_API_KEY or the config file.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.load,
		PersistentPostRunE: a.close,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.release-lens/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		newParseCmd(),
		newResolveCmd(a),
		newDetailsCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the config and builds the logger. Commands running a TUI keep
// logs off the console.
func (a *app) load(cmd *cobra.Command, args []string) error {
	var err error
	a.cfg, err = config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := log.Options{
		Level:         a.cfg.Log.Level,
		Format:        a.cfg.Log.Format,
		FileEnabled:   a.cfg.Log.FileEnabled,
		RetentionDays: a.cfg.Log.RetentionDays,
		Output:        cmd.ErrOrStderr(),
	}
	if f := cmd.Flags().Lookup("tui"); f != nil && f.Changed {
		opts.Output = io.Discard
	}
	if opts.FileEnabled {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		opts.Dir = filepath.Join(dir, "logs")
	}

	a.logger, a.closeLog, err = log.New(opts)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}

func (a *app) close(cmd *cobra.Command, args []string) error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}
