package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
	}
	c.AddCommand(newConfigShowCmd(a), newConfigPathCmd(a), newConfigSetKeyCmd(a))
	return c
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}

			key := config.APIKey(a.keys())
			keySource := "config file"
			switch {
			case key == "":
				keySource = "none"
			case config.APIKey(config.EnvStore{}) != "":
				keySource = config.EnvName(config.APIKeyName)
			}
			masked := (&config.Config{TMDBAPIKey: key}).MaskedAPIKey()

			cfg := a.cfg
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config file:     %s\n", path)
			fmt.Fprintf(w, "TMDB API key:    %s (%s)\n", masked, keySource)
			fmt.Fprintf(w, "TMDB language:   %s\n", cfg.TMDBLanguage)
			fmt.Fprintf(w, "Cache:           %s\n", cacheSummary(cfg))
			fmt.Fprintf(w, "Rate limit:      %d requests / 10s\n", cfg.RateLimit)
			fmt.Fprintf(w, "Server address:  %s\n", cfg.Server.Addr)
			fmt.Fprintf(w, "Log level:       %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
			fmt.Fprintf(w, "Log file:        %s\n", logSummary(cfg))
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigSetKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key KEY",
		Short: "Store the TMDB API key in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if err := config.ValidateAPIKey(key); err != nil {
				return err
			}

			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			// Reread without env overrides so they are not persisted
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			cfg.TMDBAPIKey = key
			if err := cfg.Save(path); err != nil {
				return err
			}

			a.logger.WithField("path", path).Debug("saved TMDB API key")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved TMDB API key %s to %s\n", cfg.MaskedAPIKey(), path)
			return nil
		},
	}
}

func cacheSummary(cfg *config.Config) string {
	if !cfg.CacheEnabled {
		return "disabled"
	}
	return fmt.Sprintf("enabled, %dh", cfg.CacheDurationHours)
}

func logSummary(cfg *config.Config) string {
	if !cfg.Log.FileEnabled {
		return "disabled"
	}
	return fmt.Sprintf("enabled, kept %d days", cfg.Log.RetentionDays)
}
