package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/Digital-Shane/release-lens/internal/core"
	"github.com/Digital-Shane/release-lens/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve parsing and lookups over HTTP",
		Long: `Serve starts the HTTP API. The config file is watched while serving and a
changed API key applies to the next request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, addr, path)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return c
}

// serve runs the server and the config watcher until ctx is done or either fails
func serve(ctx context.Context, a *app, addr, path string) error {
	live := config.NewLive(a.cfg)
	keys := config.Layered{config.EnvStore{}, live}

	client := newClient(a.cfg)
	srv := server.NewServer(addr, core.NewEngine(client, a.logger), client, keys, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return config.Watch(ctx, path,
			func(cfg *config.Config) {
				if err := cfg.Validate(); err != nil {
					a.logger.WithError(err).Warn("ignoring invalid config reload")
					return
				}
				live.Store(cfg)
				a.logger.WithField("path", path).Info("config reloaded")
			},
			func(err error) {
				a.logger.WithError(err).Warn("config reload failed")
			},
		)
	})
	return g.Wait()
}
