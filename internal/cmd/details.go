package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/spf13/cobra"
)

var errNoKey = errors.New("no TMDB API key configured: set " + config.EnvName(config.APIKeyName) + " or run 'release-lens config set-key'")

func newDetailsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "details movie|tv ID",
		Short:     "Print the full TMDB record for an id",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"movie", "tv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}
			key := config.APIKey(a.keys())
			if key == "" {
				return errNoKey
			}

			client := newClient(a.cfg)
			switch args[0] {
			case "movie":
				rec, err := client.GetMovieDetails(cmd.Context(), id, key)
				if err != nil {
					return fmt.Errorf("movie %d: %w", id, err)
				}
				return writeJSON(cmd.OutOrStdout(), rec)
			case "tv":
				rec, err := client.GetTvDetails(cmd.Context(), id, key)
				if err != nil {
					return fmt.Errorf("tv %d: %w", id, err)
				}
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			return fmt.Errorf("unknown kind %q, want movie or tv", args[0])
		},
	}
}
