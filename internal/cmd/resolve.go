package cmd

import (
	"fmt"
	"io"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/Digital-Shane/release-lens/internal/core"
	"github.com/Digital-Shane/release-lens/internal/server"
	"github.com/Digital-Shane/release-lens/internal/tui/lookup"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runProgram runs a bubbletea program. Tests replace it to avoid a terminal.
var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		useTUI bool
	)

	c := &cobra.Command{
		Use:   "resolve FILENAME",
		Short: "Look a release filename up on TMDB",
		Long: `Resolve parses the filename and searches TMDB for it. A typed movie or TV
search using the parsed year runs first, followed by a multi search on the
title alone when the typed search finds nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && useTUI {
				return fmt.Errorf("--json and --tui cannot be combined")
			}

			engine := core.NewEngine(newClient(a.cfg), a.logger)
			key := config.APIKey(a.keys())

			if useTUI {
				model := lookup.New(engine, args[0], key, lookup.WithContext(cmd.Context()))
				if _, err := runProgram(model); err != nil {
					return fmt.Errorf("failed to run lookup UI: %w", err)
				}
				return nil
			}

			out := engine.Resolve(cmd.Context(), args[0], key)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), server.ResolveResponse{
					Media:      out.Media,
					Diagnostic: out.Diagnostic,
					Message:    out.Diagnostic.Message(),
					Parsed:     out.Parsed,
				})
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	c.Flags().BoolVar(&useTUI, "tui", false, "Show the lookup in an interactive view")
	return c
}

func printOutcome(w io.Writer, out core.Outcome) {
	if out.Media == nil {
		fmt.Fprintln(w, out.Diagnostic.Message())
		return
	}

	m := out.Media
	fmt.Fprintln(w, m.DisplayTitle())
	fmt.Fprintf(w, "Type:   %s\n", m.MediaType.Label())
	fmt.Fprintf(w, "TMDB:   %d\n", m.ID)
	fmt.Fprintf(w, "Rating: %s\n", m.Rating())
	if url := m.PosterURL(); url != "" {
		fmt.Fprintf(w, "Poster: %s\n", url)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.Synopsis())
}
