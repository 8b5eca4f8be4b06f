package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/release-lens/internal/release"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "parse FILENAME",
		Short: "Parse a release filename without a lookup",
		Long: `Parse extracts the title, year, season and episode from the filename and
classifies it as a movie or a TV episode. No network access is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := release.Parse(args[0])
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), parsed)
			}
			printParsed(cmd.OutOrStdout(), args[0], parsed)
			return nil
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return c
}

func printParsed(w io.Writer, name string, p release.ParsedRelease) {
	fmt.Fprintf(w, "File:    %s\n", name)
	fmt.Fprintf(w, "Title:   %s\n", orDash(p.Title))
	fmt.Fprintf(w, "Year:    %s\n", intOrDash(p.Year))
	fmt.Fprintf(w, "Season:  %s\n", intOrDash(p.Season))
	fmt.Fprintf(w, "Episode: %s\n", intOrDash(p.Episode))
	fmt.Fprintf(w, "Kind:    %s\n", p.Kind())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
