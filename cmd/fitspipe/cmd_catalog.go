package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nvandessel/fits-pipeline/internal/catalog"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the local upload catalog",
	}

	cmd.AddCommand(newCatalogListCmd())

	return cmd
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List files recorded by upload runs",
		Long: `List every file recorded in the upload catalog with its size, checksum
and the run that recorded it.

Examples:
  fitspipe catalog list
  fitspipe catalog list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")
			reportsDir, err := pathutil.ResolveDir(root, cfg.ReportsDir)
			if err != nil {
				return fmt.Errorf("reports_dir: %w", err)
			}

			path, err := cfg.ResolvedCatalogPath(root, reportsDir)
			if err != nil {
				return err
			}

			var (
				entries []catalog.Entry
				count   int
			)
			if _, err := os.Stat(path); err == nil {
				cat, err := catalog.Open(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("opening upload catalog: %w", err)
				}
				defer cat.Close()

				path = cat.Path()
				entries, err = cat.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing upload catalog: %w", err)
				}
				count, err = cat.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("counting upload catalog: %w", err)
				}
			} else if !isNotExist(err) {
				return fmt.Errorf("checking upload catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return json.NewEncoder(out).Encode(map[string]any{
					"catalog": path,
					"count":   count,
					"entries": entries,
				})
			}

			if count == 0 {
				fmt.Fprintf(out, "No files recorded in %s\n", path)
				return nil
			}

			fmt.Fprintf(out, "Upload catalog: %s\n\n", path)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tSIZE\tCHECKSUM\tRUN\tRECORDED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					e.Path, e.SizeBytes, shortChecksum(e.Checksum), e.RunID, e.RecordedAt.UTC().Format("2006-01-02T15:04:05Z"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d files\n", count)
			return nil
		},
	}
}

// shortChecksum trims a "sha256:<hex>" checksum to 12 hex digits for display.
func shortChecksum(sum string) string {
	const keep = len("sha256:") + 12
	if len(sum) <= keep {
		return sum
	}
	return sum[:keep]
}
