package main

import (
	"fmt"

	"github.com/nvandessel/fits-pipeline/internal/catalog"
	"github.com/nvandessel/fits-pipeline/internal/pipeline"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Build the upload manifest for generated files",
		Long: `List every .fits file in the data directory and write
reports/upload_manifest.json. No data leaves the machine: each file is
recorded as uploaded and the manifest status is "pending".

When upload.catalog is enabled (the default) each file is also recorded
with its SHA-256 checksum in the local upload catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newStageEnv(cmd, "upload")
			if err != nil {
				return err
			}
			defer env.close()

			up := &pipeline.Uploader{
				Options: env.options(cmd),
				RunID:   env.runID,
			}

			if env.cfg.Upload.Catalog {
				root, _ := cmd.Flags().GetString("root")
				path, err := env.cfg.ResolvedCatalogPath(root, env.reportsDir)
				if err != nil {
					return err
				}
				cat, err := catalog.Open(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("opening upload catalog: %w", err)
				}
				defer cat.Close()
				up.Catalog = cat
			}

			_, err = up.Run(cmd.Context())
			return err
		},
	}
}
