package main

import (
	"github.com/nvandessel/fits-pipeline/internal/pipeline"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every generated file parses",
		Long: `Open each .fits file in the data directory, record its HDU count,
primary data shape and size, and write reports/validation_report.json.
A file that fails to parse is reported as invalid; the command still
exits 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newStageEnv(cmd, "validate")
			if err != nil {
				return err
			}
			defer env.close()

			v := &pipeline.Validator{Options: env.options(cmd)}
			_, err = v.Run(cmd.Context())
			return err
		},
	}
}
