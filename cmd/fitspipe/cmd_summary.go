package main

import (
	"encoding/json"
	"io"

	"github.com/nvandessel/fits-pipeline/internal/pipeline"
	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the pipeline status block",
		Long: `Count the .fits files in the data directory and print a markdown
status block. Status and validation lines are fixed to "Healthy" and
"Passed" unless --from-report is given, in which case the validation
line is derived from reports/validation_report.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newStageEnv(cmd, "summary")
			if err != nil {
				return err
			}
			defer env.close()

			fromReport, _ := cmd.Flags().GetBool("from-report")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s := &pipeline.Summary{Options: env.options(cmd), FromReport: fromReport}
			if jsonOut {
				s.Out = io.Discard
			}

			result, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			return nil
		},
	}

	cmd.Flags().Bool("from-report", false, "Derive the validation line from the validation report")

	return cmd
}
