package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, environment
overrides and --log-level have been applied.

Configuration is read from <root>/fitspipe.yaml unless --config is given.
Environment overrides: FITSPIPE_DATA_DIR, FITSPIPE_REPORTS_DIR,
FITSPIPE_COUNT, FITSPIPE_STARS, FITSPIPE_CATALOG, FITSPIPE_METRICS_DIR,
FITSPIPE_LOG_LEVEL.

Examples:
  fitspipe config
  fitspipe config --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
