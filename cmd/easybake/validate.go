package main

import (
	"fmt"

	"github.com/aretw0/easybake/internal/cli"
	"github.com/aretw0/easybake/internal/config"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the task graph",
	Long:  `Loads the configuration, validates the recipe and checks the graph for unknown edges and cycles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		cfg.Store.Driver = config.DriverMemory

		k, closeStore, err := cli.NewKitchen(cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer closeStore()

		g := k.Inspect()
		if err := g.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Graph is valid! ✅ (%d tasks)\n", g.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
