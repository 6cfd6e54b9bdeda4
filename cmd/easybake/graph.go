package main

import (
	"fmt"

	"github.com/aretw0/easybake/internal/cli"
	"github.com/aretw0/easybake/internal/config"
	"github.com/aretw0/easybake/internal/presentation/graph"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the task graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the bake graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// The graph does not depend on stock, so never touch the real store.
		cfg.Store.Driver = config.DriverMemory

		k, closeStore, err := cli.NewKitchen(cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer closeStore()

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(k.Inspect(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
