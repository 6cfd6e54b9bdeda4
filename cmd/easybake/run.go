package main

import (
	"github.com/aretw0/easybake/internal/cli"
	"github.com/aretw0/easybake/internal/presentation/tui"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bake graph once",
	Long:  `Executes one run of the bake graph against the configured store and prints the report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		seed, _ := cmd.Flags().GetInt("seed")

		k, closeStore, err := cli.NewKitchen(cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		if !jsonMode && !quiet && tui.IsTerminal(out) {
			tui.PrintBanner(out)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err = cli.Execute(ctx, k, out, cli.RunOptions{JSON: jsonMode, Quiet: quiet, Seed: seed})
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().BoolP("quiet", "q", false, "Print a one-line summary")
	runCmd.Flags().Int("seed", 0, "Stock both ledgers for this many cakes before running")
}
