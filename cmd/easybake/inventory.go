package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/easybake"
	"github.com/aretw0/easybake/internal/cli"
	"github.com/aretw0/easybake/internal/presentation/tui"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv"},
	Short:   "Inspect and edit the pantry and cabinets",
}

var inventoryShowCmd = &cobra.Command{
	Use:   "show [class]",
	Short: "Print one or both ledgers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes := domain.ResourceClasses
		if len(args) == 1 {
			class, err := domain.ParseResourceClass(args[0])
			if err != nil {
				return err
			}
			classes = []domain.ResourceClass{class}
		}
		jsonMode, _ := cmd.Flags().GetBool("json")

		return withKitchen(cmd, func(k *easybake.Kitchen) error {
			stock := make(map[domain.ResourceClass]domain.Ledger, len(classes))
			for _, class := range classes {
				ledger, err := k.Ledger(cmd.Context(), class)
				if err != nil {
					return err
				}
				stock[class] = ledger
			}

			out := cmd.OutOrStdout()
			if jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stock)
			}
			var md strings.Builder
			for i, class := range classes {
				if i > 0 {
					md.WriteString("\n")
				}
				md.WriteString(tui.LedgerMarkdown(class, stock[class]))
			}
			return tui.Write(out, md.String())
		})
	},
}

var inventorySeedCmd = &cobra.Command{
	Use:   "seed [batches]",
	Short: "Overwrite both ledgers with stock for a number of cakes (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batches := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch count %q", args[0])
			}
			batches = n
		}
		return withKitchen(cmd, func(k *easybake.Kitchen) error {
			if err := k.Seed(cmd.Context(), batches); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded pantry and cabinets for %d cake(s)\n", batches)
			return nil
		})
	},
}

var inventorySetCmd = &cobra.Command{
	Use:   "set <class> item=qty [item=qty...]",
	Short: "Replace a ledger",
	Long:  `Replaces the whole ledger of a class. Items not listed are removed.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := domain.ParseResourceClass(args[0])
		if err != nil {
			return err
		}
		ledger, err := parseLedger(args[1:])
		if err != nil {
			return err
		}
		return withKitchen(cmd, func(k *easybake.Kitchen) error {
			if err := k.Inventory().Set(cmd.Context(), class, ledger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%d items)\n", class, len(ledger))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryShowCmd, inventorySeedCmd, inventorySetCmd)

	inventoryShowCmd.Flags().Bool("json", false, "Print the ledgers as JSON")
}

func withKitchen(cmd *cobra.Command, fn func(k *easybake.Kitchen) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	k, closeStore, err := cli.NewKitchen(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(k)
}

// parseLedger reads item=qty pairs.
func parseLedger(pairs []string) (domain.Ledger, error) {
	ledger := make(domain.Ledger, len(pairs))
	for _, p := range pairs {
		item, qty, ok := strings.Cut(p, "=")
		if !ok || item == "" {
			return nil, fmt.Errorf("expected item=qty, got %q", p)
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for %s: %q", item, qty)
		}
		ledger[item] = n
	}
	return ledger, ledger.Validate()
}
