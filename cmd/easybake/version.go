package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/easybake"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of easybake",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "easybake version %s\n", strings.TrimSpace(easybake.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
