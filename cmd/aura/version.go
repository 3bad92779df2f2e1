package main

import (
	"fmt"

	"github.com/aretw0/aura"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aura",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aura version %s\n", aura.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
