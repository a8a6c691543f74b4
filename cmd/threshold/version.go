package main

import (
	"fmt"

	"github.com/aretw0/threshold"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of threshold",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "threshold version %s\n", threshold.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
