package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "threshold",
	Short: "threshold orchestrates page-transition lifecycles",
	Long: `threshold drives the enter and leave lifecycle of behavior modules across page
navigations: setup hooks run in parallel per phase, their cleanups are drained
in reverse order when the page is left, and every cycle is journaled.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the site file")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Site file (default: threshold.yaml, threshold.yml or threshold.toml in --dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every lifecycle phase")
}

type globalFlags struct {
	dir      string
	config   string
	logLevel string
	debug    bool
}

func readGlobalFlags(cmd *cobra.Command) globalFlags {
	var g globalFlags
	g.dir, _ = cmd.Flags().GetString("dir")
	g.config, _ = cmd.Flags().GetString("config")
	g.logLevel, _ = cmd.Flags().GetString("log-level")
	g.debug, _ = cmd.Flags().GetBool("debug")
	return g
}
