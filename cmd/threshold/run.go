package main

import (
	"github.com/aretw0/threshold/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [namespace...]",
	Short: "Simulate navigations over the site's pages",
	Long: `Runs an orchestrator over the pages declared in the site file.

With namespaces as arguments, navigates through them in order, closes the
orchestrator and prints a summary. Without arguments, reads commands
interactively: go <namespace>, status, journal [n], help, quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := readGlobalFlags(cmd)
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		watch, _ := cmd.Flags().GetBool("watch")
		origin, _ := cmd.Flags().GetString("origin")

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Dir:      g.dir,
			SiteFile: g.config,
			Sequence: args,
			Headless: headless,
			JSON:     jsonMode,
			Watch:    watch,
			Debug:    g.debug,
			LogLevel: g.logLevel,
			Origin:   origin,
			Stdin:    cmd.InOrStdin(),
			Stdout:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run without banner or prompts")
	runCmd.Flags().Bool("json", false, "Read and write JSON lines")
	runCmd.Flags().BoolP("watch", "w", false, "Restart the session when the site file or its pages change")
	runCmd.Flags().String("origin", "", "Fetch pages from a running site instead of the site file")

	rootCmd.RunE = runCmd.RunE
}
