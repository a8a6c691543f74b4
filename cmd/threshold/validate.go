package main

import (
	"fmt"

	"github.com/aretw0/threshold/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the site file",
	Long:  `Loads the site file, reports every configuration problem and builds each module once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := readGlobalFlags(cmd)
		site, path, err := cli.LoadSite(g.dir, g.config)
		if err != nil {
			return err
		}
		stack, err := cli.NewStack(site, cli.StackOptions{})
		if err != nil {
			return fmt.Errorf("%s is invalid:\n%w", path, err)
		}
		defer stack.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d modules, pages %v\n",
			path, stack.Registry.Len(), site.Namespaces())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
