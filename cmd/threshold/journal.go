package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/threshold/internal/cli"
	"github.com/aretw0/threshold/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent cycles from the site's journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := readGlobalFlags(cmd)
		limit, _ := cmd.Flags().GetInt("limit")

		site, _, err := cli.LoadSite(g.dir, g.config)
		if err != nil {
			return err
		}
		stack, err := cli.NewStack(site, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer stack.Close()
		if stack.Journal == nil {
			return errors.New("journal is disabled for this site")
		}

		reports, err := stack.Journal.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.Summary(reports))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntP("limit", "n", 20, "Number of cycles to show")
}
