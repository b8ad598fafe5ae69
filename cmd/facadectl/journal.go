package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded exchanges",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded exchanges, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.runner.Journal().List(limit)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded exchange",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok, err := c.runner.Journal().Get(args[0])
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if !ok {
				return fmt.Errorf("no journal entry %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
