package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <manifest.json>",
		Short: "Resolve a checksum manifest against the configured build systems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved %d build(s), %d file(s) unresolved\n", len(result.Found), len(result.NotFoundFilenames()))
			return nil
		},
	}
	return cmd
}
