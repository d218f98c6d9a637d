package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/comet/internal/core/domain"
)

func (c *CLI) newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <component>...",
		Short: "Remove components and everything that depends on them",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			force, _ := cmd.Flags().GetBool("force")
			return c.runRequest(cmd, domain.Request{
				Op:    domain.OpRemove,
				IDs:   args,
				Force: force,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Allow removal of protected components")
	return cmd
}
