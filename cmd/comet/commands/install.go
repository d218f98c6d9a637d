package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/comet/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <component>...",
		Short: "Install components and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.runRequest(cmd, domain.Request{
				Op:  domain.OpInstall,
				IDs: args,
			})
		},
	}
}
