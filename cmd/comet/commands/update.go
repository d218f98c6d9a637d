package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/comet/internal/core/domain"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [component...]",
		Short: "Update components to the snapshot versions",
		Long: `Update the named components, or every installed component when no
arguments are given. New dependencies introduced by the snapshot are
installed automatically.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prune, _ := cmd.Flags().GetBool("prune")
			return c.runRequest(cmd, domain.Request{
				Op:    domain.OpUpdate,
				IDs:   args,
				Prune: prune,
			})
		},
	}
	cmd.Flags().Bool("prune", false, "Remove installed components no longer present in the snapshot")
	return cmd
}
