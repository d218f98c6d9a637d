package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List components and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showVersions, _ := cmd.Flags().GetBool("show-versions")

			statuses, revision, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			if showVersions {
				fmt.Fprintln(w, "STATUS\tNAME\tID\tINSTALLED\tLATEST\tSIZE")
				for _, s := range statuses {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						s.State, s.Name, s.ID, orDash(string(s.Installed)), orDash(string(s.Latest)), formatSize(s.Size))
				}
			} else {
				fmt.Fprintln(w, "STATUS\tNAME\tID\tSIZE")
				for _, s := range statuses {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.State, s.Name, s.ID, formatSize(s.Size))
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSnapshot revision: %s\n", revision)
			return nil
		},
	}
	cmd.Flags().Bool("show-versions", false, "Include installed and latest version columns")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(size int64) string {
	switch {
	case size <= 0:
		return "-"
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GiB", float64(size)/(1024*1024*1024))
	}
}
