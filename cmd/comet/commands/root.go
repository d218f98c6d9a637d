// Package commands implements the CLI commands for the comet component manager.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/comet/internal/app"
	"go.trai.ch/comet/internal/build"
)

// CLI represents the command line interface for comet.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "comet",
		Short:         "A dependency-aware component installer and updater",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the comet config file")
	rootCmd.PersistentFlags().String("root", "", "Installation root directory")
	rootCmd.PersistentFlags().String("snapshot-url", "", "URL of the component snapshot")
	rootCmd.PersistentFlags().String("os", "", "Target operating system (defaults to the host)")
	rootCmd.PersistentFlags().String("arch", "", "Target architecture (defaults to the host)")
	rootCmd.PersistentFlags().Int("parallelism", 0, "Maximum number of components processed concurrently")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output and confirmation prompts")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.applyFlags(cmd)
	}

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// applyFlags pushes persistent flag values into the app before a command runs.
func (c *CLI) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	c.app.SetConfigPath(configPath)

	root, _ := flags.GetString("root")
	snapshotURL, _ := flags.GetString("snapshot-url")
	osName, _ := flags.GetString("os")
	arch, _ := flags.GetString("arch")
	parallelism, _ := flags.GetInt("parallelism")

	overrides := app.Overrides{
		Root:        root,
		SnapshotURL: snapshotURL,
		OS:          osName,
		Arch:        arch,
		Parallelism: parallelism,
	}
	if flags.Changed("prune") {
		prune, _ := flags.GetBool("prune")
		overrides.Prune = &prune
	}
	c.app.SetOverrides(overrides)
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the writer command output goes to. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// SetInput sets the reader confirmation prompts read from. Used for testing.
func (c *CLI) SetInput(r io.Reader) {
	c.rootCmd.SetIn(r)
}
