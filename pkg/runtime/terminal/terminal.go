// Package terminal assembles the mule-atlas command-line interface.
package terminal

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/runtime/terminal/commands"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
)

// CLI represents the command-line interface
type CLI struct {
	deps    commands.Deps
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry registry.Registry
	Logger   zerolog.Logger
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		deps: commands.Deps{
			Registry: opts.Registry,
			Logger:   opts.Logger,
			Output:   opts.Output,
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mule-atlas",
		Short:         "Static analysis checkers for Mule projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewApiCmd(cli.deps))
	cmd.AddCommand(commands.NewConfigCmd(cli.deps))
	cmd.AddCommand(commands.NewLogsCmd(cli.deps))
	cmd.AddCommand(commands.NewMunitCmd(cli.deps))
	cmd.AddCommand(commands.NewSecurityCmd(cli.deps))
	cmd.AddCommand(commands.NewWatchCmd(cli.deps))
	cmd.AddCommand(commands.NewCheckersCmd(cli.deps))

	return cmd
}
