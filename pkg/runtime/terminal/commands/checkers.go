package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type CheckersCmd struct {
	deps Deps
}

func NewCheckersCmd(deps Deps) *cobra.Command {
	cc := &CheckersCmd{deps: deps}
	return &cobra.Command{
		Use:   "checkers",
		Short: "List available checkers",
		RunE:  cc.exec,
	}
}

func (cc *CheckersCmd) exec(cmd *cobra.Command, args []string) error {
	names := cc.deps.Registry.ListCheckers()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No checkers registered")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Available checkers:\n%s\n", strings.Join(names, "\n"))
	return nil
}
