package commands

import (
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/services/munit"
)

type MunitCmd struct {
	deps Deps
	run  projectRun
}

func NewMunitCmd(deps Deps) *cobra.Command {
	mc := &MunitCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "munit",
		Short: "Analyze MUnit test coverage and test quality",
		RunE:  mc.exec,
	}

	cmd.Flags().StringVar(&mc.run.projectPath, "project-path", ".", "Path to the Mule project root")
	cmd.Flags().StringVar(&mc.run.configPath, "config", "", "Path to a settings file")
	cmd.Flags().StringVar(&mc.run.format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVarP(&mc.run.verbose, "verbose", "v", false, "Show warnings in addition to errors")

	return cmd
}

func (mc *MunitCmd) exec(cmd *cobra.Command, args []string) error {
	return runProjectChecker(cmd.Context(), mc.deps, munit.CheckerName, mc.run)
}
