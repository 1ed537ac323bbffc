package commands

import (
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/services/apispec"
)

type ApiCmd struct {
	deps Deps
	run  projectRun
}

func NewApiCmd(deps Deps) *cobra.Command {
	ac := &ApiCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Validate API contracts against implemented HTTP listeners",
		RunE:  ac.exec,
	}

	cmd.Flags().StringVar(&ac.run.projectPath, "project-path", ".", "Path to the Mule project root")
	cmd.Flags().StringVar(&ac.run.configPath, "config", "", "Path to a settings file")
	cmd.Flags().StringVar(&ac.run.format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVarP(&ac.run.verbose, "verbose", "v", false, "Show warnings in addition to errors")

	return cmd
}

func (ac *ApiCmd) exec(cmd *cobra.Command, args []string) error {
	return runProjectChecker(cmd.Context(), ac.deps, apispec.CheckerName, ac.run)
}
