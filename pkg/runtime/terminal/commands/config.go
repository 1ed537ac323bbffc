package commands

import (
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/services/properties"
)

type ConfigCmd struct {
	deps Deps
	run  projectRun
}

func NewConfigCmd(deps Deps) *cobra.Command {
	cc := &ConfigCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate properties, placeholders and the application descriptor",
		RunE:  cc.exec,
	}

	cmd.Flags().StringVar(&cc.run.projectPath, "project-path", ".", "Path to the Mule project root")
	cmd.Flags().StringVar(&cc.run.configPath, "config", "", "Path to a settings file")
	cmd.Flags().StringVar(&cc.run.format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVarP(&cc.run.verbose, "verbose", "v", false, "Show warnings in addition to errors")

	return cmd
}

func (cc *ConfigCmd) exec(cmd *cobra.Command, args []string) error {
	return runProjectChecker(cmd.Context(), cc.deps, properties.CheckerName, cc.run)
}
