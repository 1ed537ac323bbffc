package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/logs"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

type LogsCmd struct {
	deps       Deps
	configPath string
	format     string
	verbose    bool
}

func NewLogsCmd(deps Deps) *cobra.Command {
	lc := &LogsCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "logs <file>...",
		Short: "Analyze Mule application log files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  lc.exec,
	}

	cmd.Flags().StringVar(&lc.configPath, "config", "", "Path to a settings file")
	cmd.Flags().StringVar(&lc.format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVarP(&lc.verbose, "verbose", "v", false, "Show warnings in addition to errors")

	return cmd
}

func (lc *LogsCmd) exec(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("log file does not exist: %s", path)
		}
	}

	cfg, err := settings.Load(lc.configPath)
	if err != nil {
		return err
	}

	checker, err := lc.deps.Registry.Create(logs.CheckerName, cfg, lc.deps.Logger)
	if err != nil {
		return err
	}

	res, err := checker.Run(cmd.Context(), domain.Target{LogFiles: args})
	if err != nil {
		return err
	}

	if err := report(lc.deps.Output, res, lc.format, lc.verbose); err != nil {
		return err
	}
	if !res.Valid() {
		return ErrChecksFailed
	}
	return nil
}
