package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/runtime/terminal/export"
	"github.com/mule-tools/mule-atlas/pkg/services/secrets"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

type SecurityCmd struct {
	deps        Deps
	projectPath string
	configPath  string
	rulesFile   string
	excludes    []string
	failOn      string
	format      string
	verbose     bool
}

func NewSecurityCmd(deps Deps) *cobra.Command {
	sc := &SecurityCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "security",
		Short: "Scan for hardcoded secrets and insecure configuration",
		RunE:  sc.exec,
	}

	cmd.Flags().StringVar(&sc.projectPath, "path", ".", "Path to the Mule project root")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to a settings file")
	cmd.Flags().StringVar(&sc.rulesFile, "rules", "", "Path to an additional secret-rules file")
	cmd.Flags().StringArrayVar(&sc.excludes, "exclude", nil, "Path substring to exclude from the scan (repeatable)")
	cmd.Flags().StringVar(&sc.failOn, "fail-on", "", "Fail when findings at or above this severity exist (critical, high or medium)")
	cmd.Flags().StringVar(&sc.format, "format", "text", "Output format (text, json or sarif)")
	cmd.Flags().BoolVarP(&sc.verbose, "verbose", "v", false, "Show medium and low severity findings")

	return cmd
}

func (sc *SecurityCmd) exec(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(sc.projectPath); err != nil {
		return fmt.Errorf("project path does not exist: %s", sc.projectPath)
	}

	var failAt domain.Severity
	if sc.failOn != "" {
		sev, err := domain.ParseSeverity(sc.failOn)
		if err != nil {
			return err
		}
		failAt = sev
	}

	cfg, err := settings.Load(sc.configPath)
	if err != nil {
		return err
	}
	cfg.Security.ExcludePaths = append(cfg.Security.ExcludePaths, sc.excludes...)
	if sc.rulesFile != "" {
		cfg.Security.RulesFile = sc.rulesFile
	}

	checker, err := sc.deps.Registry.Create(secrets.CheckerName, cfg, sc.deps.Logger)
	if err != nil {
		return err
	}

	res, err := checker.Run(cmd.Context(), domain.Target{ProjectPath: sc.projectPath})
	if err != nil {
		return err
	}

	switch sc.format {
	case "json":
		err = export.NewSecurityJSONReporter(sc.deps.Output).Handle(res)
	case "sarif":
		err = export.NewSarifReporter(sc.deps.Output).Handle(res)
	case "text", "":
		err = export.NewSecurityTextReporter(sc.deps.Output, sc.verbose).Handle(res)
	default:
		err = fmt.Errorf("unknown format %q", sc.format)
	}
	if err != nil {
		return err
	}

	// The threshold override only affects the exit code, never the findings.
	failed := !res.Valid()
	if sc.failOn != "" {
		failed = len(res.FindingsAtOrAbove(failAt)) > 0
	}
	if failed {
		return ErrChecksFailed
	}
	return nil
}
