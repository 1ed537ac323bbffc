// Package commands defines the per-checker CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/runtime/terminal/export"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

// ErrChecksFailed signals a completed run with blocking findings. The CLI
// entry point maps it to exit code 1 without printing it as an error.
var ErrChecksFailed = errors.New("checks failed")

// Deps carry the shared collaborators into each command.
type Deps struct {
	Registry registry.Registry
	Logger   zerolog.Logger
	Output   io.Writer
}

// projectRun holds the flag values shared by the project-tree checkers.
type projectRun struct {
	projectPath string
	configPath  string
	format      string
	verbose     bool
}

// runProjectChecker loads settings, runs the named checker over the project
// tree and reports the result. The project path must exist before any
// scanning begins.
func runProjectChecker(ctx context.Context, deps Deps, name string, run projectRun) error {
	if _, err := os.Stat(run.projectPath); err != nil {
		return fmt.Errorf("project path does not exist: %s", run.projectPath)
	}

	cfg, err := settings.Load(run.configPath)
	if err != nil {
		return err
	}

	checker, err := deps.Registry.Create(name, cfg, deps.Logger)
	if err != nil {
		return err
	}

	res, err := checker.Run(ctx, domain.Target{ProjectPath: run.projectPath})
	if err != nil {
		return err
	}

	if err := report(deps.Output, res, run.format, run.verbose); err != nil {
		return err
	}
	if !res.Valid() {
		return ErrChecksFailed
	}
	return nil
}

func report(out io.Writer, res *domain.Result, format string, verbose bool) error {
	switch format {
	case "json":
		return export.NewJSONReporter(out).Handle(res)
	case "text", "":
		return export.NewTextReporter(out, verbose).Handle(res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
