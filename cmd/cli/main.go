package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/runtime/terminal"
	"github.com/mule-tools/mule-atlas/pkg/runtime/terminal/commands"
	"github.com/mule-tools/mule-atlas/pkg/services/apispec"
	"github.com/mule-tools/mule-atlas/pkg/services/logs"
	"github.com/mule-tools/mule-atlas/pkg/services/munit"
	"github.com/mule-tools/mule-atlas/pkg/services/properties"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
	"github.com/mule-tools/mule-atlas/pkg/services/secrets"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

func main() {
	level := zerolog.WarnLevel
	if os.Getenv("MULE_ATLAS_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	cli := terminal.NewCLI(terminal.Options{
		Registry: registry.NewRegistry(map[string]registry.Factory{
			apispec.CheckerName:    func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return apispec.New(cfg, l) },
			properties.CheckerName: func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return properties.New(cfg, l) },
			logs.CheckerName:       func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return logs.New(cfg, l) },
			munit.CheckerName:      func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return munit.New(cfg, l) },
			secrets.CheckerName:    func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return secrets.New(cfg, l) },
		}),
		Logger: logger,
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, commands.ErrChecksFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
