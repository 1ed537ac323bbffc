package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/server"
	"github.com/mule-tools/mule-atlas/pkg/services/apispec"
	"github.com/mule-tools/mule-atlas/pkg/services/logs"
	"github.com/mule-tools/mule-atlas/pkg/services/munit"
	"github.com/mule-tools/mule-atlas/pkg/services/properties"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
	"github.com/mule-tools/mule-atlas/pkg/services/secrets"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the mule-atlas web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a settings file overriding the default thresholds")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := settings.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reg := registry.NewRegistry(map[string]registry.Factory{
		apispec.CheckerName:    func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return apispec.New(cfg, l) },
		properties.CheckerName: func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return properties.New(cfg, l) },
		logs.CheckerName:       func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return logs.New(cfg, l) },
		munit.CheckerName:      func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return munit.New(cfg, l) },
		secrets.CheckerName:    func(cfg settings.Config, l zerolog.Logger) (registry.Checker, error) { return secrets.New(cfg, l) },
	})

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Registry: reg,
			Settings: cfg,
		},
	})

	return api.Start()
}
