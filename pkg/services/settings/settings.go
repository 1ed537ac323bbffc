// Package settings holds the configurable thresholds for every checker.
// Defaults match the documented contract; an optional config file can
// override individual values.
package settings

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// API configures the API contract checker.
type API struct {
	// MaxResponseTimeoutMS flags http:request response timeouts above this
	// value, in milliseconds.
	MaxResponseTimeoutMS int `mapstructure:"max_response_timeout_ms" validate:"gt=0"`
}

// Logs configures the log analyzer.
type Logs struct {
	CorrelationCoverageMin float64 `mapstructure:"correlation_coverage_min" validate:"gte=0,lte=100"`
	ErrorRateMax           float64 `mapstructure:"error_rate_max" validate:"gte=0,lte=100"`
	TopErrorTypes          int     `mapstructure:"top_error_types" validate:"gt=0"`
	FloodThreshold         int     `mapstructure:"flood_threshold" validate:"gt=0"`
	FloodTopPatterns       int     `mapstructure:"flood_top_patterns" validate:"gt=0"`
	DebugInfoFactor        float64 `mapstructure:"debug_info_factor" validate:"gt=0"`
	DebugShareMax          float64 `mapstructure:"debug_share_max" validate:"gt=0,lte=1"`
}

// MUnit configures the test coverage analyzer.
type MUnit struct {
	CoverageErrorBelow float64 `mapstructure:"coverage_error_below" validate:"gte=0,lte=100"`
	CoverageWarnBelow  float64 `mapstructure:"coverage_warn_below" validate:"gte=0,lte=100,gtefield=CoverageErrorBelow"`
	// FlowWindow and TestWindow are the trailing content windows, in bytes,
	// inspected after a flow or test match.
	FlowWindow int `mapstructure:"flow_window" validate:"gt=0"`
	TestWindow int `mapstructure:"test_window" validate:"gt=0"`
}

// Security configures the secret scanner.
type Security struct {
	// ExcludePaths drops files whose path contains any of the substrings,
	// in addition to the built-in build/VCS directories.
	ExcludePaths []string `mapstructure:"exclude_paths"`
	// RulesFile points to a YAML file with additional secret rules.
	RulesFile string `mapstructure:"rules_file"`
}

type Config struct {
	API      API      `mapstructure:"api"`
	Logs     Logs     `mapstructure:"logs"`
	MUnit    MUnit    `mapstructure:"munit"`
	Security Security `mapstructure:"security"`
}

func Default() Config {
	return Config{
		API: API{
			MaxResponseTimeoutMS: 60000,
		},
		Logs: Logs{
			CorrelationCoverageMin: 80,
			ErrorRateMax:           5,
			TopErrorTypes:          5,
			FloodThreshold:         1000,
			FloodTopPatterns:       10,
			DebugInfoFactor:        2,
			DebugShareMax:          0.7,
		},
		MUnit: MUnit{
			CoverageErrorBelow: 50,
			CoverageWarnBelow:  80,
			FlowWindow:         1000,
			TestWindow:         2000,
		},
		Security: Security{},
	}
}

// Load returns the defaults overridden by the config file at path, when one
// is given. The merged configuration is validated before use.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
