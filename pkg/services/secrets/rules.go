package secrets

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule is one secret-detection pattern. Rules are applied per line, in order,
// and every match surviving the allow/deny filters becomes a finding at the
// rule's severity.
type Rule struct {
	Type     string
	Pattern  *regexp.Regexp
	Severity domain.Severity
}

type ruleSpec struct {
	Type     string `yaml:"type"`
	Pattern  string `yaml:"pattern"`
	Severity string `yaml:"severity"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

func compileRules(raw []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		re, err := regexp.Compile(`(?i)` + spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for rule %q: %w", spec.Type, err)
		}
		sev, err := domain.ParseSeverity(spec.Severity)
		if err != nil {
			return nil, fmt.Errorf("invalid severity for rule %q: %w", spec.Type, err)
		}
		rules = append(rules, Rule{Type: spec.Type, Pattern: re, Severity: sev})
	}
	return rules, nil
}

// DefaultRules returns the built-in secret-detection rules in their fixed
// order.
func DefaultRules() ([]Rule, error) {
	return compileRules(defaultRulesYAML)
}

// LoadRules reads additional rules from a YAML file. Loaded rules are applied
// after the defaults.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return compileRules(raw)
}
