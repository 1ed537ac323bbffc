// Package secrets scans project files line by line for hardcoded
// credentials, insecure HTTP listeners and weak TLS configuration.
package secrets

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

const CheckerName = "security"

var (
	scanExtensions  = []string{".xml", ".properties", ".yaml", ".yml", ".json", ".java", ".js"}
	builtinExcludes = []string{"target/", ".mule/", "node_modules/", ".git/"}

	listenerLineRe = regexp.MustCompile(`(?i)<http:listener`)
	tlsV10Re       = regexp.MustCompile(`(?i)tls[_-]?version\s*[=:]\s*["']?1\.0`)
	tlsV11Re       = regexp.MustCompile(`(?i)tls[_-]?version\s*[=:]\s*["']?1\.1`)

	// Substrings that mark a whole line as a false positive, and captured
	// values that are clearly placeholders rather than real secrets.
	allowSubstrings = []string{"example", "sample", "test", "placeholder"}
	denyValues      = map[string]bool{
		"password": true,
		"secret":   true,
		"key":      true,
		"token":    true,
		"changeme": true,
	}
)

type Checker struct {
	settings settings.Security
	rules    []Rule
	logger   zerolog.Logger
}

func New(cfg settings.Config, logger zerolog.Logger) (*Checker, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	if cfg.Security.RulesFile != "" {
		extra, err := LoadRules(cfg.Security.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = append(rules, extra...)
	}
	return &Checker{
		settings: cfg.Security,
		rules:    rules,
		logger:   logger.With().Str("checker", CheckerName).Logger(),
	}, nil
}

func (c *Checker) Name() string { return CheckerName }

func (c *Checker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	res := domain.NewResult(CheckerName)

	excludes := append(append([]string{}, builtinExcludes...), c.settings.ExcludePaths...)
	files, skipped := scan.Walk(target.ProjectPath, scan.Filter{
		Extensions:   scanExtensions,
		PathExcludes: excludes,
	})
	res.AddWarnings(skipped)

	for _, f := range files {
		c.scanFile(res, f)
	}

	c.logger.Debug().
		Int("files", len(files)).
		Int("findings", len(res.Findings)).
		Msg("scan complete")

	res.Stats["files_scanned"] = len(files)
	return res, nil
}

func (c *Checker) scanFile(res *domain.Result, f scan.File) {
	for i, line := range strings.Split(f.Content, "\n") {
		lineNum := i + 1
		c.checkSecrets(res, f.Path, lineNum, line)
		c.checkListener(res, f.Path, lineNum, line)
		c.checkTLS(res, f.Path, lineNum, line)
	}
}

func (c *Checker) checkSecrets(res *domain.Result, path string, lineNum int, line string) {
	// Comments and property placeholders are never secrets.
	if strings.HasPrefix(strings.TrimSpace(line), "#") || strings.Contains(line, "${") {
		return
	}

	lower := strings.ToLower(line)
	for _, rule := range c.rules {
		m := rule.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if containsAny(lower, allowSubstrings) {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		if denyValues[value] {
			continue
		}
		res.AddFinding(domain.Finding{
			Kind:     rule.Type,
			Severity: rule.Severity,
			File:     path,
			Line:     lineNum,
			Message:  fmt.Sprintf("Found: %s...", truncate(value, 20)),
		})
	}
}

// checkListener flags plain HTTP listeners outside test files.
func (c *Checker) checkListener(res *domain.Result, path string, lineNum int, line string) {
	if !listenerLineRe.MatchString(line) {
		return
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, `protocol="https"`) || strings.Contains(lower, "tls") {
		return
	}
	if strings.Contains(strings.ToLower(path), "test") {
		return
	}
	res.AddFinding(domain.Finding{
		Kind:     "Insecure HTTP listener",
		Severity: domain.SeverityMedium,
		File:     path,
		Line:     lineNum,
		Message:  "HTTP listener without HTTPS/TLS configured",
	})
}

func (c *Checker) checkTLS(res *domain.Result, path string, lineNum int, line string) {
	if tlsV10Re.MatchString(line) {
		res.AddFinding(domain.Finding{
			Kind:     "Weak TLS version",
			Severity: domain.SeverityHigh,
			File:     path,
			Line:     lineNum,
			Message:  "TLS 1.0 detected (deprecated, use TLS 1.2+)",
		})
	}
	if tlsV11Re.MatchString(line) {
		res.AddFinding(domain.Finding{
			Kind:     "Weak TLS version",
			Severity: domain.SeverityHigh,
			File:     path,
			Line:     lineNum,
			Message:  "TLS 1.1 detected (deprecated, use TLS 1.2+)",
		})
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
