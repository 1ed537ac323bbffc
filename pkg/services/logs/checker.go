// Package logs analyzes application log files for correlation-ID coverage,
// error-rate spikes, log flooding, and over-verbose level configuration.
package logs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

// errorCategories classify ERROR entries; the first matching pattern wins.
var errorCategories = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)HTTP:(\w+)`), "HTTP"},
	{regexp.MustCompile(`(?i)CONNECTIVITY`), "CONNECTIVITY"},
	{regexp.MustCompile(`(?i)TIMEOUT`), "TIMEOUT"},
	{regexp.MustCompile(`(?i)VALIDATION`), "VALIDATION"},
	{regexp.MustCompile(`(?i)EXPRESSION`), "EXPRESSION"},
	{regexp.MustCompile(`(?i)TRANSFORMATION`), "TRANSFORMATION"},
}

var (
	digitsRe    = regexp.MustCompile(`\d+`)
	uuidShapeRe = regexp.MustCompile(`[a-f0-9-]{36}`)
)

const CheckerName = "logs"

const patternMaxLen = 100

type Checker struct {
	settings settings.Logs
	logger   zerolog.Logger
}

func New(cfg settings.Config, logger zerolog.Logger) (*Checker, error) {
	return &Checker{
		settings: cfg.Logs,
		logger:   logger.With().Str("checker", CheckerName).Logger(),
	}, nil
}

func (c *Checker) Name() string { return CheckerName }

func (c *Checker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	res := domain.NewResult(c.Name())

	var entries []domain.LogEntry
	for _, path := range target.LogFiles {
		fileEntries, err := c.parseFile(path)
		if err != nil {
			res.AddWarning(domain.Finding{
				Kind:     "unreadable-file",
				Severity: domain.SeverityLow,
				File:     path,
				Message:  fmt.Sprintf("could not read %s: %v", path, err),
			})
			continue
		}
		entries = append(entries, fileEntries...)
	}

	counts := countLevels(entries)

	c.checkCorrelationIDs(res, entries)
	c.checkErrorRate(res, entries, counts)
	c.checkFlooding(res, entries, counts)
	c.checkLevelShare(res, counts)

	res.Stats["total_lines"] = len(entries)
	res.Stats["error_count"] = counts["ERROR"]
	res.Stats["warning_count"] = counts["WARN"]
	res.Stats["info_count"] = counts["INFO"]
	res.Stats["debug_count"] = counts["DEBUG"]

	c.logger.Debug().
		Int("entries", len(entries)).
		Int("errors", len(res.Errors)).
		Msg("log analysis finished")
	return res, nil
}

func (c *Checker) parseFile(path string) ([]domain.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []domain.LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		entries = append(entries, ParseLine(scanner.Text(), lineNum))
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

func countLevels(entries []domain.LogEntry) map[string]int {
	counts := map[string]int{}
	for _, e := range entries {
		if e.Level != "" {
			counts[e.Level]++
		}
	}
	return counts
}

func (c *Checker) checkCorrelationIDs(res *domain.Result, entries []domain.LogEntry) {
	if len(entries) == 0 {
		return
	}

	unique := map[string]bool{}
	uuidCount := 0
	withID := 0
	for _, e := range entries {
		if e.CorrelationID == "" {
			continue
		}
		withID++
		if !unique[e.CorrelationID] {
			unique[e.CorrelationID] = true
			if IsUUID(e.CorrelationID) {
				uuidCount++
			}
		}
	}
	res.Stats["correlation_ids"] = len(unique)
	res.Stats["correlation_ids_uuid"] = uuidCount

	coverage := float64(withID) / float64(len(entries)) * 100
	if coverage < c.settings.CorrelationCoverageMin {
		res.AddWarning(domain.Finding{
			Kind:     "low-correlation-coverage",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Missing correlation IDs in %.1f%% of log entries\n  Coverage: %.1f%% (%d/%d)\n  Recommendation: Enable correlation IDs in all flows",
				100-coverage, coverage, withID, len(entries)),
		})
	} else {
		res.Stats["correlation_coverage"] = coverage
	}
}

func (c *Checker) checkErrorRate(res *domain.Result, entries []domain.LogEntry, counts map[string]int) {
	errorCount := counts["ERROR"]
	if errorCount == 0 || len(entries) == 0 {
		return
	}

	byCategory := map[string]int{}
	for _, e := range entries {
		if e.Level != "ERROR" {
			continue
		}
		for _, cat := range errorCategories {
			if cat.re.MatchString(e.Message) {
				byCategory[cat.name]++
				break
			}
		}
	}
	res.Stats["error_types"] = byCategory

	rate := float64(errorCount) / float64(len(entries)) * 100
	if rate > c.settings.ErrorRateMax {
		top := topCounts(byCategory, c.settings.TopErrorTypes)
		summary := "Various"
		if len(top) > 0 {
			parts := make([]string, 0, len(top))
			for _, t := range top {
				parts = append(parts, fmt.Sprintf("%s (%d)", t.key, t.count))
			}
			summary = strings.Join(parts, ", ")
		}
		res.AddError(domain.Finding{
			Kind:     "high-error-rate",
			Severity: domain.SeverityHigh,
			Message: fmt.Sprintf("High error rate: %.1f%%\n  Errors found: %d\n  Most common: %s",
				rate, errorCount, summary),
		})
	} else {
		res.Stats["error_rate"] = rate
	}
}

// normalizePattern folds the variable parts of a message so repeated
// occurrences collapse onto one key: digit runs become N, UUID-shaped
// substrings become UUID, and the result is truncated.
func normalizePattern(message string) string {
	pattern := digitsRe.ReplaceAllString(message, "N")
	pattern = uuidShapeRe.ReplaceAllString(pattern, "UUID")
	runes := []rune(pattern)
	if len(runes) > patternMaxLen {
		runes = runes[:patternMaxLen]
	}
	return string(runes)
}

func (c *Checker) checkFlooding(res *domain.Result, entries []domain.LogEntry, counts map[string]int) {
	patterns := map[string]int{}
	for _, e := range entries {
		patterns[normalizePattern(e.Message)]++
	}

	for _, p := range topCounts(patterns, c.settings.FloodTopPatterns) {
		if p.count <= c.settings.FloodThreshold {
			continue
		}
		display := []rune(p.key)
		if len(display) > 50 {
			display = display[:50]
		}
		res.AddWarning(domain.Finding{
			Kind:     "log-flooding",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Log flooding detected\n  Pattern: %q appears %d times\n  Recommendation: Change log level to INFO or WARN",
				string(display)+"...", p.count),
		})
	}

	if float64(counts["DEBUG"]) > float64(counts["INFO"])*c.settings.DebugInfoFactor {
		res.AddWarning(domain.Finding{
			Kind:     "excessive-debug",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Excessive DEBUG logging detected\n  DEBUG: %d entries\n  INFO: %d entries\n  Recommendation: Set log level to INFO in log4j2.xml",
				counts["DEBUG"], counts["INFO"]),
		})
	}
}

func (c *Checker) checkLevelShare(res *domain.Result, counts map[string]int) {
	total := counts["ERROR"] + counts["WARN"] + counts["INFO"] + counts["DEBUG"]
	if total == 0 {
		return
	}
	if float64(counts["DEBUG"])/float64(total) > c.settings.DebugShareMax {
		res.AddWarning(domain.Finding{
			Kind:     "verbose-log-level",
			Severity: domain.SeverityLow,
			Message:  "Log level may be too verbose\n  Consider setting root logger to INFO level",
		})
	}
}

type keyCount struct {
	key   string
	count int
}

// topCounts returns the n highest counts, ties broken by key so the output
// is deterministic.
func topCounts(counts map[string]int, n int) []keyCount {
	out := make([]keyCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
