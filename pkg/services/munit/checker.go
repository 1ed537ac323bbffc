// Package munit analyzes MUnit test coverage and test quality for a Mule
// project. Flows and tests are matched by name through flow-ref targets.
package munit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

const CheckerName = "munit"

type Checker struct {
	settings settings.MUnit
	logger   zerolog.Logger
}

func New(cfg settings.Config, logger zerolog.Logger) (*Checker, error) {
	return &Checker{
		settings: cfg.MUnit,
		logger:   logger.With().Str("checker", CheckerName).Logger(),
	}, nil
}

func (c *Checker) Name() string { return CheckerName }

func (c *Checker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	res := domain.NewResult(CheckerName)

	files, skipped := scan.Walk(target.ProjectPath, scan.Filter{Extensions: []string{".xml"}})
	res.AddWarnings(skipped)

	// A file can contribute both: tests whenever the path and content look
	// like MUnit, and flows unless the path is squarely a test directory.
	var flows []domain.Flow
	var tests []domain.MUnitTest
	for _, f := range files {
		if IsTestFile(f.Path, f.Content) {
			tests = append(tests, ExtractTests(f, c.settings.TestWindow)...)
		}
		if isFlowFile(f.Path) {
			flows = append(flows, ExtractFlows(f, c.settings.FlowWindow)...)
		}
	}

	c.logger.Debug().
		Int("flows", len(flows)).
		Int("tests", len(tests)).
		Msg("extracted flows and tests")

	covered := coveredFlows(tests)
	c.analyzeCoverage(res, flows, tests, covered)
	c.analyzeQuality(res, flows, tests, covered)
	c.checkStructure(res, tests)

	res.Stats["total_flows"] = len(flows)
	res.Stats["total_tests"] = len(tests)
	res.Stats["covered_flows"] = sortedKeys(covered)
	res.Stats["uncovered_flows"] = uncoveredNames(flows, covered)
	return res, nil
}

// coveredFlows collects the set of flow names referenced by at least one
// test. References to flows that do not exist still count here and only
// surface through the uncovered list.
func coveredFlows(tests []domain.MUnitTest) map[string]bool {
	covered := make(map[string]bool)
	for _, t := range tests {
		if t.FlowRef != "" {
			covered[t.FlowRef] = true
		}
	}
	return covered
}

func uncoveredNames(flows []domain.Flow, covered map[string]bool) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range flows {
		if !covered[f.Name] && !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (c *Checker) analyzeCoverage(res *domain.Result, flows []domain.Flow, tests []domain.MUnitTest, covered map[string]bool) {
	if len(flows) == 0 {
		res.AddWarning(domain.Finding{
			Kind:     "no-flows",
			Severity: domain.SeverityLow,
			Message:  "No flows found in project",
		})
		return
	}
	if len(tests) == 0 {
		res.AddError(domain.Finding{
			Kind:     "no-tests",
			Severity: domain.SeverityHigh,
			Message:  "No MUnit tests found",
		})
		return
	}

	flowNames := make(map[string]bool)
	for _, f := range flows {
		flowNames[f.Name] = true
	}
	coverage := float64(len(covered)) / float64(len(flowNames)) * 100

	switch {
	case coverage < c.settings.CoverageErrorBelow:
		res.AddError(domain.Finding{
			Kind:     "low-coverage",
			Severity: domain.SeverityHigh,
			Message: fmt.Sprintf("Low test coverage: %.1f%%\n  Covered flows: %d\n  Total flows: %d\n  Recommendation: Add tests for uncovered flows",
				coverage, len(covered), len(flowNames)),
		})
	case coverage < c.settings.CoverageWarnBelow:
		uncovered := uncoveredNames(flows, covered)
		res.AddWarning(domain.Finding{
			Kind:     "moderate-coverage",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Test coverage: %.1f%%\n  Uncovered flows: %d\n  Recommendation: Aim for %.0f%%+ coverage",
				coverage, len(uncovered), c.settings.CoverageWarnBelow),
		})
	default:
		res.Stats["coverage_percent"] = coverage
	}
}

func (c *Checker) analyzeQuality(res *domain.Result, flows []domain.Flow, tests []domain.MUnitTest, covered map[string]bool) {
	withoutAssertions := 0
	for _, t := range tests {
		if !t.HasAssertions {
			withoutAssertions++
		}
	}
	if withoutAssertions > 0 {
		res.AddWarning(domain.Finding{
			Kind:     "tests-without-assertions",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Tests without assertions: %d\n  Recommendation: Add assertions to validate test results",
				withoutAssertions),
		})
	}

	testedWithoutHandling := 0
	for _, f := range flows {
		if !f.HasErrorHandling && covered[f.Name] {
			testedWithoutHandling++
		}
	}
	if testedWithoutHandling > 0 {
		res.AddWarning(domain.Finding{
			Kind:     "missing-error-handling",
			Severity: domain.SeverityMedium,
			Message: fmt.Sprintf("Tested flows without error handling: %d\n  Recommendation: Add error handling to flows",
				testedWithoutHandling),
		})
	}
}

func (c *Checker) checkStructure(res *domain.Result, tests []domain.MUnitTest) {
	for _, t := range tests {
		var issues []string
		if !t.HasAssertions {
			issues = append(issues, "missing assertions")
		}
		if !t.HasMocks && t.FlowRef != "" {
			issues = append(issues, "consider adding mocks for external dependencies")
		}
		if len(issues) == 0 {
			continue
		}
		res.AddWarning(domain.Finding{
			Kind:     "test-structure",
			Severity: domain.SeverityLow,
			File:     t.File,
			Line:     t.Line,
			Message: fmt.Sprintf("Test '%s' issues:\n  File: %s:%d\n  %s",
				t.Name, t.File, t.Line, strings.Join(issues, ", ")),
		})
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
