package domain

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a case-insensitive severity name to its ordered value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", s)
	}
}

// Finding is a single reported issue, located in a scanned artifact.
type Finding struct {
	Kind     string
	Severity Severity
	Message  string
	File     string
	Line     int
}

// Target describes what a checker operates on: a project root for the
// project-tree checkers, or an explicit file list for the log analyzer.
type Target struct {
	ProjectPath string
	LogFiles    []string
}

type Stats map[string]any

// Result accumulates the outcome of a single checker run. Errors block a
// successful run; warnings are advisory and never affect the outcome.
type Result struct {
	Checker  string
	Errors   []Finding
	Warnings []Finding

	// Findings holds every finding in discovery order. It is populated by
	// severity-driven checkers (the security scanner) whose report format
	// needs the original ordering across both lists.
	Findings []Finding

	Stats Stats
}

func NewResult(checker string) *Result {
	return &Result{
		Checker: checker,
		Stats:   Stats{},
	}
}

func (r *Result) AddError(f Finding) {
	r.Errors = append(r.Errors, f)
}

func (r *Result) AddWarning(f Finding) {
	r.Warnings = append(r.Warnings, f)
}

func (r *Result) AddWarnings(fs []Finding) {
	r.Warnings = append(r.Warnings, fs...)
}

// AddFinding records f in discovery order and routes it to the blocking or
// advisory list based on its severity. HIGH and above block.
func (r *Result) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Severity >= SeverityHigh {
		r.Errors = append(r.Errors, f)
	} else {
		r.Warnings = append(r.Warnings, f)
	}
}

// Valid reports whether the run produced no blocking findings. It must agree
// with the emptiness of the error list at all times.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// FindingsAtOrAbove returns every finding whose severity is at least min,
// preserving discovery order. Used for exit-code overrides such as the
// security scanner's --fail-on flag; it never reclassifies the findings
// themselves.
func (r *Result) FindingsAtOrAbove(min Severity) []Finding {
	var out []Finding
	all := r.Findings
	if all == nil {
		all = append(append([]Finding{}, r.Errors...), r.Warnings...)
	}
	for _, f := range all {
		if f.Severity >= min {
			out = append(out, f)
		}
	}
	return out
}
