package adapters

import (
	"github.com/mule-tools/mule-atlas/pkg/models/api"
	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) string {
	return s.String()
}

// MapResultDomainToApi converts a checker result into the uniform JSON
// report. Counters for errors and warnings are derived here so the stats
// object always reflects the final lists.
func MapResultDomainToApi(r *domain.Result) api.Report {
	report := api.Report{
		Valid:    r.Valid(),
		Errors:   make([]string, 0, len(r.Errors)),
		Warnings: make([]string, 0, len(r.Warnings)),
		Stats:    map[string]any{},
	}
	for _, f := range r.Errors {
		report.Errors = append(report.Errors, f.Message)
	}
	for _, f := range r.Warnings {
		report.Warnings = append(report.Warnings, f.Message)
	}
	for k, v := range r.Stats {
		report.Stats[k] = v
	}
	report.Stats["errors_count"] = len(r.Errors)
	report.Stats["warnings_count"] = len(r.Warnings)
	return report
}

// MapResultDomainToSecurityApi converts a security scan result into the
// scanner's divergent JSON shape, preserving discovery order.
func MapResultDomainToSecurityApi(r *domain.Result) api.SecurityReport {
	report := api.SecurityReport{
		Issues: make([]api.SecurityIssue, 0, len(r.Findings)),
	}
	for _, f := range r.Findings {
		report.Issues = append(report.Issues, api.SecurityIssue{
			File:     f.File,
			Line:     f.Line,
			Type:     f.Kind,
			Severity: MapSeverityDomainToApi(f.Severity),
			Message:  f.Message,
		})
		switch f.Severity {
		case domain.SeverityCritical:
			report.Summary.Critical++
		case domain.SeverityHigh:
			report.Summary.High++
		case domain.SeverityMedium:
			report.Summary.Medium++
		case domain.SeverityLow:
			report.Summary.Low++
		}
	}
	report.Summary.Total = len(r.Findings)
	return report
}
