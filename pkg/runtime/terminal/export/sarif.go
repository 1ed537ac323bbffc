package export

import (
	"fmt"
	"io"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

// SarifReporter renders security findings as a SARIF 2.1.0 document for code
// scanning integrations.
type SarifReporter struct {
	writer io.Writer
}

func NewSarifReporter(writer io.Writer) *SarifReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &SarifReporter{writer: writer}
}

func (r *SarifReporter) Handle(res *domain.Result) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("mule-atlas", "https://github.com/mule-tools/mule-atlas")
	for _, f := range res.Findings {
		level := toSarifLevel(f.Severity)
		rule := run.AddRule(f.Kind).
			WithDescription(f.Kind).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: level,
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(level).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	report.AddRun(run)

	return report.PrettyWrite(r.writer)
}

func toSarifLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical, domain.SeverityHigh:
		return "error"
	case domain.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
