package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/mule-tools/mule-atlas/pkg/adapters"
	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

const securityTextTemplate = `{{if not .Total}}
No security issues found!
{{else}}
Security Scan Results:
  Critical: {{.Summary.Critical}}
  High: {{.Summary.High}}
  Medium: {{.Summary.Medium}}
  Low: {{.Summary.Low}}
{{if .Critical}}
CRITICAL Issues:

{{range .Critical}}  {{.Severity}}: {{.Type}}
    File: {{.File}}:{{.Line}}
    {{.Message}}

{{end}}{{end}}{{if .High}}
HIGH Severity Issues:

{{range .High}}  {{.Severity}}: {{.Type}}
    File: {{.File}}:{{.Line}}
    {{.Message}}

{{end}}{{end}}{{if and .Medium .Verbose}}
MEDIUM Severity Issues:

{{range .Medium}}  {{.Severity}}: {{.Type}}
    File: {{.File}}:{{.Line}}
    {{.Message}}

{{end}}{{end}}{{if and .Low .Verbose}}
LOW Severity Issues:

{{range .Low}}  {{.Severity}}: {{.Type}}
    File: {{.File}}:{{.Line}}
    {{.Message}}

{{end}}{{end}}{{end}}`

type issueRow struct {
	Severity string
	Type     string
	File     string
	Line     int
	Message  string
}

type securityView struct {
	Total    int
	Summary  struct{ Critical, High, Medium, Low int }
	Critical []issueRow
	High     []issueRow
	Medium   []issueRow
	Low      []issueRow
	Verbose  bool
}

// SecurityTextReporter prints scan findings grouped by severity. Critical and
// high findings are always printed; medium and low only with verbose.
type SecurityTextReporter struct {
	writer  io.Writer
	verbose bool
}

func NewSecurityTextReporter(writer io.Writer, verbose bool) *SecurityTextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &SecurityTextReporter{writer: writer, verbose: verbose}
}

func (r *SecurityTextReporter) Handle(res *domain.Result) error {
	view := securityView{Total: len(res.Findings), Verbose: r.verbose}
	for _, f := range res.Findings {
		row := issueRow{
			Severity: f.Severity.String(),
			Type:     f.Kind,
			File:     f.File,
			Line:     f.Line,
			Message:  f.Message,
		}
		switch f.Severity {
		case domain.SeverityCritical:
			view.Critical = append(view.Critical, row)
			view.Summary.Critical++
		case domain.SeverityHigh:
			view.High = append(view.High, row)
			view.Summary.High++
		case domain.SeverityMedium:
			view.Medium = append(view.Medium, row)
			view.Summary.Medium++
		case domain.SeverityLow:
			view.Low = append(view.Low, row)
			view.Summary.Low++
		}
	}

	t, err := template.New("security").Parse(securityTextTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, view)
}

// SecurityJSONReporter emits the scanner's issue-list report shape.
type SecurityJSONReporter struct {
	writer io.Writer
}

func NewSecurityJSONReporter(writer io.Writer) *SecurityJSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &SecurityJSONReporter{writer: writer}
}

func (r *SecurityJSONReporter) Handle(res *domain.Result) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapResultDomainToSecurityApi(res))
}
