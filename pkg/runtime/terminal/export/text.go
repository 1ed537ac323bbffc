// Package export renders checker results for the terminal in text, JSON and
// SARIF form.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

const textTemplate = `{{if .Errors}}
Issues Found:

{{range .Errors}}  {{.}}

{{end}}{{end}}{{if and .Warnings .Verbose}}
Warnings:

{{range .Warnings}}  {{.}}

{{end}}{{end}}{{if .Hidden}}
{{.Hidden}} warning(s) found (use --verbose to see them)
{{end}}
{{.Checker}} results:
{{range .Stats}}  {{.Key}}: {{.Value}}
{{end}}
{{if .Valid}}PASS{{else}}FAIL: {{len .Errors}} issue(s) found{{end}}
`

type statRow struct {
	Key   string
	Value any
}

type textView struct {
	Checker  string
	Errors   []string
	Warnings []string
	Hidden   int
	Stats    []statRow
	Valid    bool
	Verbose  bool
}

// TextReporter prints a checker result in its interactive text form. Blocking
// findings are always shown; advisory ones only with verbose.
type TextReporter struct {
	writer  io.Writer
	verbose bool
}

func NewTextReporter(writer io.Writer, verbose bool) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{writer: writer, verbose: verbose}
}

func (r *TextReporter) Handle(res *domain.Result) error {
	view := textView{
		Checker: res.Checker,
		Valid:   res.Valid(),
		Verbose: r.verbose,
	}
	for _, f := range res.Errors {
		view.Errors = append(view.Errors, f.Message)
	}
	for _, f := range res.Warnings {
		view.Warnings = append(view.Warnings, f.Message)
	}
	if !r.verbose {
		view.Hidden = len(res.Warnings)
	}

	keys := make([]string, 0, len(res.Stats))
	for k := range res.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		view.Stats = append(view.Stats, statRow{Key: k, Value: res.Stats[k]})
	}

	t, err := template.New("report").Parse(textTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, view)
}
