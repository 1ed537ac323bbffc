package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mule-tools/mule-atlas/pkg/adapters"
	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

// JSONReporter emits the uniform machine-readable report. Warnings are always
// included in JSON; verbosity only affects text output.
type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(writer io.Writer) *JSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONReporter{writer: writer}
}

func (r *JSONReporter) Handle(res *domain.Result) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapResultDomainToApi(res))
}
