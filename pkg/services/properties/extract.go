package properties

import (
	"regexp"
	"strings"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
)

var placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExtractProperties reads key=value definitions line by line. Comment lines
// and blank keys are skipped; values are irrelevant to the analysis.
func ExtractProperties(file scan.File) []domain.Property {
	var props []domain.Property
	for i, line := range strings.Split(file.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
		if key == "" {
			continue
		}
		props = append(props, domain.Property{
			Key:  key,
			File: file.Path,
			Line: i + 1,
		})
	}
	return props
}

// ExtractPlaceholders finds every ${...} reference in the file, one record
// per occurrence.
func ExtractPlaceholders(file scan.File) []domain.PlaceholderRef {
	var refs []domain.PlaceholderRef
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(file.Content, -1) {
		refs = append(refs, domain.PlaceholderRef{
			Name: file.Content[m[2]:m[3]],
			File: file.Path,
			Line: scan.LineAt(file.Content, m[0]),
		})
	}
	return refs
}
