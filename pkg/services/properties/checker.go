// Package properties validates project configuration: every ${...}
// placeholder must resolve to a declared property, duplicate and unused
// declarations are reported, and the application descriptor is checked for
// its mandatory fields.
package properties

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

const artifactFileName = "mule-artifact.json"

var versionPrefixRe = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// requiredArtifactFields maps each mandatory descriptor field to its
// human-readable description.
var requiredArtifactFields = []struct {
	field       string
	description string
}{
	{"minMuleVersion", "Minimum Mule runtime version"},
	{"name", "Application name"},
}

const CheckerName = "config"

type Checker struct {
	logger zerolog.Logger
}

func New(cfg settings.Config, logger zerolog.Logger) (*Checker, error) {
	return &Checker{logger: logger.With().Str("checker", CheckerName).Logger()}, nil
}

func (c *Checker) Name() string { return CheckerName }

func (c *Checker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	res := domain.NewResult(c.Name())

	defined, duplicates := c.collectProperties(target.ProjectPath, res)
	refs := c.collectPlaceholders(target.ProjectPath, res)
	res.AddWarnings(duplicates)

	referenced := map[string][]domain.PlaceholderRef{}
	for _, ref := range refs {
		referenced[ref.Name] = append(referenced[ref.Name], ref)
	}

	c.checkMissing(res, defined, referenced)
	c.checkArtifact(res, target.ProjectPath)
	c.checkUnused(res, defined, referenced)

	res.Stats["properties_found"] = len(defined)
	res.Stats["placeholders_found"] = len(referenced)

	c.logger.Debug().
		Int("properties", len(defined)).
		Int("placeholders", len(referenced)).
		Int("errors", len(res.Errors)).
		Msg("config validation finished")
	return res, nil
}

// collectProperties indexes property definitions by key. The first
// definition wins; later occurrences become duplicate warnings.
func (c *Checker) collectProperties(root string, res *domain.Result) (map[string]domain.Property, []domain.Finding) {
	files, skipped := scan.Walk(root, scan.Filter{Extensions: []string{".properties"}})
	res.AddWarnings(skipped)

	defined := map[string]domain.Property{}
	var duplicates []domain.Finding
	for _, file := range files {
		for _, prop := range ExtractProperties(file) {
			first, exists := defined[prop.Key]
			if exists {
				duplicates = append(duplicates, domain.Finding{
					Kind:     "duplicate-property",
					Severity: domain.SeverityMedium,
					File:     prop.File,
					Line:     prop.Line,
					Message: fmt.Sprintf("Duplicate property '%s' found in:\n  - %s\n  - %s",
						prop.Key, first.File, prop.File),
				})
				continue
			}
			defined[prop.Key] = prop
		}
	}
	return defined, duplicates
}

func (c *Checker) collectPlaceholders(root string, res *domain.Result) []domain.PlaceholderRef {
	files, skipped := scan.Walk(root, scan.Filter{Extensions: []string{".xml"}})
	res.AddWarnings(skipped)

	var refs []domain.PlaceholderRef
	for _, file := range files {
		refs = append(refs, ExtractPlaceholders(file)...)
	}
	return refs
}

// checkMissing blocks the run for every placeholder without a declared
// property, listing all reference locations.
func (c *Checker) checkMissing(res *domain.Result, defined map[string]domain.Property, referenced map[string][]domain.PlaceholderRef) {
	var missing []string
	for name := range referenced {
		if _, ok := defined[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	for _, name := range missing {
		refs := referenced[name]
		locations := make([]string, 0, len(refs))
		for _, ref := range refs {
			locations = append(locations, fmt.Sprintf("  - %s:%d", ref.File, ref.Line))
		}
		res.AddError(domain.Finding{
			Kind:     "missing-property",
			Severity: domain.SeverityHigh,
			File:     refs[0].File,
			Line:     refs[0].Line,
			Message: fmt.Sprintf("Missing property: %s\nReferenced in:\n%s",
				name, strings.Join(locations, "\n")),
		})
	}
}

func (c *Checker) checkUnused(res *domain.Result, defined map[string]domain.Property, referenced map[string][]domain.PlaceholderRef) {
	var unused []string
	for key := range defined {
		if _, ok := referenced[key]; !ok {
			unused = append(unused, key)
		}
	}
	sort.Strings(unused)

	for _, key := range unused {
		res.AddWarning(domain.Finding{
			Kind:     "unused-property",
			Severity: domain.SeverityLow,
			File:     defined[key].File,
			Line:     defined[key].Line,
			Message:  fmt.Sprintf("Unused property: %s\n  Defined in: %s", key, defined[key].File),
		})
	}
}

// checkArtifact validates the application descriptor. A missing file is
// advisory; a present but broken one blocks.
func (c *Checker) checkArtifact(res *domain.Result, root string) {
	path := filepath.Join(root, artifactFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.AddWarning(domain.Finding{
				Kind:     "missing-artifact",
				Severity: domain.SeverityLow,
				Message:  fmt.Sprintf("%s not found (optional for some projects)", artifactFileName),
			})
			return
		}
		res.AddWarning(domain.Finding{
			Kind:     "unreadable-file",
			Severity: domain.SeverityLow,
			File:     path,
			Message:  fmt.Sprintf("could not read %s: %v", path, err),
		})
		return
	}

	var artifact map[string]any
	if err := json.Unmarshal(data, &artifact); err != nil {
		res.AddError(domain.Finding{
			Kind:     "invalid-artifact",
			Severity: domain.SeverityHigh,
			File:     path,
			Message:  fmt.Sprintf("Invalid JSON in %s: %v", artifactFileName, err),
		})
		return
	}

	for _, required := range requiredArtifactFields {
		value, _ := artifact[required.field].(string)
		if value == "" {
			res.AddError(domain.Finding{
				Kind:     "invalid-artifact",
				Severity: domain.SeverityHigh,
				File:     path,
				Message: fmt.Sprintf("Invalid %s:\n  - Missing required field: %s (%s)",
					artifactFileName, required.field, required.description),
			})
		}
	}

	if raw, ok := artifact["minMuleVersion"]; ok {
		version, _ := raw.(string)
		if !versionPrefixRe.MatchString(version) {
			res.AddWarning(domain.Finding{
				Kind:     "artifact-version-format",
				Severity: domain.SeverityLow,
				File:     path,
				Message: fmt.Sprintf("minMuleVersion format may be invalid: %s\n  Expected format: X.Y.Z (e.g. 4.5.0)",
					version),
			})
		}
	}
}
