// Package apispec validates API contracts: it cross-references RAML/OpenAPI
// specifications against the HTTP listeners implemented in Mule flow files
// and flags insecure or misconfigured listeners along the way.
package apispec

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

const CheckerName = "api"

type Checker struct {
	settings settings.API
	logger   zerolog.Logger
}

func New(cfg settings.Config, logger zerolog.Logger) (*Checker, error) {
	return &Checker{
		settings: cfg.API,
		logger:   logger.With().Str("checker", CheckerName).Logger(),
	}, nil
}

func (c *Checker) Name() string { return CheckerName }

func (c *Checker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	res := domain.NewResult(c.Name())

	specs, specOrder := c.collectSpecs(target.ProjectPath, res)
	xmlFiles, skipped := scan.Walk(target.ProjectPath, scan.Filter{Extensions: []string{".xml"}})
	res.AddWarnings(skipped)

	var listeners []domain.Listener
	for _, file := range xmlFiles {
		listeners = append(listeners, ExtractListeners(file)...)
	}

	c.validateListeners(res, listeners)
	c.validateContracts(res, specs, specOrder, listeners)
	c.checkTimeouts(res, xmlFiles)
	c.checkCORS(res, xmlFiles, listeners)

	res.Stats["api_specs"] = len(specs)
	res.Stats["listeners"] = len(listeners)

	c.logger.Debug().
		Int("specs", len(specs)).
		Int("listeners", len(listeners)).
		Int("errors", len(res.Errors)).
		Msg("api validation finished")
	return res, nil
}

// collectSpecs indexes API specifications by file stem. The first definition
// of a name wins; a second one is reported as a duplicate, not overwritten.
func (c *Checker) collectSpecs(root string, res *domain.Result) (map[string]domain.APISpec, []string) {
	specs := map[string]domain.APISpec{}
	var order []string

	add := func(spec domain.APISpec) {
		if first, exists := specs[spec.Name]; exists {
			res.AddWarning(domain.Finding{
				Kind:     "duplicate-spec",
				Severity: domain.SeverityMedium,
				File:     spec.File,
				Message: fmt.Sprintf("Duplicate API spec name '%s':\n  - keeping %s\n  - ignoring %s",
					spec.Name, first.File, spec.File),
			})
			return
		}
		specs[spec.Name] = spec
		order = append(order, spec.Name)
	}

	ramlFiles, skipped := scan.Walk(root, scan.Filter{Extensions: []string{".raml"}})
	res.AddWarnings(skipped)
	for _, file := range ramlFiles {
		add(ParseRAML(file))
	}

	yamlFiles, skipped := scan.Walk(root, scan.Filter{
		Extensions:   []string{".yaml"},
		NameContains: []string{"api", "openapi"},
	})
	res.AddWarnings(skipped)
	jsonFiles, skipped := scan.Walk(root, scan.Filter{Names: []string{"openapi.json"}})
	res.AddWarnings(skipped)

	for _, file := range append(yamlFiles, jsonFiles...) {
		spec, err := ParseOpenAPI(file)
		if err != nil {
			res.AddWarning(domain.Finding{
				Kind:     "unparseable-spec",
				Severity: domain.SeverityLow,
				File:     file.Path,
				Message:  fmt.Sprintf("Could not parse OpenAPI file %s: %v", file.Path, err),
			})
			continue
		}
		add(spec)
	}

	return specs, order
}

func (c *Checker) validateListeners(res *domain.Result, listeners []domain.Listener) {
	for _, l := range listeners {
		if strings.ToUpper(l.Protocol) == "HTTP" && !strings.Contains(strings.ToLower(l.File), "test") {
			res.AddWarning(domain.Finding{
				Kind:     "insecure-listener",
				Severity: domain.SeverityMedium,
				File:     l.File,
				Line:     l.Line,
				Message: fmt.Sprintf("Insecure HTTP listener (not HTTPS)\n  File: %s:%d\n  Path: %s\n  Recommendation: Use HTTPS or configure TLS",
					l.File, l.Line, l.Path),
			})
		}
		if l.Path == "" {
			res.AddError(domain.Finding{
				Kind:     "listener-missing-path",
				Severity: domain.SeverityHigh,
				File:     l.File,
				Line:     l.Line,
				Message:  fmt.Sprintf("HTTP listener missing path attribute\n  File: %s:%d", l.File, l.Line),
			})
		}
	}
}

// validateContracts compares each spec's normalized resource paths against
// the normalized listener paths. Missing implementations block; extra
// endpoints only warn, and only when the spec declares paths to be extra
// relative to.
func (c *Checker) validateContracts(res *domain.Result, specs map[string]domain.APISpec, order []string, listeners []domain.Listener) {
	if len(specs) == 0 {
		res.AddWarning(domain.Finding{
			Kind:     "no-specs",
			Severity: domain.SeverityLow,
			Message:  "No API specification files (RAML/OpenAPI) found",
		})
		return
	}
	if len(listeners) == 0 {
		res.AddWarning(domain.Finding{
			Kind:     "no-listeners",
			Severity: domain.SeverityLow,
			Message:  "No HTTP listeners found in flows",
		})
		return
	}

	listenerPaths := map[string]bool{}
	for _, l := range listeners {
		if l.Path != "" {
			listenerPaths[NormalizePath(l.Path)] = true
		}
	}

	for _, name := range order {
		spec := specs[name]
		specPaths := map[string]bool{}
		for _, r := range spec.Resources {
			specPaths[NormalizePath(r)] = true
		}

		var missing []string
		for p := range specPaths {
			if !listenerPaths[p] {
				missing = append(missing, p)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			res.AddError(domain.Finding{
				Kind:     "missing-implementation",
				Severity: domain.SeverityHigh,
				File:     spec.File,
				Message: fmt.Sprintf("API contract mismatch: %s\n  Specified in %s but not implemented:\n  %s",
					name, spec.Type, strings.Join(missing, ", ")),
			})
		}

		var extra []string
		for p := range listenerPaths {
			if !specPaths[p] {
				extra = append(extra, p)
			}
		}
		if len(extra) > 0 && len(specPaths) > 0 {
			sort.Strings(extra)
			res.AddWarning(domain.Finding{
				Kind:     "extra-endpoint",
				Severity: domain.SeverityLow,
				File:     spec.File,
				Message: fmt.Sprintf("Extra endpoints not in API spec: %s\n  Implemented but not in %s:\n  %s",
					name, spec.Type, strings.Join(extra, ", ")),
			})
		}
	}
}

func (c *Checker) checkTimeouts(res *domain.Result, xmlFiles []scan.File) {
	for _, file := range xmlFiles {
		if !httpRequestRe.MatchString(file.Content) {
			continue
		}
		m := respTimeoutRe.FindStringSubmatchIndex(file.Content)
		if m == nil {
			continue
		}
		timeoutMS, err := strconv.Atoi(file.Content[m[2]:m[3]])
		if err != nil || timeoutMS <= c.settings.MaxResponseTimeoutMS {
			continue
		}
		line := scan.LineAt(file.Content, m[0])
		res.AddWarning(domain.Finding{
			Kind:     "long-timeout",
			Severity: domain.SeverityLow,
			File:     file.Path,
			Line:     line,
			Message: fmt.Sprintf("Very long HTTP timeout: %dms\n  File: %s:%d\n  Recommendation: Consider shorter timeout with retry strategy",
				timeoutMS, file.Path, line),
		})
	}
}

func (c *Checker) checkCORS(res *domain.Result, xmlFiles []scan.File, listeners []domain.Listener) {
	for _, file := range xmlFiles {
		if corsMentionRe.MatchString(file.Content) {
			return
		}
	}
	if len(listeners) > 0 {
		res.AddWarning(domain.Finding{
			Kind:     "no-cors",
			Severity: domain.SeverityLow,
			Message:  "No CORS configuration found\n  If your API is accessed from browsers, consider adding CORS headers",
		})
	}
}

