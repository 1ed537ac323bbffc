package apispec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
)

var (
	ramlTitleRe    = regexp.MustCompile(`(?m)^title:\s*(.+)$`)
	ramlVersionRe  = regexp.MustCompile(`(?m)^version:\s*(.+)$`)
	ramlBaseURIRe  = regexp.MustCompile(`(?m)^baseUri:\s*(.+)$`)
	ramlResourceRe = regexp.MustCompile(`(?m)^\s*/([^\s:]+):`)
	ramlMethodRe   = regexp.MustCompile(`(?mi)^\s+(get|post|put|delete|patch):`)

	listenerRe     = regexp.MustCompile(`(?i)<http:listener\s+([^>]+)>`)
	attrConfigRef  = regexp.MustCompile(`config-ref="([^"]+)"`)
	attrPath       = regexp.MustCompile(`path="([^"]+)"`)
	attrMethods    = regexp.MustCompile(`allowedMethods="([^"]+)"`)
	attrProtocol   = regexp.MustCompile(`protocol="([^"]+)"`)
	httpRequestRe  = regexp.MustCompile(`(?i)<http:request`)
	respTimeoutRe  = regexp.MustCompile(`(?i)responseTimeout="(\d+)"`)
	corsMentionRe  = regexp.MustCompile(`(?i)cors`)
)

var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
}

func specName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseRAML extracts the API description from a line-oriented RAML document.
// RAML is pattern-matched, never fully parsed.
func ParseRAML(file scan.File) domain.APISpec {
	spec := domain.APISpec{
		Name: specName(file.Path),
		File: file.Path,
		Type: "RAML",
	}
	if m := ramlTitleRe.FindStringSubmatch(file.Content); m != nil {
		spec.Title = strings.TrimSpace(m[1])
	}
	if m := ramlVersionRe.FindStringSubmatch(file.Content); m != nil {
		spec.Version = strings.TrimSpace(m[1])
	}
	if m := ramlBaseURIRe.FindStringSubmatch(file.Content); m != nil {
		spec.BaseURI = strings.TrimSpace(m[1])
	}
	for _, m := range ramlResourceRe.FindAllStringSubmatch(file.Content, -1) {
		spec.Resources = append(spec.Resources, m[1])
	}
	for _, m := range ramlMethodRe.FindAllStringSubmatch(file.Content, -1) {
		spec.Methods = append(spec.Methods, strings.ToUpper(m[1]))
	}
	return spec
}

// ParseOpenAPI extracts the API description from an OpenAPI document, JSON
// or YAML. The paths mapping provides the resources; methods are deduplicated
// and restricted to the standard verb set.
func ParseOpenAPI(file scan.File) (domain.APISpec, error) {
	var doc struct {
		Info struct {
			Title   string `json:"title" yaml:"title"`
			Version string `json:"version" yaml:"version"`
		} `json:"info" yaml:"info"`
		Paths map[string]any `json:"paths" yaml:"paths"`
	}

	var err error
	if strings.EqualFold(filepath.Ext(file.Path), ".json") {
		err = json.Unmarshal([]byte(file.Content), &doc)
	} else {
		err = yaml.Unmarshal([]byte(file.Content), &doc)
	}
	if err != nil {
		return domain.APISpec{}, fmt.Errorf("could not parse %s: %w", file.Path, err)
	}

	spec := domain.APISpec{
		Name:    specName(file.Path),
		File:    file.Path,
		Type:    "OpenAPI",
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
	}

	methods := map[string]bool{}
	for path, operations := range doc.Paths {
		spec.Resources = append(spec.Resources, path)
		ops, ok := operations.(map[string]any)
		if !ok {
			continue
		}
		for verb := range ops {
			upper := strings.ToUpper(verb)
			if httpMethods[upper] {
				methods[upper] = true
			}
		}
	}
	sort.Strings(spec.Resources)
	for m := range methods {
		spec.Methods = append(spec.Methods, m)
	}
	sort.Strings(spec.Methods)
	return spec, nil
}

// ExtractListeners finds inbound HTTP listeners in a Mule flow file.
// Protocol defaults to HTTP when the attribute is absent.
func ExtractListeners(file scan.File) []domain.Listener {
	var listeners []domain.Listener
	for _, match := range listenerRe.FindAllStringSubmatchIndex(file.Content, -1) {
		attrs := file.Content[match[2]:match[3]]
		listener := domain.Listener{
			File:     file.Path,
			Line:     scan.LineAt(file.Content, match[0]),
			Protocol: "HTTP",
		}
		if m := attrConfigRef.FindStringSubmatch(attrs); m != nil {
			listener.ConfigRef = m[1]
		}
		if m := attrPath.FindStringSubmatch(attrs); m != nil {
			listener.Path = m[1]
		}
		if m := attrMethods.FindStringSubmatch(attrs); m != nil {
			listener.Methods = strings.Split(m[1], ",")
		}
		if m := attrProtocol.FindStringSubmatch(attrs); m != nil {
			listener.Protocol = m[1]
		}
		listeners = append(listeners, listener)
	}
	return listeners
}
