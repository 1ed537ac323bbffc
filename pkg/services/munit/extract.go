package munit

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
)

var (
	flowRe      = regexp.MustCompile(`(?i)<flow\s+name="([^"]+)"`)
	testRe      = regexp.MustCompile(`(?i)<munit:test\s+name="([^"]+)"`)
	flowRefRe   = regexp.MustCompile(`(?i)flow-ref\s+name="([^"]+)"`)
	munitHintRe = regexp.MustCompile(`(?i)munit`)
)

// IsTestFile reports whether a Mule XML file holds MUnit tests. The path must
// mention either tests or MUnit, and the content must reference the MUnit
// namespace. A test file may still define flows; see isFlowFile.
func IsTestFile(path, content string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	if !strings.Contains(lower, "test") && !strings.Contains(lower, "munit") {
		return false
	}
	return munitHintRe.MatchString(content)
}

// isFlowFile excludes files that live under a test directory. Only paths
// mentioning both tests and MUnit are skipped, so a file named
// "customer-test-flow.xml" at the project root still counts.
func isFlowFile(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	return !(strings.Contains(lower, "test") && strings.Contains(lower, "munit"))
}

// window returns the content slice starting at the match and extending n
// bytes, clamped to the end of the content.
func window(content string, start, n int) string {
	end := start + n
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

// ExtractFlows pulls flow definitions out of a Mule configuration file. Each
// flow is checked for error handling in the trailing window after its
// definition.
func ExtractFlows(f scan.File, flowWindow int) []domain.Flow {
	var flows []domain.Flow
	for _, m := range flowRe.FindAllStringSubmatchIndex(f.Content, -1) {
		body := strings.ToLower(window(f.Content, m[0], flowWindow))
		flows = append(flows, domain.Flow{
			Name: f.Content[m[2]:m[3]],
			File: f.Path,
			Line: scan.LineAt(f.Content, m[0]),
			HasErrorHandling: strings.Contains(body, "error-handler") ||
				strings.Contains(body, "on-error-continue"),
		})
	}
	return flows
}

// ExtractTests pulls MUnit test definitions out of a test suite file. The
// trailing window after each test is inspected for mocks, assertions and the
// first flow-ref, which names the flow under test.
func ExtractTests(f scan.File, testWindow int) []domain.MUnitTest {
	var tests []domain.MUnitTest
	for _, m := range testRe.FindAllStringSubmatchIndex(f.Content, -1) {
		body := window(f.Content, m[0], testWindow)
		lower := strings.ToLower(body)

		test := domain.MUnitTest{
			Name:          f.Content[m[2]:m[3]],
			File:          f.Path,
			Line:          scan.LineAt(f.Content, m[0]),
			HasMocks:      strings.Contains(lower, "mock"),
			HasAssertions: strings.Contains(lower, "assert"),
		}
		if ref := flowRefRe.FindStringSubmatch(body); ref != nil {
			test.FlowRef = ref[1]
		}
		tests = append(tests, test)
	}
	return tests
}
