package munit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/scan"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

// projectDir avoids t.TempDir because the test name would put "test" into
// every file path and trip the path-based test-file detection.
func projectDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "mule-proj-")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newChecker(t *testing.T) *Checker {
	t.Helper()
	c, err := New(settings.Default(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func findingsOfKind(findings []domain.Finding, kind string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func flowsXML(names ...string) string {
	var b strings.Builder
	b.WriteString("<mule>\n")
	for _, name := range names {
		fmt.Fprintf(&b, `  <flow name=%q>
    <logger message="in %s"/>
    <error-handler>
      <on-error-continue/>
    </error-handler>
  </flow>
`, name, name)
	}
	b.WriteString("</mule>\n")
	return b.String()
}

func munitSuite(refs ...string) string {
	var b strings.Builder
	b.WriteString("<mule xmlns:munit=\"http://www.mulesoft.org/schema/mule/munit\">\n")
	for i, ref := range refs {
		fmt.Fprintf(&b, `  <munit:test name="test-%d">
    <munit:mock-when processor="http:request"/>
    <flow-ref name=%q/>
    <munit:assert-that expression="#[payload]"/>
  </munit:test>
`, i, ref)
	}
	b.WriteString("</mule>\n")
	return b.String()
}

func TestRunCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("one of three flows covered blocks", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", flowsXML("order-flow", "billing-flow", "shipping-flow"))
		writeFile(t, dir, "munit/suite.xml", munitSuite("order-flow"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		low := findingsOfKind(res.Errors, "low-coverage")
		require.Len(t, low, 1)
		assert.Contains(t, low[0].Message, "33.3%")
		assert.False(t, res.Valid())

		assert.Equal(t, []string{"order-flow"}, res.Stats["covered_flows"])
		assert.Equal(t, []string{"billing-flow", "shipping-flow"}, res.Stats["uncovered_flows"])
	})

	t.Run("coverage at exactly fifty percent warns instead of blocking", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", flowsXML("order-flow", "billing-flow"))
		writeFile(t, dir, "munit/suite.xml", munitSuite("order-flow"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Errors, "low-coverage"))
		assert.Len(t, findingsOfKind(res.Warnings, "moderate-coverage"), 1)
		assert.True(t, res.Valid())
	})

	t.Run("coverage at exactly eighty percent is a statistic", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", flowsXML("f1", "f2", "f3", "f4", "f5"))
		writeFile(t, dir, "munit/suite.xml", munitSuite("f1", "f2", "f3", "f4"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Errors, "low-coverage"))
		assert.Empty(t, findingsOfKind(res.Warnings, "moderate-coverage"))
		assert.Equal(t, 80.0, res.Stats["coverage_percent"])
	})

	t.Run("file holding both flows and tests contributes both", func(t *testing.T) {
		dir := projectDir(t)
		content := flowsXML("order-flow", "billing-flow", "shipping-flow") + munitSuite("order-flow")
		writeFile(t, dir, "src/flows-test.xml", content)

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.Equal(t, 3, res.Stats["total_flows"])
		assert.Equal(t, 1, res.Stats["total_tests"])
		assert.Empty(t, findingsOfKind(res.Warnings, "no-flows"))

		low := findingsOfKind(res.Errors, "low-coverage")
		require.Len(t, low, 1)
		assert.Contains(t, low[0].Message, "33.3%")
		assert.False(t, res.Valid())
	})

	t.Run("no flows only warns", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "munit/suite.xml", munitSuite("ghost-flow"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.True(t, res.Valid())
		assert.Len(t, findingsOfKind(res.Warnings, "no-flows"), 1)
	})

	t.Run("flows without any tests block", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", flowsXML("order-flow"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.False(t, res.Valid())
		require.Len(t, findingsOfKind(res.Errors, "no-tests"), 1)
	})
}

func TestRunQuality(t *testing.T) {
	ctx := context.Background()

	t.Run("tests without assertions warn", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", flowsXML("order-flow"))
		writeFile(t, dir, "munit/suite.xml", `<mule xmlns:munit="http://www.mulesoft.org/schema/mule/munit">
  <munit:test name="no-checks">
    <flow-ref name="order-flow"/>
  </munit:test>
</mule>`)

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		agg := findingsOfKind(res.Warnings, "tests-without-assertions")
		require.Len(t, agg, 1)
		assert.Contains(t, agg[0].Message, "1")

		structure := findingsOfKind(res.Warnings, "test-structure")
		require.Len(t, structure, 1)
		assert.Contains(t, structure[0].Message, "missing assertions")
	})

	t.Run("tested flow without error handling warns", func(t *testing.T) {
		dir := projectDir(t)
		writeFile(t, dir, "src/flows.xml", `<mule>
  <flow name="order-flow">
    <logger message="no handler here"/>
  </flow>
</mule>`)
		writeFile(t, dir, "munit/suite.xml", munitSuite("order-flow"))

		res, err := newChecker(t).Run(ctx, domain.Target{ProjectPath: dir})
		require.NoError(t, err)

		assert.Len(t, findingsOfKind(res.Warnings, "missing-error-handling"), 1)
	})
}

func TestExtractFlows(t *testing.T) {
	flows := ExtractFlows(scan.File{Path: "flows.xml", Content: flowsXML("order-flow", "billing-flow")}, 1000)

	require.Len(t, flows, 2)
	assert.Equal(t, "order-flow", flows[0].Name)
	assert.True(t, flows[0].HasErrorHandling)
	assert.Equal(t, 2, flows[0].Line)
}

func TestExtractTests(t *testing.T) {
	tests := ExtractTests(scan.File{Path: "suite.xml", Content: munitSuite("order-flow")}, 2000)

	require.Len(t, tests, 1)
	assert.Equal(t, "test-0", tests[0].Name)
	assert.True(t, tests[0].HasMocks)
	assert.True(t, tests[0].HasAssertions)
	assert.Equal(t, "order-flow", tests[0].FlowRef)
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, IsTestFile("src/test/munit/suite.xml", "<munit:test/>"))
	assert.True(t, IsTestFile("munit/suite.xml", "<munit:test/>"))
	assert.False(t, IsTestFile("src/main/flows.xml", "<munit:test/>"), "path must mention tests or munit")
	assert.False(t, IsTestFile("src/test/suite.xml", "<flow/>"), "content must reference MUnit")
}
