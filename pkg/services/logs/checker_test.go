package logs

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
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
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

const corrID = "a1b2c3d4-e5f6-7890-abcd-ef1234567890"

func infoLine(msg string) string {
	return fmt.Sprintf("2024-01-15 10:30:45.123 INFO [http-listener-1] org.mule.core - %s", msg)
}

func infoLineWithID(msg string) string {
	return fmt.Sprintf("2024-01-15 10:30:45.123 INFO [%s] org.mule.core - %s", corrID, msg)
}

func TestParseLine(t *testing.T) {
	t.Run("full line", func(t *testing.T) {
		entry := ParseLine("2024-01-15 10:30:45.123 INFO [http-listener-1] org.mule.core.Flow - processing order", 1)

		assert.True(t, entry.HasTimestamp)
		assert.Equal(t, "INFO", entry.Level)
		assert.Equal(t, "http-listener-1", entry.Thread)
		assert.Equal(t, "org.mule.core.Flow", entry.Logger)
		assert.Empty(t, entry.CorrelationID)
	})

	t.Run("timestamp without millis", func(t *testing.T) {
		entry := ParseLine("2024-01-15 10:30:45 WARN something happened", 2)
		assert.True(t, entry.HasTimestamp)
		assert.Equal(t, "WARN", entry.Level)
	})

	t.Run("correlation id by assignment", func(t *testing.T) {
		entry := ParseLine("INFO correlationId=abc123 done", 1)
		assert.Equal(t, "abc123", entry.CorrelationID)
	})

	t.Run("correlation id by bracketed uuid", func(t *testing.T) {
		entry := ParseLine(fmt.Sprintf("INFO [%s] done", corrID), 1)
		assert.Equal(t, corrID, entry.CorrelationID)
	})

	t.Run("unstructured line still counts", func(t *testing.T) {
		entry := ParseLine("plain text without structure", 7)
		assert.Equal(t, 7, entry.LineNum)
		assert.Empty(t, entry.Level)
		assert.False(t, entry.HasTimestamp)
	})
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(corrID))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaa"))
}

func TestRunCorrelationCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("coverage at exactly the threshold passes", func(t *testing.T) {
		var lines []string
		for i := 0; i < 8; i++ {
			lines = append(lines, infoLineWithID(fmt.Sprintf("request %d", i)))
		}
		for i := 0; i < 2; i++ {
			lines = append(lines, infoLine(fmt.Sprintf("request %d", i)))
		}
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Warnings, "low-correlation-coverage"))
		assert.Equal(t, 80.0, res.Stats["correlation_coverage"])
	})

	t.Run("coverage below the threshold warns", func(t *testing.T) {
		path := writeLog(t, []string{
			infoLineWithID("request 1"),
			infoLine("request 2"),
			infoLine("request 3"),
			infoLine("request 4"),
		})

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		warnings := findingsOfKind(res.Warnings, "low-correlation-coverage")
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Message, "25.0%")
		assert.Equal(t, 1, res.Stats["correlation_ids"])
		assert.Equal(t, 1, res.Stats["correlation_ids_uuid"])
	})
}

func TestRunErrorRate(t *testing.T) {
	ctx := context.Background()

	t.Run("rate above the threshold blocks with categories", func(t *testing.T) {
		var lines []string
		for i := 0; i < 90; i++ {
			lines = append(lines, infoLine(fmt.Sprintf("ok %d", i)))
		}
		for i := 0; i < 10; i++ {
			lines = append(lines, "2024-01-15 10:30:45.123 ERROR [worker-1] org.mule.core - HTTP:NOT_FOUND while calling backend")
		}
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		errors := findingsOfKind(res.Errors, "high-error-rate")
		require.Len(t, errors, 1)
		assert.Contains(t, errors[0].Message, "10.0%")
		assert.Contains(t, errors[0].Message, "HTTP (10)")
		assert.False(t, res.Valid())
	})

	t.Run("rate at exactly the threshold is a statistic", func(t *testing.T) {
		var lines []string
		for i := 0; i < 95; i++ {
			lines = append(lines, infoLine(fmt.Sprintf("ok %d", i)))
		}
		for i := 0; i < 5; i++ {
			lines = append(lines, "2024-01-15 10:30:45.123 ERROR [worker-1] org.mule.core - TIMEOUT waiting for backend")
		}
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Errors, "high-error-rate"))
		assert.Equal(t, 5.0, res.Stats["error_rate"])
		assert.Equal(t, 5, res.Stats["error_count"])
	})
}

func TestRunFlooding(t *testing.T) {
	ctx := context.Background()

	t.Run("1001 occurrences of one pattern warn once", func(t *testing.T) {
		var lines []string
		for i := 0; i < 1001; i++ {
			lines = append(lines, infoLine(fmt.Sprintf("Processing request %d", i)))
		}
		// Keep overall correlation coverage irrelevant by adding IDs.
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.Len(t, findingsOfKind(res.Warnings, "log-flooding"), 1)
	})

	t.Run("1000 occurrences stay silent", func(t *testing.T) {
		var lines []string
		for i := 0; i < 1000; i++ {
			lines = append(lines, infoLine(fmt.Sprintf("Processing request %d", i)))
		}
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Warnings, "log-flooding"))
	})
}

func TestRunVerbosityChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("debug far above info warns", func(t *testing.T) {
		var lines []string
		for i := 0; i < 8; i++ {
			lines = append(lines, fmt.Sprintf("2024-01-15 10:30:45.123 DEBUG [w] org.mule.core - detail %d", i))
		}
		lines = append(lines, infoLine("one info"))
		path := writeLog(t, lines)

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.NotEmpty(t, findingsOfKind(res.Warnings, "excessive-debug"))
		assert.NotEmpty(t, findingsOfKind(res.Warnings, "verbose-log-level"))
	})

	t.Run("balanced levels stay silent", func(t *testing.T) {
		path := writeLog(t, []string{
			infoLineWithID("a"),
			infoLineWithID("b"),
			"2024-01-15 10:30:45.123 DEBUG [w] org.mule.core - detail",
		})

		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{path}})
		require.NoError(t, err)

		assert.Empty(t, findingsOfKind(res.Warnings, "excessive-debug"))
		assert.Empty(t, findingsOfKind(res.Warnings, "verbose-log-level"))
	})

	t.Run("unreadable file only warns", func(t *testing.T) {
		res, err := newChecker(t).Run(ctx, domain.Target{LogFiles: []string{filepath.Join(t.TempDir(), "missing.log")}})
		require.NoError(t, err)

		assert.True(t, res.Valid())
		assert.Len(t, findingsOfKind(res.Warnings, "unreadable-file"), 1)
	})
}

func TestNormalizePattern(t *testing.T) {
	assert.Equal(t, normalizePattern("Processing request 17"), normalizePattern("Processing request 94210"))
	assert.Contains(t, normalizePattern(fmt.Sprintf("request [%s] done", corrID)), "UUID")
	assert.LessOrEqual(t, len([]rune(normalizePattern(strings.Repeat("x", 500)))), 100)
}
