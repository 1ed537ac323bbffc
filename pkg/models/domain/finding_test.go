package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityMedium < SeverityHigh)
	assert.True(t, SeverityHigh < SeverityCritical)
}

func TestParseSeverity(t *testing.T) {
	t.Run("accepts any case", func(t *testing.T) {
		sev, err := ParseSeverity("critical")
		require.NoError(t, err)
		assert.Equal(t, SeverityCritical, sev)

		sev, err = ParseSeverity(" HIGH ")
		require.NoError(t, err)
		assert.Equal(t, SeverityHigh, sev)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseSeverity("severe")
		assert.Error(t, err)
	})
}

func TestResultAddFinding(t *testing.T) {
	t.Run("routes high and above to errors", func(t *testing.T) {
		res := NewResult("security")
		res.AddFinding(Finding{Kind: "a", Severity: SeverityHigh})
		res.AddFinding(Finding{Kind: "b", Severity: SeverityCritical})
		res.AddFinding(Finding{Kind: "c", Severity: SeverityMedium})
		res.AddFinding(Finding{Kind: "d", Severity: SeverityLow})

		assert.Len(t, res.Errors, 2)
		assert.Len(t, res.Warnings, 2)
		assert.False(t, res.Valid())
	})

	t.Run("preserves discovery order", func(t *testing.T) {
		res := NewResult("security")
		res.AddFinding(Finding{Kind: "first", Severity: SeverityLow})
		res.AddFinding(Finding{Kind: "second", Severity: SeverityCritical})
		res.AddFinding(Finding{Kind: "third", Severity: SeverityMedium})

		require.Len(t, res.Findings, 3)
		assert.Equal(t, "first", res.Findings[0].Kind)
		assert.Equal(t, "second", res.Findings[1].Kind)
		assert.Equal(t, "third", res.Findings[2].Kind)
	})
}

func TestResultValid(t *testing.T) {
	res := NewResult("api")
	assert.True(t, res.Valid())

	res.AddWarning(Finding{Kind: "advisory", Severity: SeverityMedium})
	assert.True(t, res.Valid(), "warnings never affect the outcome")

	res.AddError(Finding{Kind: "blocking", Severity: SeverityHigh})
	assert.False(t, res.Valid())
}

func TestFindingsAtOrAbove(t *testing.T) {
	t.Run("filters the discovery-order list", func(t *testing.T) {
		res := NewResult("security")
		res.AddFinding(Finding{Kind: "low", Severity: SeverityLow})
		res.AddFinding(Finding{Kind: "medium", Severity: SeverityMedium})
		res.AddFinding(Finding{Kind: "critical", Severity: SeverityCritical})

		atMedium := res.FindingsAtOrAbove(SeverityMedium)
		require.Len(t, atMedium, 2)
		assert.Equal(t, "medium", atMedium[0].Kind)
		assert.Equal(t, "critical", atMedium[1].Kind)
	})

	t.Run("falls back to errors and warnings", func(t *testing.T) {
		res := NewResult("api")
		res.AddError(Finding{Kind: "blocking", Severity: SeverityHigh})
		res.AddWarning(Finding{Kind: "advisory", Severity: SeverityLow})

		assert.Len(t, res.FindingsAtOrAbove(SeverityHigh), 1)
		assert.Len(t, res.FindingsAtOrAbove(SeverityLow), 2)
	})
}
