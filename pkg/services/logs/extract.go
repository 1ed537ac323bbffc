package logs

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

// Log lines follow the TIMESTAMP LEVEL [THREAD] LOGGER - MESSAGE layout,
// e.g. "2024-01-15 10:30:45.123 INFO [http-listener-1] org.mule.core - ...".
// Every field is optional; extraction is best-effort per line.
var (
	tsMillisRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}`)
	tsPlainRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	levelRe    = regexp.MustCompile(`\b(ERROR|WARN|INFO|DEBUG|TRACE)\b`)
	threadRe   = regexp.MustCompile(`\[([^\]]+)\]`)
	loggerRe   = regexp.MustCompile(`(\S+\.\S+) -`)

	// Correlation ID candidates, in priority order.
	corrAssignRe = regexp.MustCompile(`(?i)correlationId[=:]\s*([a-f0-9-]+)`)
	corrUUIDRe   = regexp.MustCompile(`(?i)\[([a-f0-9-]{36})\]`)
	corrDashRe   = regexp.MustCompile(`(?i)correlation-id[=:]\s*([a-f0-9-]+)`)
)

const (
	layoutMillis = "2006-01-02 15:04:05.000"
	layoutPlain  = "2006-01-02 15:04:05"
)

// ParseLine extracts what it can from a single log line. A line with no
// recognizable fields still yields a minimal entry so totals stay accurate.
func ParseLine(line string, lineNum int) domain.LogEntry {
	entry := domain.LogEntry{
		LineNum: lineNum,
		Message: line,
	}

	if m := tsMillisRe.FindString(line); m != "" {
		if ts, err := time.Parse(layoutMillis, m); err == nil {
			entry.Timestamp = ts
			entry.HasTimestamp = true
		}
	} else if m := tsPlainRe.FindString(line); m != "" {
		if ts, err := time.Parse(layoutPlain, m); err == nil {
			entry.Timestamp = ts
			entry.HasTimestamp = true
		}
	}

	if m := levelRe.FindStringSubmatch(line); m != nil {
		entry.Level = m[1]
	}

	for _, re := range []*regexp.Regexp{corrAssignRe, corrUUIDRe, corrDashRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			entry.CorrelationID = m[1]
			break
		}
	}

	if m := threadRe.FindStringSubmatch(line); m != nil {
		entry.Thread = m[1]
	}
	if m := loggerRe.FindStringSubmatch(line); m != nil {
		entry.Logger = m[1]
	}

	return entry
}

// IsUUID reports whether a correlation ID is a well-formed UUID, as opposed
// to merely UUID-shaped.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
