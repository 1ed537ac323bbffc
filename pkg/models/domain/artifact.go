package domain

import "time"

// APISpec is an API description extracted from a RAML or OpenAPI document.
type APISpec struct {
	Name      string // file stem, the index key
	File      string
	Type      string // "RAML" or "OpenAPI"
	Title     string
	Version   string
	BaseURI   string // RAML only
	Resources []string
	Methods   []string
}

// Listener is an inbound HTTP listener extracted from a Mule flow file.
type Listener struct {
	File      string
	Line      int
	ConfigRef string
	Path      string
	Protocol  string
	Methods   []string
}

// Property is a key definition from a .properties file. The first definition
// of a key is authoritative; later definitions are duplicate findings.
type Property struct {
	Key  string
	File string
	Line int
}

// PlaceholderRef is one occurrence of a ${...} reference.
type PlaceholderRef struct {
	Name string
	File string
	Line int
}

// LogEntry is a single parsed log line. Every field except LineNum and
// Message is best-effort and may be absent.
type LogEntry struct {
	LineNum       int
	Message       string
	Timestamp     time.Time
	HasTimestamp  bool
	Level         string
	Thread        string
	Logger        string
	CorrelationID string
}

// Flow is a Mule flow definition.
type Flow struct {
	Name             string
	File             string
	Line             int
	HasErrorHandling bool
}

// MUnitTest is an MUnit test definition together with what a trailing
// content window reveals about its structure.
type MUnitTest struct {
	Name          string
	File          string
	Line          int
	HasMocks      bool
	HasAssertions bool
	FlowRef       string
}
