package api

// Report is the uniform JSON shape shared by the project checkers.
type Report struct {
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Stats    map[string]any `json:"stats"`
}

// SecurityIssue is one entry of the security scanner's JSON report.
type SecurityIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type SecuritySummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// SecurityReport is the security scanner's JSON shape. It diverges from
// Report deliberately and must stay that way for consumers.
type SecurityReport struct {
	Issues  []SecurityIssue `json:"issues"`
	Summary SecuritySummary `json:"summary"`
}

// CheckRequest is the body of a checker run request. ProjectPath targets the
// project-tree checkers; LogFiles targets the log analyzer.
type CheckRequest struct {
	ProjectPath string   `json:"project_path"`
	LogFiles    []string `json:"log_files"`
}

// CheckersResponse lists the registered checker names.
type CheckersResponse struct {
	Checkers []string `json:"checkers"`
}
