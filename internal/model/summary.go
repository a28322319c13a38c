package model

import "time"

// Summary is the result of one summarize invocation. Text is owned by the
// caller and never persisted.
type Summary struct {
	Text           string `json:"summary" yaml:"summary"`
	Empty          bool   `json:"empty" yaml:"empty"`
	TotalRows      int    `json:"total_rows" yaml:"total_rows"`
	MatchedRows    int    `json:"matched_rows" yaml:"matched_rows"`
	SampledRows    int    `json:"sampled_rows" yaml:"sampled_rows"`
	RedactedValues int    `json:"redacted_values" yaml:"redacted_values"`
}

// Run statuses recorded in the audit log.
const (
	RunOK      = "ok"
	RunEmpty   = "empty"
	RunError   = "error"
	RunPreview = "preview"
)

// ValidRunStatuses are the allowed run statuses.
var ValidRunStatuses = map[string]bool{
	RunOK:      true,
	RunEmpty:   true,
	RunError:   true,
	RunPreview: true,
}

// Run is one audit log entry. It holds counts and metadata only.
type Run struct {
	ID             string    `json:"id" yaml:"id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	StartDate      string    `json:"start_date" yaml:"start_date"`
	EndDate        string    `json:"end_date" yaml:"end_date"`
	DateField      string    `json:"date_field" yaml:"date_field"`
	Source         string    `json:"source,omitempty" yaml:"source,omitempty"`
	TotalRows      int       `json:"total_rows" yaml:"total_rows"`
	MatchedRows    int       `json:"matched_rows" yaml:"matched_rows"`
	SampledRows    int       `json:"sampled_rows" yaml:"sampled_rows"`
	RedactedValues int       `json:"redacted_values" yaml:"redacted_values"`
	Provider       string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model          string    `json:"model,omitempty" yaml:"model,omitempty"`
	Status         string    `json:"status" yaml:"status"`
	Error          string    `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS     int64     `json:"duration_ms" yaml:"duration_ms"`
}
