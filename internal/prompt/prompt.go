// Package prompt turns redacted records into the request sent to the
// text-generation service.
package prompt

import (
	"fmt"

	"github.com/reblol/Pulsepanion/internal/model"
)

// Fixed request parameters.
const (
	SampleLimit  = 20
	Temperature  = 0.7
	MaxTokens    = 300
	SystemPrompt = "You are a helpful assistant generating medical summaries for caregivers."
)

const userTemplate = `
Summarize the following caregiver health data between %s and %s in clear, caregiver-friendly language (6th–8th grade level).
Focus on important trends, anomalies, and suggestions to support caregiving.

Data:
%s
`

// Sample returns at most the first n rows of set, in order.
func Sample(set *model.RecordSet, n int) *model.RecordSet {
	return set.Head(n)
}

// Build embeds a rendered table into the user prompt for the given range.
func Build(start, end, table string) string {
	return fmt.Sprintf(userTemplate, start, end, table)
}

// ForRecords samples set, renders it and builds the user prompt. It returns
// the prompt and the number of rows included.
func ForRecords(set *model.RecordSet, start, end string) (string, int) {
	sample := Sample(set, SampleLimit)
	return Build(start, end, Table(sample)), sample.Len()
}
