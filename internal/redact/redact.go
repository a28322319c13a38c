// Package redact masks personally identifying values in health records before
// they leave the machine.
//
// The free-text rule replaces every capitalized word. It over-redacts ordinary
// capitalized words and misses lowercase names, initials and non-Latin
// scripts; it is a heuristic, not a de-identification guarantee.
package redact

import (
	"regexp"

	"github.com/reblol/Pulsepanion/internal/model"
)

// Sentinel replaces every redacted value or token.
const Sentinel = "[REDACTED]"

// PIIFields are replaced wholesale when present.
var PIIFields = []string{"name", "address", "location", "caregiver_name", "email", "phone"}

// FreeTextFields are scanned for capitalized words.
var FreeTextFields = []string{"notes", "observations", "comments"}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// Report counts what was replaced. It never holds the values themselves.
type Report struct {
	PIIValues  int `json:"pii_values"`
	TextTokens int `json:"text_tokens"`
}

// Total is the number of replacements made.
func (r Report) Total() int { return r.PIIValues + r.TextTokens }

// Text replaces each capitalized word in s with the sentinel. The output is
// stable under a second pass.
func Text(s string) string {
	return capitalizedWord.ReplaceAllLiteralString(s, Sentinel)
}

func countTokens(s string) int {
	return len(capitalizedWord.FindAllStringIndex(s, -1))
}

// Records returns a redacted copy of set. Columns are unchanged and the input
// rows are not modified. A PII column is redacted in every row, including rows
// that lacked the field.
func Records(set *model.RecordSet) (*model.RecordSet, Report) {
	var rep Report
	out := &model.RecordSet{Columns: set.Columns, Rows: make([]model.Record, len(set.Rows))}
	for i, r := range set.Rows {
		out.Rows[i] = r.Clone()
	}

	for _, field := range PIIFields {
		if !set.HasColumn(field) {
			continue
		}
		for _, r := range out.Rows {
			r[field] = Sentinel
			rep.PIIValues++
		}
	}

	for _, field := range FreeTextFields {
		if !set.HasColumn(field) {
			continue
		}
		for _, r := range out.Rows {
			s, ok := r[field].(string)
			if !ok {
				continue
			}
			rep.TextTokens += countTokens(s)
			r[field] = Text(s)
		}
	}
	return out, rep
}
