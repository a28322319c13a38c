// Package model defines the core health record and summary types.
package model

import (
	"sort"
	"time"
)

// DefaultDateField is the field used for date filtering when none is given.
const DefaultDateField = "date"

// Record is one row of health data. Fields are dynamic; use Get to check presence.
type Record map[string]any

// Get returns the value stored under field and whether the field is present.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// RecordSet is an ordered sequence of records plus the ordered column names
// (first appearance across rows).
type RecordSet struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// Len returns the number of rows.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// HasColumn reports whether any row carries the field.
func (s *RecordSet) HasColumn(field string) bool {
	for _, c := range s.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// Append adds a row, extending Columns with any field not seen yet. keys gives
// the row's field order; fields missing from keys are appended sorted by name.
func (s *RecordSet) Append(r Record, keys []string) {
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		seen[c] = true
	}
	for _, k := range keys {
		if _, ok := r[k]; ok && !seen[k] {
			s.Columns = append(s.Columns, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range r {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	s.Columns = append(s.Columns, rest...)
	s.Rows = append(s.Rows, r)
}

// Head returns a set holding at most the first n rows. Columns are shared.
func (s *RecordSet) Head(n int) *RecordSet {
	if n < 0 || n > len(s.Rows) {
		n = len(s.Rows)
	}
	return &RecordSet{Columns: s.Columns, Rows: s.Rows[:n]}
}

// Window is an inclusive date interval. StartRaw and EndRaw keep the caller's
// original strings for messages and prompts.
type Window struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	StartRaw string    `json:"start_raw"`
	EndRaw   string    `json:"end_raw"`
}

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
