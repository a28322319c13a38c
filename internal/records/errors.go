// Package records loads tabular health records and filters them by date.
package records

import "fmt"

// DataFormatError reports input that cannot be read as dated records, or a
// date boundary that cannot be parsed. It is fatal to the call.
type DataFormatError struct {
	Op  string
	Row int // -1 when the error is not tied to a row
	Err error
}

func (e *DataFormatError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: %v", e.Op, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func formatErr(op string, err error) error {
	return &DataFormatError{Op: op, Row: -1, Err: err}
}

func rowErr(op string, row int, err error) error {
	return &DataFormatError{Op: op, Row: row, Err: err}
}
