package records

import (
	"errors"
	"fmt"

	"github.com/reblol/Pulsepanion/internal/model"
)

// Filter returns the rows whose date field lies within w, inclusive at both
// ends, in input order. Every row's date is parsed first, so one bad value
// fails the call even outside the window. Undated rows are dropped. Matched
// rows carry the parsed time in place of the raw value.
func Filter(set *model.RecordSet, w model.Window, dateField string) (*model.RecordSet, error) {
	if dateField == "" {
		dateField = model.DefaultDateField
	}
	out := &model.RecordSet{}
	if set.Len() == 0 {
		return out, nil
	}
	out.Columns = set.Columns
	if !set.HasColumn(dateField) {
		return nil, formatErr("filter", fmt.Errorf("date field %q not found", dateField))
	}

	for i, r := range set.Rows {
		v, ok := r.Get(dateField)
		if !ok {
			continue
		}
		t, err := ParseDate(v)
		if errors.Is(err, ErrNoDate) {
			continue
		}
		if err != nil {
			return nil, rowErr("parse date", i, err)
		}
		if !w.Contains(t) {
			continue
		}
		row := r.Clone()
		row[dateField] = t
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
