package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/reblol/Pulsepanion/internal/model"
)

// ErrNoDate is returned by ParseDate for null or blank values. Filter treats
// such rows as undated and excludes them.
var ErrNoDate = errors.New("no date value")

// Layouts tried after the cast formats. Slash forms are US month-first.
var extraLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"20060102",
	"20060102T150405",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2 January 2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"Monday, January 2, 2006",
	"01-02-06",
	"1/2/06",
	"1/2/06 15:04",
}

// ParseDate converts a record value or a boundary string to a time.
// Strings accept ISO-8601 and common textual forms. Numbers are Unix epoch
// milliseconds. Zone-less values are taken as UTC.
func ParseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, ErrNoDate
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, ErrNoDate
		}
		return *x, nil
	case string:
		return parseDateString(x)
	case []byte:
		return parseDateString(string(x))
	case json.Number:
		if ms, err := x.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid numeric date %q", x.String())
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	case int:
		return time.UnixMilli(int64(x)).UTC(), nil
	case float64:
		return time.UnixMilli(int64(x)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nat") || strings.EqualFold(s, "null") {
		return time.Time{}, ErrNoDate
	}
	if t, err := cast.StringToDate(s); err == nil {
		return t, nil
	}
	for _, layout := range extraLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// ParseWindow parses both boundaries into an inclusive window. A start after
// the end is accepted and matches nothing.
func ParseWindow(start, end string) (model.Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return model.Window{}, formatErr("parse start date", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return model.Window{}, formatErr("parse end date", err)
	}
	return model.Window{Start: s, End: e, StartRaw: start, EndRaw: end}, nil
}
