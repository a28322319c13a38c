package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/reblol/Pulsepanion/internal/model"
)

// ParseJSON reads records from either an array of objects or the
// column-oriented form {"col": {"0": v, "1": v}} (or {"col": [v, v]}).
// Row and column order follow the input; numbers are kept as json.Number.
func ParseJSON(r io.Reader) (*model.RecordSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, formatErr("parse json", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, formatErr("parse json", fmt.Errorf("expected array or object, got %v", tok))
	}

	var set *model.RecordSet
	switch delim {
	case '[':
		set, err = decodeRows(dec)
	case '{':
		set, err = decodeColumns(dec)
	default:
		err = formatErr("parse json", fmt.Errorf("unexpected %v", delim))
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, formatErr("parse json", errors.New("unexpected data after records"))
	}
	return set, nil
}

func decodeRows(dec *json.Decoder) (*model.RecordSet, error) {
	set := &model.RecordSet{}
	for i := 0; dec.More(); i++ {
		tok, err := dec.Token()
		if err != nil {
			return nil, rowErr("parse json", i, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, rowErr("parse json", i, fmt.Errorf("expected object, got %v", tok))
		}
		rec, keys, err := readObject(dec)
		if err != nil {
			return nil, rowErr("parse json", i, err)
		}
		set.Append(rec, keys)
	}
	if _, err := dec.Token(); err != nil {
		return nil, formatErr("parse json", err)
	}
	return set, nil
}

// readObject reads the members of an object whose '{' was already consumed.
func readObject(dec *json.Decoder) (model.Record, []string, error) {
	rec := model.Record{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected field name, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return rec, keys, nil
}

func decodeColumns(dec *json.Decoder) (*model.RecordSet, error) {
	var columns []string
	var index []string
	byIndex := map[string]model.Record{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, formatErr("parse json", err)
		}
		col, ok := tok.(string)
		if !ok {
			return nil, formatErr("parse json", fmt.Errorf("expected column name, got %v", tok))
		}
		columns = append(columns, col)

		tok, err = dec.Token()
		if err != nil {
			return nil, formatErr("parse json", err)
		}
		d, ok := tok.(json.Delim)
		if !ok {
			return nil, formatErr("parse json", fmt.Errorf("column %q: expected object or array", col))
		}

		put := func(idx string, v any) {
			rec, seen := byIndex[idx]
			if !seen {
				rec = model.Record{}
				byIndex[idx] = rec
				index = append(index, idx)
			}
			rec[col] = v
		}

		switch d {
		case '{':
			values, idxs, err := readObject(dec)
			if err != nil {
				return nil, formatErr("parse json", fmt.Errorf("column %q: %w", col, err))
			}
			for _, idx := range idxs {
				put(idx, values[idx])
			}
		case '[':
			for i := 0; dec.More(); i++ {
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, formatErr("parse json", fmt.Errorf("column %q: %w", col, err))
				}
				put(strconv.Itoa(i), v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, formatErr("parse json", err)
			}
		default:
			return nil, formatErr("parse json", fmt.Errorf("column %q: unexpected %v", col, d))
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, formatErr("parse json", err)
	}

	sortIndex(index)
	set := &model.RecordSet{}
	for _, idx := range index {
		set.Append(byIndex[idx], columns)
	}
	return set, nil
}

// sortIndex orders row labels numerically when all of them are integers and
// leaves first-appearance order otherwise.
func sortIndex(index []string) {
	nums := make(map[string]int, len(index))
	for _, idx := range index {
		n, err := strconv.Atoi(idx)
		if err != nil {
			return
		}
		nums[idx] = n
	}
	sort.SliceStable(index, func(i, j int) bool { return nums[index[i]] < nums[index[j]] })
}
