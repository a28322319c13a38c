package records

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/reblol/Pulsepanion/internal/model"
)

// LoadXLSX reads records from a worksheet whose first row is the header.
// An empty sheet name selects the first sheet. Cell values are the formatted
// strings Excel would display; blank cells are left out of the row.
func LoadXLSX(r io.Reader, sheet string) (*model.RecordSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, formatErr("open xlsx", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, formatErr("open xlsx", errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, formatErr("read xlsx", fmt.Errorf("sheet %q: %w", sheet, err))
	}

	set := &model.RecordSet{}
	if len(rows) == 0 {
		return set, nil
	}

	header := make([]string, len(rows[0]))
	for j, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", j)
		}
		header[j] = h
	}

	for _, row := range rows[1:] {
		rec := model.Record{}
		for j, h := range header {
			if j >= len(row) {
				break
			}
			if v := strings.TrimSpace(row[j]); v != "" {
				rec[h] = v
			}
		}
		if len(rec) == 0 {
			continue
		}
		set.Append(rec, header)
	}
	// Keep header order even for columns that never hold a value.
	set.Columns = mergeColumns(header, set.Columns)
	return set, nil
}

func mergeColumns(first, rest []string) []string {
	out := append([]string(nil), first...)
	seen := make(map[string]bool, len(first))
	for _, c := range first {
		seen[c] = true
	}
	for _, c := range rest {
		if !seen[c] {
			out = append(out, c)
			seen[c] = true
		}
	}
	return out
}
