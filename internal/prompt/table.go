package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/reblol/Pulsepanion/internal/model"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	missing        = "NaN"
)

// Table renders set as a fixed-width text table: a header line, then one line
// per row, every column right-aligned to its widest cell and separated by a
// single space. There is no row index.
func Table(set *model.RecordSet) string {
	cols := set.Columns
	if len(cols) == 0 {
		return ""
	}

	cells := make([][]string, len(set.Rows)+1)
	cells[0] = append([]string(nil), cols...)
	widths := make([]int, len(cols))

	for j, c := range cols {
		layout := columnLayout(set, c)
		for i, r := range set.Rows {
			if cells[i+1] == nil {
				cells[i+1] = make([]string, len(cols))
			}
			v, ok := r.Get(c)
			if !ok {
				cells[i+1][j] = missing
				continue
			}
			cells[i+1][j] = formatValue(v, layout)
		}
	}

	for _, line := range cells {
		for j, cell := range line {
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	for i, line := range cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range line {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Repeat(" ", widths[j]-runewidth.StringWidth(cell)))
			b.WriteString(cell)
		}
	}
	return b.String()
}

// columnLayout shows times of day only when some value in the column has one.
func columnLayout(set *model.RecordSet, col string) string {
	for _, r := range set.Rows {
		t, ok := r[col].(time.Time)
		if !ok {
			continue
		}
		if h, m, s := t.Clock(); h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}

func formatValue(v any, layout string) string {
	var s string
	switch x := v.(type) {
	case nil:
		return missing
	case string:
		s = x
	case time.Time:
		s = x.Format(layout)
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			s = "True"
		} else {
			s = "False"
		}
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			s = fmt.Sprint(x)
		} else {
			s = string(b)
		}
	default:
		s = fmt.Sprint(x)
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}
