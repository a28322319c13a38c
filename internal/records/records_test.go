package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reblol/Pulsepanion/internal/model"
)

func dailyRecords(n int) string {
	var rows []string
	for i := 1; i <= n; i++ {
		rows = append(rows, fmt.Sprintf(`{"date":"2024-01-%02d","heart_rate":%d,"notes":"Walked with Mary"}`, i, 60+i))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func mustWindow(t *testing.T, start, end string) model.Window {
	t.Helper()
	w, err := ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestParseJSON_Rows(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[
		{"date": "2024-01-01", "name": "Ann", "weight": 61.5},
		{"date": "2024-01-02", "steps": 4000, "name": "Ann"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "name", "weight", "steps"}, set.Columns)
	require.Len(t, set.Rows, 2)
	assert.Equal(t, json.Number("61.5"), set.Rows[0]["weight"])
	_, ok := set.Rows[1].Get("weight")
	assert.False(t, ok)
}

func TestParseJSON_Columns(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`{
		"date": {"1": "2024-01-02", "0": "2024-01-01", "10": "2024-01-11"},
		"mood": {"0": "ok", "1": "tired", "10": "good"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "mood"}, set.Columns)
	require.Len(t, set.Rows, 3)
	assert.Equal(t, "2024-01-01", set.Rows[0]["date"])
	assert.Equal(t, "tired", set.Rows[1]["mood"])
	assert.Equal(t, "good", set.Rows[2]["mood"])
}

func TestParseJSON_ColumnArrays(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`{"date": ["2024-01-01", "2024-01-02"], "bp": ["120/80", "118/79"]}`))
	require.NoError(t, err)
	require.Len(t, set.Rows, 2)
	assert.Equal(t, "118/79", set.Rows[1]["bp"])
}

func TestParseJSON_Empty(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestParseJSON_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `date,notes`},
		{"scalar", `42`},
		{"array of scalars", `[1, 2]`},
		{"truncated", `[{"date": "2024-01-01"`},
		{"trailing", `[] []`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON(strings.NewReader(tt.input))
			var dfe *DataFormatError
			assert.True(t, errors.As(err, &dfe), "expected DataFormatError, got %v", err)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"iso", "2024-01-05"},
		{"rfc3339", "2024-01-05T00:00:00Z"},
		{"us slash", "01/05/2024"},
		{"long month", "January 5, 2024"},
		{"short month", "Jan 5, 2024"},
		{"day month year", "05 Jan 2024"},
		{"epoch millis", json.Number("1704412800000")},
		{"time", want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	_, err := ParseDate("not a date")
	assert.Error(t, err)
	_, err = ParseDate(nil)
	assert.ErrorIs(t, err, ErrNoDate)
	_, err = ParseDate("  ")
	assert.ErrorIs(t, err, ErrNoDate)
	_, err = ParseDate(true)
	assert.Error(t, err)
}

func TestParseDate_ISOAndTextualForms(t *testing.T) {
	midnight := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-05T08:00", morning},
		{"2024-01-05 08:00", morning},
		{"2024-01-05T08:00:00", morning},
		{"2024-01-05 08:00:00", morning},
		{"2024-01-05T09:00+01:00", morning},
		{"20240105", midnight},
		{"20240105T080000", morning},
		{"2024-1-5", midnight},
		{"2024-1-5 08:00", morning},
		{"Jan 5 2024", midnight},
		{"January 5 2024", midnight},
		{"5 Jan 2024", midnight},
		{"5-Jan-2024", midnight},
		{"5-Jan-24", midnight},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestFilter_MinuteResolutionDates(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":"2024-01-05T08:00","hr":70},{"date":"2024-02-05 08:00","hr":71}]`))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-01-01", "2024-01-31"), "")
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, json.Number("70"), out.Rows[0]["hr"])
}

func TestParseWindow_Invalid(t *testing.T) {
	_, err := ParseWindow("yesterday-ish", "2024-01-10")
	var dfe *DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, "parse start date", dfe.Op)

	_, err = ParseWindow("2024-01-01", "")
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, "parse end date", dfe.Op)
}

func TestFilter_Scenario(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(dailyRecords(25)))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-01-05", "2024-01-10"), "")
	require.NoError(t, err)
	require.Len(t, out.Rows, 6)

	first := out.Rows[0]["date"].(time.Time)
	last := out.Rows[5]["date"].(time.Time)
	assert.Equal(t, 5, first.Day())
	assert.Equal(t, 10, last.Day())
	assert.Equal(t, set.Columns, out.Columns)
}

func TestFilter_InclusiveBoundaries(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":"2024-03-01"},{"date":"2024-03-02"},{"date":"2024-03-03"}]`))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-03-01", "2024-03-01"), "date")
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)

	out, err = Filter(set, mustWindow(t, "2024-03-03", "2024-03-03"), "date")
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":"2024-03-01"}]`))
	require.NoError(t, err)

	_, err = Filter(set, mustWindow(t, "2024-01-01", "2024-12-31"), "date")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", set.Rows[0]["date"])
}

func TestFilter_CustomField(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"recorded_on":"2024-03-01","hr":70},{"recorded_on":"2024-04-01","hr":72}]`))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-02-01", "2024-03-15"), "recorded_on")
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, json.Number("70"), out.Rows[0]["hr"])
}

func TestFilter_MissingDateField(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"day":"2024-03-01"}]`))
	require.NoError(t, err)

	_, err = Filter(set, mustWindow(t, "2024-01-01", "2024-12-31"), "date")
	var dfe *DataFormatError
	assert.True(t, errors.As(err, &dfe))
}

func TestFilter_UnparseableDate(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":"2024-03-01"},{"date":"soon"}]`))
	require.NoError(t, err)

	_, err = Filter(set, mustWindow(t, "2024-01-01", "2024-01-31"), "date")
	var dfe *DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 1, dfe.Row)
}

func TestFilter_NullDatesExcluded(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":null},{"date":""},{"date":"2024-03-01"},{"hr":1}]`))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-01-01", "2024-12-31"), "date")
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)
}

func TestFilter_EmptySet(t *testing.T) {
	out, err := Filter(&model.RecordSet{}, mustWindow(t, "2024-01-01", "2024-12-31"), "date")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilter_ReversedWindowMatchesNothing(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(dailyRecords(5)))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-01-04", "2024-01-02"), "date")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilter_EpochMillis(t *testing.T) {
	set, err := ParseJSON(strings.NewReader(`[{"date":1704412800000},{"date":1704844800000}]`))
	require.NoError(t, err)

	out, err := Filter(set, mustWindow(t, "2024-01-05", "2024-01-06"), "date")
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)
}
