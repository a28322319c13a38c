package redact

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reblol/Pulsepanion/internal/model"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"John had a Good day", "[REDACTED] had a [REDACTED] day"},
		{"no capitals here", "no capitals here"},
		{"BP high, see Dr Smith.", "BP high, see [REDACTED] [REDACTED]."},
		{"McDonald visited", "McDonald visited"},
		{"mary and J. walked", "mary and J. walked"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	for _, s := range []string{"John had a Good day", "[REDACTED] slept", "Ann met Bob at Noon"} {
		once := Text(s)
		assert.Equal(t, once, Text(once), s)
	}
}

func TestRecords(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	set := &model.RecordSet{
		Columns: []string{"date", "name", "phone", "notes", "comments", "heart_rate"},
		Rows: []model.Record{
			{"date": day, "name": "Ann Lee", "phone": "555-0101", "notes": "John had a Good day", "comments": json.Number("3"), "heart_rate": json.Number("72")},
			{"date": day, "notes": nil, "heart_rate": json.Number("75")},
		},
	}

	out, rep := Records(set)

	require.Len(t, out.Rows, 2)
	assert.Equal(t, set.Columns, out.Columns)
	for _, r := range out.Rows {
		assert.Equal(t, Sentinel, r["name"])
		assert.Equal(t, Sentinel, r["phone"])
		assert.Equal(t, day, r["date"])
	}
	assert.Equal(t, "[REDACTED] had a [REDACTED] day", out.Rows[0]["notes"])
	assert.Equal(t, json.Number("3"), out.Rows[0]["comments"])
	assert.Nil(t, out.Rows[1]["notes"])
	_, ok := out.Rows[1].Get("comments")
	assert.False(t, ok, "free-text redaction must not add fields")
	assert.Equal(t, json.Number("72"), out.Rows[0]["heart_rate"])

	assert.Equal(t, 4, rep.PIIValues)
	assert.Equal(t, 2, rep.TextTokens)
	assert.Equal(t, 6, rep.Total())

	assert.Equal(t, "Ann Lee", set.Rows[0]["name"], "input must not be modified")
	assert.Equal(t, "John had a Good day", set.Rows[0]["notes"])
}

func TestRecords_AllPIIFields(t *testing.T) {
	row := model.Record{
		"date":           "2024-01-05",
		"name":           "Ann Lee",
		"address":        "12 Elm Street",
		"location":       "Springfield",
		"caregiver_name": "Bob Lee",
		"email":          "ann@example.com",
		"phone":          "555-0101",
		"heart_rate":     json.Number("72"),
	}
	set := &model.RecordSet{}
	set.Append(row, []string{"date", "name", "address", "location", "caregiver_name", "email", "phone", "heart_rate"})

	out, rep := Records(set)

	for _, field := range []string{"name", "address", "location", "caregiver_name", "email", "phone"} {
		assert.Equal(t, Sentinel, out.Rows[0][field], field)
	}
	assert.Equal(t, "2024-01-05", out.Rows[0]["date"])
	assert.Equal(t, json.Number("72"), out.Rows[0]["heart_rate"])
	assert.Equal(t, 6, rep.PIIValues)
	assert.ElementsMatch(t, []string{"name", "address", "location", "caregiver_name", "email", "phone"}, PIIFields)
}

func TestRecords_NoSensitiveFields(t *testing.T) {
	set := &model.RecordSet{
		Columns: []string{"date", "Steps"},
		Rows:    []model.Record{{"date": "2024-01-01", "Steps": "Many Steps"}},
	}
	out, rep := Records(set)
	assert.Equal(t, "Many Steps", out.Rows[0]["Steps"])
	assert.Equal(t, 0, rep.Total())
}
