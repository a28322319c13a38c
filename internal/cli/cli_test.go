package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reblol/Pulsepanion/internal/model"
)

func TestRender(t *testing.T) {
	s := &model.Summary{Text: "Calm week.", MatchedRows: 6, SampledRows: 6}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", s, s.Text))
	assert.Equal(t, "Calm week.\n", buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, "json", s, s.Text))
	assert.Contains(t, buf.String(), `"summary": "Calm week."`)
	assert.Contains(t, buf.String(), `"matched_rows": 6`)

	buf.Reset()
	require.NoError(t, render(&buf, "yaml", s, s.Text))
	assert.Contains(t, buf.String(), "summary: Calm week.")
	assert.Contains(t, buf.String(), "sampled_rows: 6")

	assert.Error(t, render(&buf, "xml", s, s.Text))
}

func TestRunsTable(t *testing.T) {
	assert.Equal(t, "no runs", runsTable(nil))

	runs := []model.Run{
		{ID: "01A", CreatedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC), Status: model.RunOK,
			StartDate: "2024-01-05", EndDate: "2024-01-10", MatchedRows: 6, SampledRows: 6, DurationMS: 12},
		{ID: "01B", CreatedAt: time.Date(2024, 2, 1, 9, 31, 0, 0, time.UTC), Status: model.RunError,
			StartDate: "2024-01-05", EndDate: "2024-01-10", Error: "openai error 429: quota"},
	}
	lines := strings.Split(runsTable(runs), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "01A  2024-02-01 09:30:00  ok"))
	assert.Contains(t, lines[0], "matched=6 sampled=6")
	assert.Contains(t, lines[1], `error="openai error 429: quota"`)
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"summarize"}, {"preview"}, {"redact"}, {"serve"},
		{"runs", "list"}, {"runs", "stats"}, {"runs", "export"},
	} {
		cmd, _, err := RootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	sum, _, _ := RootCmd.Find([]string{"summarize"})
	for _, flag := range []string{"input", "source-type", "sheet", "table", "dsn", "date-field", "start", "end"} {
		assert.NotNil(t, sum.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, model.DefaultDateField, sum.Flags().Lookup("date-field").DefValue)
}

func TestFormatOr(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "redact", Run: func(*cobra.Command, []string) {}}
		cmd.Flags().StringP("format", "f", "text", "")
		return cmd
	}

	cmd := newCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	assert.Equal(t, "json", formatOr(cmd, "json"), "unset flag falls back")

	cmd = newCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--format", "text"}))
	assert.Equal(t, "text", formatOr(cmd, "json"))

	cmd = newCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-f", "yaml"}))
	assert.Equal(t, "yaml", formatOr(cmd, "json"))
}

func TestRedactDefaultsToJSON(t *testing.T) {
	cmd, _, err := RootCmd.Find([]string{"redact"})
	require.NoError(t, err)
	assert.Equal(t, "json", formatOr(cmd, "json"))
}
