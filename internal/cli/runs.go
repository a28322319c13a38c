package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reblol/Pulsepanion/internal/audit"
	"github.com/reblol/Pulsepanion/internal/model"
)

func init() {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the audit log of past runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Run:   runRunsList,
	}
	list.Flags().IntP("limit", "l", 20, "Max results")
	list.Flags().String("status", "", "Filter by status: ok, empty, error, preview")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show audit log statistics",
		Run:   runRunsStats,
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Export every run, oldest first",
		Run:   runRunsExport,
	}
	export.Flags().String("status", "", "Filter by status")

	runsCmd.AddCommand(list, stats, export)
	RootCmd.AddCommand(runsCmd)
}

func checkStatus(status string) {
	if status != "" && !model.ValidRunStatuses[status] {
		exitErr("runs", fmt.Errorf("invalid status %q", status))
	}
}

func runRunsList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	checkStatus(status)

	e := setup()
	s := e.openAuditRequired()
	defer s.Close()

	runs, err := s.List(cmd.Context(), audit.ListParams{Status: status, Limit: limit})
	if err != nil {
		exitErr("list runs", err)
	}
	output(runs, runsTable(runs))
}

func runRunsStats(cmd *cobra.Command, args []string) {
	e := setup()
	s := e.openAuditRequired()
	defer s.Close()

	st, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "db: %s (%d bytes)\n", st.DBPath, st.DBSizeBytes)
	fmt.Fprintf(&b, "runs: %d, avg duration %.0fms", st.TotalRuns, st.AvgDuration)
	for _, ss := range st.Statuses {
		fmt.Fprintf(&b, "\n  %-8s %d", ss.Status, ss.Count)
	}
	output(st, b.String())
}

func runRunsExport(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	checkStatus(status)

	e := setup()
	s := e.openAuditRequired()
	defer s.Close()

	runs, err := s.ExportAll(cmd.Context(), status)
	if err != nil {
		exitErr("export", err)
	}
	output(runs, runsTable(runs))
}

func runsTable(runs []model.Run) string {
	if len(runs) == 0 {
		return "no runs"
	}
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s  %-7s %s..%s  matched=%d sampled=%d redacted=%d  %dms",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, r.StartDate, r.EndDate,
			r.MatchedRows, r.SampledRows, r.RedactedValues, r.DurationMS)
		if r.Error != "" {
			fmt.Fprintf(&b, "  error=%q", r.Error)
		}
	}
	return b.String()
}
