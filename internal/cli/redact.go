package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reblol/Pulsepanion/internal/prompt"
	"github.com/reblol/Pulsepanion/internal/records"
	"github.com/reblol/Pulsepanion/internal/redact"
)

func init() {
	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Print records with personal details redacted",
		Long: "Redact identifying fields and capitalized words in free-text fields and print the " +
			"records as JSON (--format text prints a table). With --start and --end only records " +
			"in the window are printed; otherwise every record is.",
		Run: runRedact,
	}

	addInputFlags(cmd)
	addWindowFlags(cmd, false)

	RootCmd.AddCommand(cmd)
}

func runRedact(cmd *cobra.Command, args []string) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	dateField, _ := cmd.Flags().GetString("date-field")

	if (start == "") != (end == "") {
		exitErr("redact", errors.New("--start and --end must be given together"))
	}

	e := setup()
	defer e.logger.Sync()

	set := loadRecords(cmd.Context(), sourceFromFlags(cmd))
	if start != "" {
		w, err := records.ParseWindow(start, end)
		if err != nil {
			exitErr("redact", err)
		}
		if set, err = records.Filter(set, w, dateField); err != nil {
			exitErr("redact", err)
		}
	}

	redacted, report := redact.Records(set)
	e.logger.Info("records redacted",
		zap.Int("rows", redacted.Len()),
		zap.Int("pii_values", report.PIIValues),
		zap.Int("text_tokens", report.TextTokens),
	)

	outputAs(formatOr(cmd, "json"), redacted, prompt.Table(redacted))
}
