package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/reblol/Pulsepanion/internal/model"
	"github.com/reblol/Pulsepanion/internal/records"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "-", "Records file, or - for stdin")
	cmd.Flags().String("source-type", "", "Source type: json, xlsx, sqlite, postgres (default: from extension)")
	cmd.Flags().String("sheet", "", "XLSX sheet (default: first sheet)")
	cmd.Flags().String("table", "", "Table name for sqlite and postgres sources")
	cmd.Flags().String("dsn", "", "Database DSN for postgres sources")
	cmd.Flags().String("date-field", model.DefaultDateField, "Field holding each record's date")
}

func addWindowFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().StringP("start", "s", "", "Start date, inclusive")
	cmd.Flags().StringP("end", "e", "", "End date, inclusive")
	if required {
		cmd.MarkFlagRequired("start")
		cmd.MarkFlagRequired("end")
	}
}

func sourceFromFlags(cmd *cobra.Command) records.Source {
	path, _ := cmd.Flags().GetString("input")
	kind, _ := cmd.Flags().GetString("source-type")
	sheet, _ := cmd.Flags().GetString("sheet")
	table, _ := cmd.Flags().GetString("table")
	dsn, _ := cmd.Flags().GetString("dsn")
	return records.Source{
		Kind:  kind,
		Path:  path,
		Sheet: sheet,
		Table: table,
		DSN:   dsn,
		Stdin: os.Stdin,
	}
}

func loadRecords(ctx context.Context, src records.Source) *model.RecordSet {
	set, err := records.Load(ctx, src)
	if err != nil {
		exitErr("load records", err)
	}
	return set
}
