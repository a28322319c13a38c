// Package cli implements the pulsepanion CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reblol/Pulsepanion/internal/audit"
	"github.com/reblol/Pulsepanion/internal/config"
	"github.com/reblol/Pulsepanion/internal/llm"
	"github.com/reblol/Pulsepanion/internal/logging"
	"github.com/reblol/Pulsepanion/internal/summary"
)

var (
	cfgPath    string
	formatFlag string
	auditDB    string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "pulsepanion",
	Short: "Caregiver summaries from dated health records",
	Long: "Filters dated health records to a window, redacts personal details, and asks a " +
		"text-generation service for a short caregiver summary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: ~/.pulsepanion/pulsepanion.yaml or ./pulsepanion.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json or yaml")
	RootCmd.PersistentFlags().StringVar(&auditDB, "audit-db", "", "Audit database path (default: $PULSEPANION_AUDIT_DB or ~/.pulsepanion/audit.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// env bundles what every command needs after startup.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() *env {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		exitErr("load config", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if auditDB != "" {
		cfg.Audit.Path = auditDB
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		exitErr("init logger", err)
	}
	return &env{cfg: cfg, logger: logger}
}

// openAudit returns nil when the audit log is disabled or cannot be opened;
// summaries still run without it.
func (e *env) openAudit() *audit.SQLiteStore {
	if !e.cfg.Audit.Enabled {
		return nil
	}
	s, err := audit.NewSQLiteStore(e.cfg.Audit.Path)
	if err != nil {
		e.logger.Warn("audit log unavailable", zap.String("path", e.cfg.Audit.Path), zap.Error(err))
		return nil
	}
	return s
}

// newSummarizer wires the audit log (when available) into a Summarizer.
// The returned func releases the audit log.
func (e *env) newSummarizer(c llm.Completer) (*summary.Summarizer, func()) {
	opts := summary.Options{Completer: c, Model: e.cfg.LLM.Model, Logger: e.logger}
	closeFn := func() { e.logger.Sync() }
	if s := e.openAudit(); s != nil {
		opts.Audit = s
		closeFn = func() {
			s.Close()
			e.logger.Sync()
		}
	}
	return summary.New(opts), closeFn
}

// openAuditRequired is for the runs commands, which have nothing to do
// without the audit log.
func (e *env) openAuditRequired() *audit.SQLiteStore {
	s, err := audit.NewSQLiteStore(e.cfg.Audit.Path)
	if err != nil {
		exitErr("open audit log", err)
	}
	return s
}

// render writes v as JSON or YAML, or text as-is for the text format.
func render(w io.Writer, format string, v any, text string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := fmt.Fprintln(w, text)
		return err
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
	}
}

func output(v any, text string) {
	outputAs(formatFlag, v, text)
}

func outputAs(format string, v any, text string) {
	if err := render(os.Stdout, format, v, text); err != nil {
		exitErr("output", err)
	}
}

// formatOr returns --format when the user set it, fallback otherwise.
func formatOr(cmd *cobra.Command, fallback string) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
