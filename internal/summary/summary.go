// Package summary turns dated health records into a caregiver-friendly
// summary: filter by window, redact, sample, prompt, one completion call.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reblol/Pulsepanion/internal/audit"
	"github.com/reblol/Pulsepanion/internal/llm"
	"github.com/reblol/Pulsepanion/internal/model"
	"github.com/reblol/Pulsepanion/internal/prompt"
	"github.com/reblol/Pulsepanion/internal/records"
	"github.com/reblol/Pulsepanion/internal/redact"
)

// NoDataMessage is returned instead of a summary when no row falls in the window.
func NoDataMessage(start, end string) string {
	return fmt.Sprintf("No data found between %s and %s. Please check the date range or data.", start, end)
}

// Options configures a Summarizer.
type Options struct {
	Completer llm.Completer
	Model     string
	Logger    *zap.Logger
	Audit     audit.Store // optional
}

// Summarizer holds no per-call state and is safe for concurrent use.
type Summarizer struct {
	completer llm.Completer
	model     string
	logger    *zap.Logger
	audit     audit.Store
}

// New creates a Summarizer.
func New(opts Options) *Summarizer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		completer: opts.Completer,
		model:     opts.Model,
		logger:    logger,
		audit:     opts.Audit,
	}
}

// Params identifies the window and date field for one call.
type Params struct {
	Start     string
	End       string
	DateField string
	Source    string // label for logs and the audit log
}

func (p Params) dateField() string {
	if p.DateField == "" {
		return model.DefaultDateField
	}
	return p.DateField
}

// Preview is everything that would be sent to the model, without sending it.
type Preview struct {
	Empty          bool             `json:"empty" yaml:"empty"`
	Message        string           `json:"message,omitempty" yaml:"message,omitempty"`
	MatchedRows    int              `json:"matched_rows" yaml:"matched_rows"`
	SampledRows    int              `json:"sampled_rows" yaml:"sampled_rows"`
	RedactedValues int              `json:"redacted_values" yaml:"redacted_values"`
	Records        *model.RecordSet `json:"records" yaml:"records"`
	System         string           `json:"system" yaml:"system"`
	Prompt         string           `json:"prompt" yaml:"prompt"`
}

type prepared struct {
	total    int
	matched  int
	sampled  int
	report   redact.Report
	redacted *model.RecordSet
	prompt   string
}

func (s *Summarizer) prepare(set *model.RecordSet, p Params) (*prepared, error) {
	w, err := records.ParseWindow(p.Start, p.End)
	if err != nil {
		return nil, err
	}
	filtered, err := records.Filter(set, w, p.dateField())
	if err != nil {
		return nil, err
	}

	out := &prepared{total: set.Len(), matched: filtered.Len()}
	if out.matched == 0 {
		return out, nil
	}

	out.redacted, out.report = redact.Records(filtered)
	out.prompt, out.sampled = prompt.ForRecords(out.redacted, p.Start, p.End)
	return out, nil
}

// Summarize runs the full pipeline over set. When the window matches no rows
// it returns the no-data message and makes no outbound call; otherwise it
// makes exactly one.
func (s *Summarizer) Summarize(ctx context.Context, set *model.RecordSet, p Params) (*model.Summary, error) {
	started := time.Now()
	run := s.newRun(p)
	defer s.record(ctx, run, started)

	prep, err := s.prepare(set, p)
	if err != nil {
		run.Status, run.Error = model.RunError, auditError(err)
		return nil, err
	}
	run.TotalRows, run.MatchedRows = prep.total, prep.matched

	if prep.matched == 0 {
		run.Status = model.RunEmpty
		s.logger.Info("no records in window",
			zap.String("start", p.Start),
			zap.String("end", p.End),
			zap.Int("total_rows", prep.total),
		)
		return &model.Summary{Text: NoDataMessage(p.Start, p.End), Empty: true, TotalRows: prep.total}, nil
	}
	run.SampledRows, run.RedactedValues = prep.sampled, prep.report.Total()

	if s.completer == nil {
		run.Status, run.Error = model.RunError, "no text-generation provider configured"
		return nil, fmt.Errorf("generate summary: %s", run.Error)
	}

	s.logger.Debug("requesting summary",
		zap.String("provider", s.completer.Provider()),
		zap.String("model", s.model),
		zap.Int("sampled_rows", prep.sampled),
		zap.Int("prompt_len", len(prep.prompt)),
	)

	text, err := s.completer.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      prompt.SystemPrompt,
		User:        prep.prompt,
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	})
	if err != nil {
		run.Status, run.Error = model.RunError, auditError(err)
		s.logger.Error("summary request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	run.Status = model.RunOK
	s.logger.Info("summary generated",
		zap.Int("matched_rows", prep.matched),
		zap.Int("sampled_rows", prep.sampled),
		zap.Int("redacted_values", prep.report.Total()),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &model.Summary{
		Text:           strings.TrimSpace(text),
		TotalRows:      prep.total,
		MatchedRows:    prep.matched,
		SampledRows:    prep.sampled,
		RedactedValues: prep.report.Total(),
	}, nil
}

// Preview runs every step except the outbound call.
func (s *Summarizer) Preview(ctx context.Context, set *model.RecordSet, p Params) (*Preview, error) {
	started := time.Now()
	run := s.newRun(p)
	run.Status = model.RunPreview
	defer s.record(ctx, run, started)

	prep, err := s.prepare(set, p)
	if err != nil {
		run.Status, run.Error = model.RunError, auditError(err)
		return nil, err
	}
	run.TotalRows, run.MatchedRows = prep.total, prep.matched

	if prep.matched == 0 {
		return &Preview{Empty: true, Message: NoDataMessage(p.Start, p.End)}, nil
	}
	run.SampledRows, run.RedactedValues = prep.sampled, prep.report.Total()

	return &Preview{
		MatchedRows:    prep.matched,
		SampledRows:    prep.sampled,
		RedactedValues: prep.report.Total(),
		Records:        prompt.Sample(prep.redacted, prompt.SampleLimit),
		System:         prompt.SystemPrompt,
		Prompt:         prep.prompt,
	}, nil
}

// GenerateSummary parses jsonData and returns the summary text or the
// no-data message.
func (s *Summarizer) GenerateSummary(ctx context.Context, jsonData, start, end, dateField string) (string, error) {
	set, err := records.ParseJSON(strings.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	out, err := s.Summarize(ctx, set, Params{Start: start, End: end, DateField: dateField})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (s *Summarizer) newRun(p Params) *model.Run {
	run := &model.Run{
		StartDate: p.Start,
		EndDate:   p.End,
		DateField: p.dateField(),
		Source:    p.Source,
		Model:     s.model,
	}
	if s.completer != nil {
		run.Provider = s.completer.Provider()
	}
	return run
}

func (s *Summarizer) record(ctx context.Context, run *model.Run, started time.Time) {
	if s.audit == nil {
		return
	}
	run.DurationMS = time.Since(started).Milliseconds()
	if err := s.audit.Append(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("audit append failed", zap.Error(err), zap.String("status", run.Status))
	}
}

// auditError reduces err to its class and location. Record values and
// boundary strings quoted in the full message are left out.
func auditError(err error) string {
	var dataErr *records.DataFormatError
	var upErr *llm.UpstreamError
	switch {
	case errors.As(err, &dataErr):
		if dataErr.Row >= 0 {
			return fmt.Sprintf("data format: %s: row %d", dataErr.Op, dataErr.Row)
		}
		return "data format: " + dataErr.Op
	case errors.As(err, &upErr):
		if upErr.StatusCode != 0 {
			return fmt.Sprintf("upstream: %s status %d", upErr.Provider, upErr.StatusCode)
		}
		return "upstream: " + upErr.Provider
	default:
		return "internal error"
	}
}
