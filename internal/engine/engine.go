// Package engine drives a classification run over a queue of reports.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/llm"
	"github.com/Veraticus/radstage/internal/model"
	"github.com/Veraticus/radstage/internal/prompt"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// DefaultPacing is the pause between consecutive backend calls.
const DefaultPacing = 20 * time.Second

// Config holds configuration options for the orchestrator.
type Config struct {
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	Model    string
	Template string
	FewShots string
	// Pacing is the pause between backend calls. Zero disables it.
	Pacing      time.Duration
	Temperature float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Model:    llm.DefaultModel.String(),
		Template: prompt.DefaultTemplate,
		Pacing:   DefaultPacing,
	}
}

// RunSummary reports what one run did.
type RunSummary struct {
	RunID        string
	Total        int
	Skipped      int
	Persisted    int
	NonTerminal  int
	DecodeFailed int
	Duration     time.Duration
}

// Calls is the number of backend calls the run made.
func (s *RunSummary) Calls() int {
	return s.Persisted + s.NonTerminal + s.DecodeFailed
}

// Orchestrator classifies records one at a time.
type Orchestrator struct {
	completer llm.Completer
	repo      Repository
	ledger    Ledger
	logger    *slog.Logger
	cfg       Config
}

// New creates an orchestrator. ledger may be nil. The template is checked
// here so a bad template fails before any backend call.
func New(completer llm.Completer, repo Repository, ledger Ledger, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if cfg.Pacing < 0 {
		return nil, fmt.Errorf("%w: pacing must not be negative", common.ErrInvalidConfig)
	}
	if err := prompt.Validate(cfg.Template); err != nil {
		return nil, err
	}

	return &Orchestrator{
		completer: completer,
		repo:      repo,
		ledger:    ledger,
		cfg:       cfg,
		logger:    common.LoggerOrDefault(logger),
	}, nil
}

// Run classifies every record that has no persisted result yet. Non-terminal
// completions and undecodable payloads are recorded and skipped; backend,
// repository and template errors abort the run.
func (o *Orchestrator) Run(ctx context.Context, records []model.Record) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{
		RunID: uuid.NewString(),
		Total: len(records),
	}

	o.logger.Info("Starting classification run",
		"run_id", summary.RunID,
		"model", o.cfg.Model,
		"records", len(records),
		"pacing", o.cfg.Pacing)

	bar := o.newProgressBar(len(records))
	defer func() {
		_ = bar.Finish()
		summary.Duration = time.Since(start)
	}()

	called := false
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		exists, err := o.repo.Exists(record.ID)
		if err != nil {
			return summary, fmt.Errorf("failed to check result for %s: %w", record.ID, err)
		}
		if exists {
			o.logger.Info(fmt.Sprintf("Skip. Result of %s already exists", record.ID))
			summary.Skipped++
			o.advance(bar)
			continue
		}

		if called {
			if err := o.pause(ctx); err != nil {
				return summary, err
			}
		}
		called = true

		outcome, err := o.classify(ctx, summary.RunID, record)
		if err != nil {
			return summary, err
		}

		switch outcome {
		case model.OutcomePersisted:
			summary.Persisted++
		case model.OutcomeNonTerminal:
			summary.NonTerminal++
		case model.OutcomeDecodeFailed:
			summary.DecodeFailed++
		}
		o.advance(bar)
	}

	o.logger.Info("Finished classification run",
		"run_id", summary.RunID,
		"persisted", summary.Persisted,
		"skipped", summary.Skipped,
		"non_terminal", summary.NonTerminal,
		"decode_failed", summary.DecodeFailed)

	return summary, nil
}

// classify makes one backend call for record and persists a decoded result.
func (o *Orchestrator) classify(ctx context.Context, runID string, record model.Record) (model.AttemptOutcome, error) {
	o.logger.Info("Classifying record", "record_id", record.ID)

	composed, err := prompt.Compose(o.cfg.Template, o.cfg.FewShots, record.Text)
	if err != nil {
		return "", err
	}

	req := llm.Request{
		Messages:    []llm.Message{llm.UserMessage(composed)},
		Schema:      llm.LabelSchema(),
		Temperature: o.cfg.Temperature,
	}

	attempt := &model.Attempt{
		RunID:      runID,
		RecordID:   record.ID,
		Model:      o.cfg.Model,
		InputChars: req.InputChars(),
	}

	completion, err := o.completer.Complete(ctx, req)
	attempt.Success = completion.Success
	attempt.FinishReason = completion.FinishReason
	attempt.PromptTokens = completion.Usage.PromptTokens
	attempt.CompletionTokens = completion.Usage.CompletionTokens

	switch {
	case err != nil && !errors.Is(err, common.ErrSchemaDecode):
		attempt.Outcome = model.OutcomeBackendError
		attempt.Detail = err.Error()
		o.record(ctx, attempt)
		return "", fmt.Errorf("classifying %s: %w", record.ID, err)

	case !completion.Success:
		attempt.Outcome = model.OutcomeNonTerminal
		attempt.Detail = fmt.Sprintf("%s: finish reason %q", common.ErrNonTerminalCompletion, completion.FinishReason)
		o.record(ctx, attempt)
		o.logger.Warn("Completion did not finish normally; nothing persisted",
			"record_id", record.ID,
			"finish_reason", completion.FinishReason)
		return model.OutcomeNonTerminal, nil
	}

	labels, decodeErr := model.DecodePayload(completion.Text)
	if decodeErr == nil {
		decodeErr = err
	}
	if decodeErr != nil {
		attempt.Outcome = model.OutcomeDecodeFailed
		attempt.Detail = decodeErr.Error()
		o.record(ctx, attempt)
		o.logger.Warn("Could not decode completion; nothing persisted",
			"record_id", record.ID,
			"error", decodeErr)
		return model.OutcomeDecodeFailed, nil
	}

	if err := o.repo.Save(model.NewResult(record.ID, labels)); err != nil {
		return "", fmt.Errorf("failed to save result for %s: %w", record.ID, err)
	}
	if err := o.repo.SavePrompt(record.ID, composed); err != nil {
		o.logger.Warn("Failed to save prompt", "record_id", record.ID, "error", err)
	}

	attempt.Outcome = model.OutcomePersisted
	o.record(ctx, attempt)

	o.logger.Debug("Persisted result",
		"record_id", record.ID,
		"t", labels.T,
		"n", labels.N,
		"m", labels.M)
	return model.OutcomePersisted, nil
}

// record writes attempt to the ledger. Ledger failures are logged only; the
// repository remains the source of truth for resumption.
func (o *Orchestrator) record(ctx context.Context, attempt *model.Attempt) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.RecordAttempt(ctx, attempt); err != nil {
		o.logger.Warn("Failed to record attempt",
			"record_id", attempt.RecordID,
			"outcome", attempt.Outcome,
			"error", err)
	}
}

func (o *Orchestrator) pause(ctx context.Context) error {
	if o.cfg.Pacing <= 0 {
		return nil
	}

	timer := time.NewTimer(o.cfg.Pacing)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *Orchestrator) newProgressBar(total int) *progressbar.ProgressBar {
	w := o.cfg.Progress
	if w == nil {
		w = io.Discard
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying reports"),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func (o *Orchestrator) advance(bar *progressbar.ProgressBar) {
	if err := bar.Add(1); err != nil {
		o.logger.Debug("Failed to update progress bar", "error", err)
	}
}
