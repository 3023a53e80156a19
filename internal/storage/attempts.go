package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/radstage/internal/model"
)

// AttemptFilter narrows ListAttempts.
type AttemptFilter struct {
	RunID    string
	RecordID string
	// OnlyUnpersisted keeps failed attempts of records that never persisted.
	OnlyUnpersisted bool
	Limit           int
}

// RecordAttempt appends attempt to the ledger and sets its ID.
func (s *SQLiteStorage) RecordAttempt(ctx context.Context, attempt *model.Attempt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAttempt(attempt); err != nil {
		return err
	}

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	attempt.CreatedAt = attempt.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (
			run_id, record_id, model, success, finish_reason, outcome, detail,
			input_chars, prompt_tokens, completion_tokens, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.RunID,
		attempt.RecordID,
		attempt.Model,
		attempt.Success,
		attempt.FinishReason,
		string(attempt.Outcome),
		attempt.Detail,
		attempt.InputChars,
		attempt.PromptTokens,
		attempt.CompletionTokens,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt for %s: %w", attempt.RecordID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read attempt id: %w", err)
	}
	attempt.ID = id
	return nil
}

// ListAttempts returns matching attempts, oldest first.
func (s *SQLiteStorage) ListAttempts(ctx context.Context, filter AttemptFilter) ([]model.Attempt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.RunID != "" {
		where = append(where, "a.run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.RecordID != "" {
		where = append(where, "a.record_id = ?")
		args = append(args, filter.RecordID)
	}
	if filter.OnlyUnpersisted {
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM attempts p
			WHERE p.record_id = a.record_id AND p.outcome = ?
		)`)
		args = append(args, string(model.OutcomePersisted))
	}

	query := `
		SELECT a.id, a.run_id, a.record_id, a.model, a.success, a.finish_reason,
		       a.outcome, a.detail, a.input_chars, a.prompt_tokens,
		       a.completion_tokens, a.created_at
		FROM attempts a`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var attempts []model.Attempt
	for rows.Next() {
		var (
			a       model.Attempt
			outcome string
		)
		if err := rows.Scan(
			&a.ID, &a.RunID, &a.RecordID, &a.Model, &a.Success, &a.FinishReason,
			&outcome, &a.Detail, &a.InputChars, &a.PromptTokens,
			&a.CompletionTokens, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Outcome = model.AttemptOutcome(outcome)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}

	return attempts, nil
}

// AttemptStats counts attempts by outcome. Every known outcome is present.
func (s *SQLiteStorage) AttemptStats(ctx context.Context) (map[model.AttemptOutcome]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stats := make(map[model.AttemptOutcome]int, len(model.AttemptOutcomes()))
	for _, o := range model.AttemptOutcomes() {
		stats[o] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM attempts GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan attempt stats: %w", err)
		}
		stats[model.AttemptOutcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempt stats: %w", err)
	}

	return stats, nil
}
