package engine

import (
	"context"

	"github.com/Veraticus/radstage/internal/model"
)

// Repository is the resumable result store.
type Repository interface {
	Exists(recordID string) (bool, error)
	Save(result model.Result) error
	SavePrompt(recordID, prompt string) error
}

// Ledger records every backend call for later inspection.
type Ledger interface {
	RecordAttempt(ctx context.Context, attempt *model.Attempt) error
}
