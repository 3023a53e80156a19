package model

import "time"

// AttemptOutcome describes what happened to a record after a backend call.
type AttemptOutcome string

// Attempt outcomes.
const (
	OutcomePersisted    AttemptOutcome = "persisted"
	OutcomeNonTerminal  AttemptOutcome = "non_terminal"
	OutcomeDecodeFailed AttemptOutcome = "decode_failed"
	OutcomeBackendError AttemptOutcome = "backend_error"
)

// Attempt is one audited completion request for a record.
type Attempt struct {
	CreatedAt        time.Time
	RunID            string
	RecordID         string
	Model            string
	FinishReason     string
	Outcome          AttemptOutcome
	Detail           string
	ID               int64
	InputChars       int
	PromptTokens     int
	CompletionTokens int
	Success          bool
}

// IsValid reports whether o is a known outcome.
func (o AttemptOutcome) IsValid() bool {
	switch o {
	case OutcomePersisted, OutcomeNonTerminal, OutcomeDecodeFailed, OutcomeBackendError:
		return true
	default:
		return false
	}
}

// AttemptOutcomes lists every outcome in reporting order.
func AttemptOutcomes() []AttemptOutcome {
	return []AttemptOutcome{OutcomePersisted, OutcomeNonTerminal, OutcomeDecodeFailed, OutcomeBackendError}
}
