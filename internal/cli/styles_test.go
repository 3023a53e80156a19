package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/radstage/internal/engine"
	"github.com/Veraticus/radstage/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderRunSummary(t *testing.T) {
	out := RenderRunSummary(&engine.RunSummary{
		RunID:        "run-1",
		Total:        5,
		Skipped:      2,
		Persisted:    2,
		NonTerminal:  1,
		DecodeFailed: 0,
		Duration:     3 * time.Second,
	})

	assert.Contains(t, out, "Classification Summary")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "Records:        5")
	assert.Contains(t, out, "Persisted:      2")
	assert.Contains(t, out, "Non-terminal:   1")
	assert.Contains(t, out, "Backend calls:  3")
}

func TestRenderAttempts(t *testing.T) {
	assert.Contains(t, RenderAttempts(nil), "No attempts recorded")

	out := RenderAttempts([]model.Attempt{
		{ID: 1, RecordID: "r1", Model: "gpt-4o-2024-08-06", Outcome: model.OutcomePersisted, FinishReason: "stop", PromptTokens: 100, CompletionTokens: 10, CreatedAt: time.Now()},
		{ID: 2, RecordID: "r2", Model: "gpt-4o-2024-08-06", Outcome: model.OutcomeNonTerminal, FinishReason: "content_filter", Detail: strings.Repeat("x", 100), CreatedAt: time.Now()},
	})

	for _, col := range attemptColumns {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "content_filter")
	assert.Contains(t, out, "100/10")
	assert.NotContains(t, out, strings.Repeat("x", 100))
}

func TestRenderAttemptStats(t *testing.T) {
	out := RenderAttemptStats(map[model.AttemptOutcome]int{model.OutcomePersisted: 3})
	assert.Contains(t, out, "persisted=3")
	assert.Contains(t, out, "non_terminal=0")
	assert.Contains(t, out, "backend_error=0")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
