// Package notify posts classification run summaries to Slack.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/engine"
	"github.com/slack-go/slack"
)

// SlackNotifier sends run summaries to an incoming webhook.
type SlackNotifier struct {
	client     *http.Client
	logger     *slog.Logger
	webhookURL string
}

// NewSlackNotifier creates a notifier for webhookURL.
func NewSlackNotifier(webhookURL string, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     common.LoggerOrDefault(logger),
	}
}

// NotifyRun posts the outcome counts of one run.
func (n *SlackNotifier) NotifyRun(ctx context.Context, experiment, model string, summary *engine.RunSummary) error {
	if n.webhookURL == "" {
		return fmt.Errorf("%w: slack webhook url", common.ErrMissingConfig)
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, RunMessage(experiment, model, summary)); err != nil {
		return fmt.Errorf("failed to post run summary: %w", err)
	}

	n.logger.Debug("Posted run summary to Slack", "experiment", experiment, "run_id", summary.RunID)
	return nil
}

// RunMessage builds the webhook payload for a run.
func RunMessage(experiment, model string, summary *engine.RunSummary) *slack.WebhookMessage {
	text := fmt.Sprintf("radstage run %s finished: %d persisted, %d skipped, %d non-terminal, %d decode failed",
		experiment, summary.Persisted, summary.Skipped, summary.NonTerminal, summary.DecodeFailed)

	field := func(label string, value any) *slack.TextBlockObject {
		return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%v", label, value), false, false)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "Classification run: "+experiment, false, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			field("Model", model),
			field("Records", summary.Total),
			field("Persisted", summary.Persisted),
			field("Skipped", summary.Skipped),
			field("Non-terminal", summary.NonTerminal),
			field("Decode failed", summary.DecodeFailed),
		}, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("run `%s` in %s", summary.RunID, summary.Duration.Round(time.Second)), false, false),
		),
	}

	return &slack.WebhookMessage{
		Text:   text,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
