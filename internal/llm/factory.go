package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/radstage/internal/common"
)

// NewCompleter creates the Completer serving model. Credentials are checked on
// the first call, not here.
func NewCompleter(cfg Config, model GenerativeModel, logger *slog.Logger) (Completer, error) {
	var backend Completer

	switch model.Backend() {
	case BackendOpenAI:
		backend = newOpenAICompleter(cfg, model.ProviderName())
	case BackendAnthropic:
		backend = newAnthropicCompleter(cfg, model.ProviderName())
	case BackendVertex:
		backend = newGeminiCompleter(cfg, model.ProviderName())
	default:
		return nil, fmt.Errorf("unsupported generative model: %s", model)
	}

	return &structuredCompleter{
		model:   model,
		backend: backend,
		logger:  common.LoggerOrDefault(logger),
	}, nil
}

// structuredCompleter validates requests, logs usage and checks successful
// payloads against the requested schema.
type structuredCompleter struct {
	backend Completer
	logger  *slog.Logger
	model   GenerativeModel
}

func (c *structuredCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := req.Validate(); err != nil {
		return Completion{}, err
	}

	completion, err := c.backend.Complete(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("%w: %s: %w", common.ErrBackendCall, c.model, err)
	}

	c.logger.Debug("GenAI usage",
		"model", c.model,
		"input_length", req.InputChars(),
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"finish_reason", completion.FinishReason)

	if completion.Success && req.Schema != nil {
		if err := req.Schema.Validate(completion.Text); err != nil {
			return completion, err
		}
	}

	return completion, nil
}
