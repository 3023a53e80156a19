package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicCompleter implements Completer for the Anthropic Messages API.
// Structured output is enforced by forcing a single tool whose input schema is
// the response schema.
type anthropicCompleter struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int64
}

// newAnthropicCompleter creates a new Anthropic completer.
func newAnthropicCompleter(cfg Config, model string) *anthropicCompleter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}

	return &anthropicCompleter{
		client:    anthropic.NewClient(opts...),
		apiKey:    cfg.AnthropicAPIKey,
		model:     model,
		maxTokens: int64(cfg.maxTokens()),
	}
}

// Complete sends a message request to Anthropic.
func (c *anthropicCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, fmt.Errorf("%w: anthropic API key is not set", common.ErrMissingConfig)
	}

	resp, err := c.client.Messages.New(ctx, c.buildParams(req))
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	var toolInput string
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			if req.Schema != nil && block.Name == req.Schema.Name {
				toolInput = string(block.Input)
			}
		}
	}

	stopReason := resp.StopReason
	success := stopReason == anthropic.StopReasonEndTurn
	payload := text.String()
	if req.Schema != nil {
		success = success || stopReason == anthropic.StopReasonToolUse
		payload = toolInput
	}

	return Completion{
		Text:         payload,
		FinishReason: string(stopReason),
		Success:      success,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

func (c *anthropicCompleter) buildParams(req Request) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	if req.Schema != nil {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: req.Schema.PropertiesSchema(),
			Required:   req.Schema.RequiredNames(),
		}
		if req.Schema.Strict {
			inputSchema.ExtraFields = map[string]any{"additionalProperties": false}
		}

		params.Tools = []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        req.Schema.Name,
				Description: anthropic.String("Record the structured answer."),
				InputSchema: inputSchema,
			},
		}}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Schema.Name},
		}
	}

	return params
}
