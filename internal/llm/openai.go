package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/sashabaranov/go-openai"
)

// openAICompleter implements Completer for the OpenAI chat completions API.
type openAICompleter struct {
	client    *openai.Client
	apiKey    string
	model     string
	maxTokens int
}

// newOpenAICompleter creates a new OpenAI completer.
func newOpenAICompleter(cfg Config, model string) *openAICompleter {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	return &openAICompleter{
		client:    openai.NewClientWithConfig(clientConfig),
		apiKey:    cfg.OpenAIAPIKey,
		model:     model,
		maxTokens: cfg.maxTokens(),
	}
}

// Complete sends a chat completion request to OpenAI.
func (c *openAICompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, fmt.Errorf("%w: OpenAI API key is not set", common.ErrMissingConfig)
	}

	chatReq, err := c.buildRequest(req)
	if err != nil {
		return Completion{}, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Completion{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("no completion choices returned")
	}

	choice := resp.Choices[0]
	return Completion{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Success:      choice.FinishReason == openai.FinishReasonStop,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (c *openAICompleter) buildRequest(req Request) (openai.ChatCompletionRequest, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: openAITemperature(req.Temperature),
		MaxTokens:   maxTokens,
	}

	if req.Schema != nil {
		schemaBytes, err := json.Marshal(req.Schema.JSONSchema())
		if err != nil {
			return openai.ChatCompletionRequest{}, fmt.Errorf("failed to marshal response schema: %w", err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(schemaBytes),
				Strict: req.Schema.Strict,
			},
		}
	}

	return chatReq, nil
}

// openAITemperature maps a zero temperature to the smallest positive value;
// the client drops zero via omitempty and the API would then default to 1.
func openAITemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
