package llm

import (
	"fmt"
)

// Backend is a family of provider APIs.
type Backend int

// Supported backend families.
const (
	BackendOpenAI Backend = iota + 1
	BackendAnthropic
	BackendVertex
)

func (b Backend) String() string {
	switch b {
	case BackendOpenAI:
		return "openai"
	case BackendAnthropic:
		return "anthropic"
	case BackendVertex:
		return "vertex_ai"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// GenerativeModel is a supported model identifier.
type GenerativeModel string

// Supported models.
const (
	GPT4oMini        GenerativeModel = "gpt-4o-mini"
	GPT4o            GenerativeModel = "gpt-4o"
	Gemini15Pro001   GenerativeModel = "vertex_ai/gemini-1.5-pro-001"
	Gemini15Pro002   GenerativeModel = "vertex_ai/gemini-1.5-pro-002"
	Gemini15Flash001 GenerativeModel = "vertex_ai/gemini-1.5-flash-001"
	Gemini15Flash002 GenerativeModel = "vertex_ai/gemini-1.5-flash-002"
	Claude35Sonnet   GenerativeModel = "anthropic/claude-3-5-sonnet-20241022"
	Claude35Haiku    GenerativeModel = "anthropic/claude-3-5-haiku-20241022"
)

// DefaultModel is used when no model is configured.
const DefaultModel = Gemini15Pro001

type modelSpec struct {
	name    string
	backend Backend
}

var modelOrder = []GenerativeModel{
	GPT4oMini,
	GPT4o,
	Gemini15Pro001,
	Gemini15Pro002,
	Gemini15Flash001,
	Gemini15Flash002,
	Claude35Sonnet,
	Claude35Haiku,
}

var modelSpecs = map[GenerativeModel]modelSpec{
	GPT4oMini:        {name: "gpt-4o-mini", backend: BackendOpenAI},
	GPT4o:            {name: "gpt-4o", backend: BackendOpenAI},
	Gemini15Pro001:   {name: "gemini-1.5-pro-001", backend: BackendVertex},
	Gemini15Pro002:   {name: "gemini-1.5-pro-002", backend: BackendVertex},
	Gemini15Flash001: {name: "gemini-1.5-flash-001", backend: BackendVertex},
	Gemini15Flash002: {name: "gemini-1.5-flash-002", backend: BackendVertex},
	Claude35Sonnet:   {name: "claude-3-5-sonnet-20241022", backend: BackendAnthropic},
	Claude35Haiku:    {name: "claude-3-5-haiku-20241022", backend: BackendAnthropic},
}

// Models returns every supported model in a stable order.
func Models() []GenerativeModel {
	return append([]GenerativeModel(nil), modelOrder...)
}

// ParseGenerativeModel resolves a model identifier.
func ParseGenerativeModel(s string) (GenerativeModel, error) {
	m := GenerativeModel(s)
	if _, ok := modelSpecs[m]; !ok {
		return "", fmt.Errorf("unsupported generative model: %s", s)
	}
	return m, nil
}

// Backend reports which provider family serves the model.
func (m GenerativeModel) Backend() Backend {
	return modelSpecs[m].backend
}

// ProviderName is the model name as the provider API expects it.
func (m GenerativeModel) ProviderName() string {
	return modelSpecs[m].name
}

func (m GenerativeModel) String() string {
	return string(m)
}
