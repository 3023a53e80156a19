// Package llm provides a uniform structured-completion interface over several
// generative model backends. It supports OpenAI, Anthropic and Google Vertex AI
// (Gemini), constraining each response to a JSON schema and reporting whether
// generation finished normally.
package llm
