// Package openai implements the ai interfaces against any OpenAI-compatible
// embedding API (OpenAI, Gemini's compatibility endpoint, Ollama, vLLM).
package openai
