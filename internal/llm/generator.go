package llm

import (
	"context"
	"errors"
)

// SystemPrompt is sent with every completion request.
const SystemPrompt = "You are a helpful assistant. Be concise. " +
	"If you are uncertain, say so. Do not invent facts."

var (
	// ErrEmptyResponse is returned when a backend reply carries no answer at
	// all. An answer whose text is blank is returned as "".
	ErrEmptyResponse = errors.New("model returned no content")
	// ErrMissingAPIKey is returned when the OpenAI backend has no key.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set")
)

// #region generator
// Generator produces one completion for a prompt from the named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// #endregion generator

// #region unavailable
// Unavailable is a Generator that always fails with Err. The server uses it
// when a backend cannot be configured so requests report why.
type Unavailable struct {
	Err error
}

// Generate returns u.Err.
func (u Unavailable) Generate(context.Context, string, string) (string, error) {
	return "", u.Err
}

// #endregion unavailable

// #region func-adapter
// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// #endregion func-adapter
