package llm

import (
	"fmt"

	"github.com/danielpatrickdp/risk-explorer/internal/config"
)

// #region backend
// NewGenerator builds the Generator selected by cfg.Backend. The returned
// close function releases backend resources and is never nil.
func NewGenerator(cfg config.Config) (Generator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendOpenAI:
		c, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Temperature)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case config.BackendCodec:
		c, err := NewCodecClient(cfg.CodecAddr)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// #endregion backend
