package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// #region backends
const (
	BackendOpenAI = "openai"
	BackendCodec  = "codec"
)

// #endregion backends

// #region config
// Config is the process configuration shared by every command.
type Config struct {
	DBPath          string        `env:"RISK_DB"            envDefault:"risk_explorer.db"`
	HTTPAddr        string        `env:"RISK_HTTP_ADDR"     envDefault:":8000"`
	Backend         string        `env:"RISK_BACKEND"       envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	ModelA          string        `env:"MODEL_A"            envDefault:"gpt-4o-mini"`
	ModelB          string        `env:"MODEL_B"            envDefault:"gpt-4o-mini"`
	Temperature     float32       `env:"RISK_TEMPERATURE"   envDefault:"0.2"`
	ModelTimeout    time.Duration `env:"RISK_MODEL_TIMEOUT" envDefault:"30s"`
	ModelAttempts   int           `env:"RISK_MODEL_ATTEMPTS" envDefault:"2"`
	CodecAddr       string        `env:"CODEC_ADDR"         envDefault:"localhost:50051"`
	InferenceAddr   string        `env:"RISK_INFERENCE_ADDR" envDefault:":50051"`
	FrontendOrigins []string      `env:"FRONTEND_ORIGIN"    envDefault:"http://localhost:3000" envSeparator:","`
	LogLevel        string        `env:"RISK_LOG_LEVEL"     envDefault:"info"`
}

// #endregion config

// #region load
// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI, BackendCodec:
	default:
		return fmt.Errorf("invalid RISK_BACKEND %q: want %q or %q", c.Backend, BackendOpenAI, BackendCodec)
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("invalid RISK_MODEL_TIMEOUT %s: must be positive", c.ModelTimeout)
	}
	if c.ModelAttempts < 1 {
		return fmt.Errorf("invalid RISK_MODEL_ATTEMPTS %d: must be at least 1", c.ModelAttempts)
	}
	if c.DBPath == "" {
		return fmt.Errorf("RISK_DB must not be empty")
	}
	for _, o := range c.FrontendOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("invalid FRONTEND_ORIGIN %q: want \"*\" or an http(s) origin", o)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// #endregion load

// #region log-level
// SlogLevel maps LogLevel onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid RISK_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// #endregion log-level
