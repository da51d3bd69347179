package llm

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/risk-explorer/internal/config"
)

func TestNewGenerator_OpenAI(t *testing.T) {
	gen, closeFn, err := NewGenerator(config.Config{Backend: config.BackendOpenAI, OpenAIAPIKey: "k"})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	defer closeFn()
	if _, ok := gen.(*OpenAIClient); !ok {
		t.Errorf("expected *OpenAIClient, got %T", gen)
	}
}

func TestNewGenerator_OpenAIMissingKey(t *testing.T) {
	_, closeFn, err := NewGenerator(config.Config{Backend: config.BackendOpenAI})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if closeFn == nil || closeFn() != nil {
		t.Error("close function should be a no-op")
	}
}

func TestNewGenerator_Codec(t *testing.T) {
	gen, closeFn, err := NewGenerator(config.Config{Backend: config.BackendCodec, CodecAddr: "localhost:1"})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := gen.(*CodecClient); !ok {
		t.Errorf("expected *CodecClient, got %T", gen)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewGenerator_Unknown(t *testing.T) {
	if _, _, err := NewGenerator(config.Config{Backend: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
