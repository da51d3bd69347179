// Package main serves an OpenAI-backed model over the gRPC inference protocol.
package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielpatrickdp/risk-explorer/internal/config"
	"github.com/danielpatrickdp/risk-explorer/internal/llm"
	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetPrefix("[INFERENCE] ")

	gen, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Temperature)
	if err != nil {
		log.Fatalf("openai client: %v", err)
	}

	lis, err := net.Listen("tcp", cfg.InferenceAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", cfg.InferenceAddr, err)
	}

	srv := grpc.NewServer()
	llm.RegisterInferenceServer(srv, gen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	log.Printf("serving on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
