package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
const (
	inferenceService = "riskexplorer.inference.v1.Inference"
	generateMethod   = "/" + inferenceService + "/Generate"
)

// #endregion wire

// #region client-struct
// CodecClient calls a model sidecar over gRPC. Requests and responses are
// google.protobuf.Struct messages: {model, prompt} in, {text} out.
type CodecClient struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewCodecClient connects to the inference sidecar at addr.
func NewCodecClient(addr string) (*CodecClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &CodecClient{conn: conn, cc: conn}, nil
}

// NewCodecClientWithConn creates a CodecClient over an existing connection.
// Close is a no-op for clients built this way.
func NewCodecClientWithConn(cc grpc.ClientConnInterface) *CodecClient {
	return &CodecClient{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection if the client owns it.
func (c *CodecClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region generate
// Generate asks the sidecar for a completion. A reply without a text field
// is ErrEmptyResponse; blank text is a valid answer.
func (c *CodecClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	req, err := structpb.NewStruct(map[string]any{
		"model":  model,
		"prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, generateMethod, req, resp); err != nil {
		return "", fmt.Errorf("generate rpc: %w", err)
	}

	text, ok := resp.GetFields()["text"]
	if !ok {
		return "", fmt.Errorf("generate rpc: %w", ErrEmptyResponse)
	}
	return strings.TrimSpace(text.GetStringValue()), nil
}

// #endregion generate
