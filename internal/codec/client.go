package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region client-struct
// CodecClient wraps the gRPC connection to a ternary daemon.
type CodecClient struct {
	conn     *grpc.ClientConn
	client   CodecServiceClient
	Category string // sent with every request when non-empty
}

// #endregion client-struct

// #region constructor
// NewCodecClient connects to the daemon's gRPC server.
func NewCodecClient(addr string, opts ...grpc.DialOption) (*CodecClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &CodecClient{
		conn:   conn,
		client: NewCodecServiceClient(conn),
	}, nil
}

// NewCodecClientWithService creates a CodecClient with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewCodecClientWithService(svc CodecServiceClient) *CodecClient {
	return &CodecClient{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *CodecClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region calls
// And3 evaluates AND3 remotely.
func (c *CodecClient) And3(ctx context.Context, a, b Code) (Code, error) {
	return c.call(ctx, "and3", c.client.And3, map[string]any{"a": a, "b": b})
}

// Or3 evaluates OR3 remotely.
func (c *CodecClient) Or3(ctx context.Context, a, b Code) (Code, error) {
	return c.call(ctx, "or3", c.client.Or3, map[string]any{"a": a, "b": b})
}

// Xor3 evaluates XOR3 remotely.
func (c *CodecClient) Xor3(ctx context.Context, a, b Code) (Code, error) {
	return c.call(ctx, "xor3", c.client.Xor3, map[string]any{"a": a, "b": b})
}

// Not3 evaluates NOT3 remotely.
func (c *CodecClient) Not3(ctx context.Context, a Code) (Code, error) {
	return c.call(ctx, "not3", c.client.Not3, map[string]any{"a": a})
}

// Decide asks the daemon for a verdict on confidence with the given delta.
func (c *CodecClient) Decide(ctx context.Context, confidence, delta float64) (Code, error) {
	return c.call(ctx, "decide", c.client.Decide, map[string]any{"confidence": confidence, "delta": delta})
}

// Resolve asks the daemon to collapse signal with its configured resolver.
func (c *CodecClient) Resolve(ctx context.Context, signal float64) (Code, error) {
	return c.call(ctx, "resolve", c.client.Resolve, map[string]any{"signal": signal})
}

type rpcFunc func(context.Context, *structpb.Struct, ...grpc.CallOption) (*wrapperspb.UInt32Value, error)

func (c *CodecClient) call(ctx context.Context, name string, fn rpcFunc, fields map[string]any) (Code, error) {
	if c.Category != "" {
		fields["category"] = c.Category
	}
	for k, v := range fields {
		if code, ok := v.(Code); ok {
			fields[k] = float64(code)
		}
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return 0, fmt.Errorf("%s request: %w", name, err)
	}
	resp, err := fn(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s rpc: %w", name, err)
	}
	v := resp.GetValue()
	if v > uint32(CodeOn) {
		return 0, fmt.Errorf("%s rpc: unexpected code %d", name, v)
	}
	return Code(v), nil
}

// #endregion calls
