package codec

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// DefaultCategory tags evaluations whose request carries no category.
const DefaultCategory = "rpc"

// #region kernel
// Kernel evaluates decoded states. Implementations may record what they
// evaluate; a non-nil error alongside a result means recording failed, not
// evaluation.
type Kernel interface {
	Combine(ctx context.Context, category string, op trit.Op, a, b trit.State) (trit.State, error)
	Negate(ctx context.Context, category string, a trit.State) (trit.State, error)
	DecideWith(ctx context.Context, category string, confidence, delta float64) (trit.State, error)
	Resolve(ctx context.Context, category string, signal float64) (trit.State, error)
}

// PureKernel evaluates without recording anything.
type PureKernel struct {
	Resolver *resolve.Resolver
}

func (PureKernel) Combine(_ context.Context, _ string, op trit.Op, a, b trit.State) (trit.State, error) {
	return op.Apply(a, b), nil
}

func (PureKernel) Negate(_ context.Context, _ string, a trit.State) (trit.State, error) {
	return trit.Not(a), nil
}

func (PureKernel) DecideWith(_ context.Context, _ string, confidence, delta float64) (trit.State, error) {
	return resolve.NewDecision(delta).Decide(confidence), nil
}

func (k PureKernel) Resolve(_ context.Context, _ string, signal float64) (trit.State, error) {
	r := k.Resolver
	if r == nil {
		r = resolve.NewResolver(resolve.DefaultDelta, nil)
	}
	return r.Resolve(signal), nil
}

// #endregion kernel

// #region server
// Server implements CodecServiceServer. Codes are decoded on the way in and
// encoded on the way out; the kernel only sees trit.State values.
type Server struct {
	UnimplementedCodecServiceServer

	Kernel Kernel
	Logger *zap.Logger
}

// NewServer creates a server over kernel. A nil kernel evaluates purely.
func NewServer(kernel Kernel, logger *zap.Logger) *Server {
	if kernel == nil {
		kernel = PureKernel{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Kernel: kernel, Logger: logger}
}

func (s *Server) And3(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return s.combine(ctx, trit.OpAnd, in)
}

func (s *Server) Or3(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return s.combine(ctx, trit.OpOr, in)
}

func (s *Server) Xor3(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return s.combine(ctx, trit.OpXor, in)
}

func (s *Server) Not3(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	a, err := codeField(in, "a")
	if err != nil {
		return nil, err
	}
	out, err := s.Kernel.Negate(ctx, category(in), Decode(a))
	return s.reply("not3", out, err)
}

func (s *Server) Decide(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	confidence, err := numberField(in, "confidence")
	if err != nil {
		return nil, err
	}
	delta, err := numberField(in, "delta")
	if err != nil {
		return nil, err
	}
	out, err := s.Kernel.DecideWith(ctx, category(in), confidence, delta)
	return s.reply("decide", out, err)
}

func (s *Server) Resolve(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	signal, err := numberField(in, "signal")
	if err != nil {
		return nil, err
	}
	out, err := s.Kernel.Resolve(ctx, category(in), signal)
	return s.reply("resolve", out, err)
}

func (s *Server) combine(ctx context.Context, op trit.Op, in *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	a, err := codeField(in, "a")
	if err != nil {
		return nil, err
	}
	b, err := codeField(in, "b")
	if err != nil {
		return nil, err
	}
	out, err := s.Kernel.Combine(ctx, category(in), op, Decode(a), Decode(b))
	return s.reply(string(op)+"3", out, err)
}

// reply encodes out. Recording failures are logged and never fail the call.
func (s *Server) reply(method string, out trit.State, err error) (*wrapperspb.UInt32Value, error) {
	if err != nil {
		s.Logger.Warn("evaluation not recorded", zap.String("method", method), zap.Error(err))
	}
	return wrapperspb.UInt32(uint32(Encode(out))), nil
}

// #endregion server

// #region fields
func category(in *structpb.Struct) string {
	if v, ok := in.GetFields()["category"]; ok {
		if c := v.GetStringValue(); c != "" {
			return c
		}
	}
	return DefaultCategory
}

func numberField(in *structpb.Struct, name string) (float64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "field %q is not a number", name)
	}
	return n.NumberValue, nil
}

// codeField reads a byte-sized code. Any byte is accepted; values that do not
// fit in a byte cannot be expressed at the boundary and are rejected.
func codeField(in *structpb.Struct, name string) (Code, error) {
	n, err := numberField(in, name)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint8 {
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("field %q: %v is not a byte", name, n))
	}
	return Code(n), nil
}

// #endregion fields
