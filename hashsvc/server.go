// Package hashsvc serves event hashing over gRPC.
package hashsvc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/eventhash"
	"xdao.co/epcis/storage"
)

// RequestIDKey is the metadata key carrying a caller's correlation id.
const RequestIDKey = "x-request-id"

// Server implements EventHashServer.
type Server struct {
	UnimplementedEventHashServer

	// Builder canonicalizes events. Required.
	Builder *canon.Builder
	// Context is the namespace context applied to every event, merged
	// below the event's own @context and declarations.
	Context any
	// Archive, when set, records every pre-hash string produced by Hash and
	// answers Get.
	Archive *storage.Archive

	Logger *slog.Logger
	Tracer trace.Tracer
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return noop.NewTracerProvider().Tracer("hashsvc")
}

// begin starts the span and request-scoped logger of one call.
func (s *Server) begin(ctx context.Context, method string) (context.Context, trace.Span, *slog.Logger) {
	id := requestID(ctx)
	ctx, span := s.tracer().Start(ctx, "EventHash/"+method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("request.id", id)))
	return ctx, span, s.logger().With("method", method, "request_id", id)
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

func (s *Server) preHash(in *wrapperspb.StringValue) (string, error) {
	if s == nil || s.Builder == nil {
		return "", status.Error(codes.FailedPrecondition, "missing builder")
	}
	event, err := canon.Decode(strings.NewReader(in.GetValue()))
	if err != nil {
		return "", err
	}
	return s.Builder.PreHash(event, s.Context)
}

func (s *Server) Hash(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_, span, log := s.begin(ctx, "Hash")
	defer span.End()

	pre, err := s.preHash(in)
	if err != nil {
		return nil, fail(span, log, err)
	}
	hash := eventhash.Hash(pre)
	if s.Archive != nil {
		if _, _, err := s.Archive.Put(pre); err != nil {
			return nil, fail(span, log, err)
		}
	}
	span.SetAttributes(attribute.String("epcis.event_hash", hash))
	log.Debug("event hashed", "event_hash", hash, "archived", s.Archive != nil)
	return wrapperspb.String(hash), nil
}

func (s *Server) PreHash(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_, span, log := s.begin(ctx, "PreHash")
	defer span.End()

	pre, err := s.preHash(in)
	if err != nil {
		return nil, fail(span, log, err)
	}
	return wrapperspb.String(pre), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_, span, log := s.begin(ctx, "Get")
	defer span.End()

	if s.Archive == nil {
		return nil, fail(span, log, status.Error(codes.FailedPrecondition, "no pre-hash archive configured"))
	}
	span.SetAttributes(attribute.String("epcis.event_hash", in.GetValue()))
	pre, err := s.Archive.Lookup(in.GetValue())
	if err != nil {
		return nil, fail(span, log, err)
	}
	return wrapperspb.String(pre), nil
}

// fail records err on the span, logs it and converts it to a status error.
func fail(span trace.Span, log *slog.Logger, err error) error {
	st := toStatus(err)
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, st.Message())
	level := slog.LevelWarn
	if st.Code() == codes.Internal || st.Code() == codes.DataLoss {
		level = slog.LevelError
	}
	log.Log(context.Background(), level, "request failed", "code", st.Code().String(), "error", err)
	return st.Err()
}
