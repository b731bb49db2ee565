package logger

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}

// TraceContext captures identifiers used to correlate the entries of one update run.
type TraceContext struct {
	TraceID string
	Target  string
}

// ContextWithTrace returns a derived context carrying the provided trace metadata.
func ContextWithTrace(ctx context.Context, trace TraceContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceKey{}, trace)
}

// NewRunContext tags ctx with a freshly generated trace id.
func NewRunContext(ctx context.Context) context.Context {
	return ContextWithTrace(ctx, TraceContext{TraceID: uuid.NewString()})
}

// WithTarget returns ctx with the target name added to its trace metadata.
func WithTarget(ctx context.Context, target string) context.Context {
	trace := TraceFromContext(ctx)
	trace.Target = target
	return ContextWithTrace(ctx, trace)
}

// TraceFromContext extracts a TraceContext from ctx.
func TraceFromContext(ctx context.Context) TraceContext {
	if ctx == nil {
		return TraceContext{}
	}
	if trace, ok := ctx.Value(traceKey{}).(TraceContext); ok {
		return trace
	}
	return TraceContext{}
}

func traceFieldsFromContext(ctx context.Context) []Field {
	return TraceFromContext(ctx).fields()
}

func (t TraceContext) fields() []Field {
	var fields []Field
	if t.TraceID != "" {
		fields = append(fields, String("trace_id", t.TraceID))
	}
	if t.Target != "" {
		fields = append(fields, String("target", t.Target))
	}
	return fields
}
