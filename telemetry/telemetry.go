// Package telemetry wraps Clue/OpenTelemetry logging and tracing for the
// cddl package's public entry points and CLI (spec §7: "the interpreter
// itself does not log ... the root cddl package's public entry points wrap
// each call in an OTel span and emit a structured debug log").
//
// Grounded on runtime/agent/telemetry in the teacher repo: a small
// interface pair kept independent of any one backend so tests can stub it,
// with Clue/OTel and no-op implementations.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger captures the structured logging used around a Validate call.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Tracer abstracts span creation so the library surface stays agnostic of
// the underlying OpenTelemetry provider.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
}

// Span represents an in-flight tracing span.
type Span interface {
	End(opts ...trace.SpanEndOption)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}
