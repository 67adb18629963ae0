// Package cddl validates JSON and CBOR instances against a CDDL schema
// (RFC 8610), as specified by spec.md and expanded in SPEC_FULL.md.
//
// The two entry points, ValidateJSON and ValidateCBOR, parse the schema
// text, decode the instance bytes into the interpreter's value model, and
// run the schema-conformance walk. A returned Go error means parsing or
// decoding failed outright (spec §7 SyntaxError/CompilationError); a
// structural mismatch is reported through the returned *interp.Result
// instead, keeping "couldn't even run" distinct from "ran and failed"
// (spec §6).
package cddl

import (
	"context"
	"fmt"

	"goa.design/cddl/interp"
	"goa.design/cddl/parser"
	"goa.design/cddl/telemetry"
	"goa.design/cddl/value"

	"go.opentelemetry.io/otel/codes"
)

// Option configures a Validate call.
type Option func(*config)

type config struct {
	opts   interp.Options
	logger telemetry.Logger
	tracer telemetry.Tracer
}

// WithMaxDepth bounds rule-reference/generic-expansion recursion (spec §5).
func WithMaxDepth(n int) Option {
	return func(c *config) { c.opts.MaxDepth = n }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l telemetry.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTracer overrides the default no-op tracer.
func WithTracer(t telemetry.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

func newConfig(opts []Option) *config {
	c := &config{logger: telemetry.NewNoopLogger(), tracer: telemetry.NewNoopTracer()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ValidateJSON parses cddlText, decodes jsonText, and checks the decoded
// instance against the schema's root rule (spec §6 "External Interfaces").
func ValidateJSON(ctx context.Context, cddlText string, jsonText []byte, opts ...Option) (*interp.Result, error) {
	return validate(ctx, "cddl.ValidateJSON", cddlText, interp.TargetJSON, opts, func() (value.Value, error) {
		return value.FromJSON(jsonText)
	})
}

// ValidateCBOR parses cddlText, decodes cborBytes, and checks the decoded
// instance against the schema's root rule.
func ValidateCBOR(ctx context.Context, cddlText string, cborBytes []byte, opts ...Option) (*interp.Result, error) {
	return validate(ctx, "cddl.ValidateCBOR", cddlText, interp.TargetCBOR, opts, func() (value.Value, error) {
		return value.FromCBOR(cborBytes)
	})
}

func validate(ctx context.Context, spanName, cddlText string, target interp.TargetKind, opts []Option, decode func() (value.Value, error)) (*interp.Result, error) {
	cfg := newConfig(opts)
	ctx, span := cfg.tracer.Start(ctx, spanName)
	defer span.End()

	cfg.logger.Debug(ctx, "parsing CDDL schema")
	doc, err := parser.Parse(cddlText)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema parse failed")
		return nil, fmt.Errorf("parsing CDDL schema: %w", err)
	}

	v, err := decode()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "instance decode failed")
		return nil, fmt.Errorf("decoding instance: %w", err)
	}

	result := interp.Validate(ctx, doc, v, target, cfg.opts)
	if result.OK() {
		cfg.logger.Debug(ctx, "validation succeeded")
	} else {
		span.SetStatus(codes.Error, "validation failed")
		cfg.logger.Debug(ctx, "validation failed", "errors", len(result.Errors.Errors))
	}
	return result, nil
}
