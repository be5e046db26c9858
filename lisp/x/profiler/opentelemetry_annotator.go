package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/klisp/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type tracerKey struct{}

// WithTracerName returns a context from which an OpenTelemetry annotator
// takes the name of the tracer it creates spans with.
func WithTracerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, tracerKey{}, name)
}

// DefaultTracerName names the tracer used when the parent context does not
// carry one.
const DefaultTracerName = "klisp"

var _ lisp.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler that records a span for each
// function invocation as a child of the span in parentContext.
func NewOpenTelemetryAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	p.attach(p)
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return p.profiler.Complete()
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(tracerKey{}).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	oldSpan := p.currentSpan
	prettyLabel, funName := p.prettyFunName(fun)
	var span trace.Span
	p.currentContext, span = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.currentSpan = span
	span.SetAttributes(
		semconv.CodeFunction(funName),
		attribute.String("klisp.function.kind", funKind(fun)),
	)
	return func() {
		span.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = oldSpan
	}
}
