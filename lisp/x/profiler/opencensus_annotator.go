package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/klisp/lisp"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus span
// for each function invocation.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler with spans rooted in ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.attach(p)
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return p.profiler.Complete()
}

func (p *ocAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	oldSpan := p.currentSpan
	prettyLabel, funName := p.prettyFunName(fun)
	var span *trace.Span
	p.currentContext, span = trace.StartSpan(p.currentContext, prettyLabel)
	p.currentSpan = span
	return func() {
		span.Annotate([]trace.Attribute{
			trace.StringAttribute("function", funName),
			trace.StringAttribute("kind", funKind(fun)),
		}, "invocation")
		span.End()
		p.currentContext = oldContext
		p.currentSpan = oldSpan
	}
}
