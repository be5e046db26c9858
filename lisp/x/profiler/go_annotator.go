package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/klisp/lisp"
)

// pprofFunctionLabel is the pprof label key carrying the lisp function name.
const pprofFunctionLabel = "function"

// pprofAnnotator tags CPU samples with the lisp function being invoked.  It
// only sets goroutine labels; the caller starts and stops the CPU profile.
type pprofAnnotator struct {
	profiler
	base   context.Context
	labels []context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that sets pprof goroutine labels for
// rt.  Labels are derived from ctx, or from context.Background if ctx is nil.
func NewPprofAnnotator(rt *lisp.Runtime, ctx context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{base: ctx}
	p.runtime = rt
	p.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.base == nil {
		p.base = context.Background()
	}
	p.labels = p.labels[:0]
	p.attach(p)
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	p.labels = nil
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

func (p *pprofAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	name, _ := p.prettyFunName(fun)
	ctx := pprof.WithLabels(p.current(), pprof.Labels(pprofFunctionLabel, name))
	p.labels = append(p.labels, ctx)
	pprof.SetGoroutineLabels(ctx)
	return func() {
		p.labels = p.labels[:len(p.labels)-1]
		pprof.SetGoroutineLabels(p.current())
	}
}

func (p *pprofAnnotator) current() context.Context {
	if n := len(p.labels); n > 0 {
		return p.labels[n-1]
	}
	return p.base
}

// currentLabel returns the function label applied to the goroutine.
func (p *pprofAnnotator) currentLabel() (string, bool) {
	return pprof.Label(p.current(), pprofFunctionLabel)
}
