// Copyright © 2018 The ELPS authors

package lisp

// Profiler observes function invocations made by the evaluator.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any pending output
	Complete() error
	// Start marks the invocation of fun.  The returned function is called
	// when the invocation, including any evaluation it scheduled, finishes.
	Start(fun *LVal) func()
}

// profileEnd closes a profiler span once the invocation scheduled above it
// has produced its value.
type profileEnd struct {
	fun  *LVal
	stop func()
}

func (k *profileEnd) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	k.stop()
	return v, s, nil
}

func (k *profileEnd) String() string {
	return "profile " + k.fun.String()
}

// invokeProfiled wraps fun's invocation in a profiler span.  If the
// invocation schedules further evaluation the span stays open until that
// evaluation returns through a profileEnd frame.
func (rt *Runtime) invokeProfiled(fun, args *LVal, s *Stack) (*LVal, *Stack, error) {
	stop := rt.Profiler.Start(fun)
	marked := s.Push(&profileEnd{fun: fun, stop: stop})
	v, next, err := fun.FunData().Invoke(rt, args, marked)
	if err != nil {
		stop()
		return nil, nil, err
	}
	if next == marked {
		stop()
		return v, s, nil
	}
	return v, next, nil
}
