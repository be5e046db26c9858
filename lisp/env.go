// Copyright © 2018 The ELPS authors

package lisp

// Env is one lexical binding frame.  Frames are never modified once built;
// extending an environment conses a new frame onto the old one, so a closure
// can hold the *Env it was created in without copying it.  The nil *Env is
// the empty environment.
type Env struct {
	Sym    *LVal
	Val    *LVal
	Parent *Env
}

// Extend returns a new environment binding sym to val in front of env.
func (env *Env) Extend(sym, val *LVal) *Env {
	return &Env{Sym: sym, Val: val, Parent: env}
}

// Get searches the lexical frames of env, innermost first, for sym.
func (env *Env) Get(sym *LVal) (*LVal, bool) {
	for e := env; e != nil; e = e.Parent {
		if e.Sym == sym {
			return e.Val, true
		}
	}
	return nil, false
}

// Lookup searches env for sym and falls back to globals.  Lookup fails with
// ErrUnboundSymbol if neither holds a binding.
func (env *Env) Lookup(globals *Globals, sym *LVal) (*LVal, error) {
	if v, ok := env.Get(sym); ok {
		return v, nil
	}
	return globals.Resolve(sym)
}

// Depth returns the number of frames in env.
func (env *Env) Depth() int {
	n := 0
	for e := env; e != nil; e = e.Parent {
		n++
	}
	return n
}

// Bindings returns the symbols bound in env, innermost first.  Shadowed
// bindings are included.
func (env *Env) Bindings() []*LVal {
	var syms []*LVal
	for e := env; e != nil; e = e.Parent {
		syms = append(syms, e.Sym)
	}
	return syms
}
