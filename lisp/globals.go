// Copyright © 2018 The ELPS authors

package lisp

import "sort"

// Globals is the mutable top-level binding table of a Runtime.  It holds
// every def'd value and all builtin functions.  Globals is not safe for
// concurrent mutation.
type Globals struct {
	symbols  *SymbolTable
	builtins []*LVal
	table    map[*LVal]*LVal
}

// NewGlobals returns a table populated with builtins.  Each builtin must be
// an LFun whose FunData has a Name.
func NewGlobals(symbols *SymbolTable, builtins []*LVal) *Globals {
	g := &Globals{
		symbols:  symbols,
		builtins: builtins,
	}
	g.Reset()
	return g
}

// Define binds sym to val, replacing any existing binding.
func (g *Globals) Define(sym, val *LVal) {
	g.table[sym] = val
}

// Resolve returns the value bound to sym.
func (g *Globals) Resolve(sym *LVal) (*LVal, error) {
	v, ok := g.table[sym]
	if !ok {
		return nil, unboundSymbol(sym)
	}
	return v, nil
}

// Reset removes every binding and re-installs the builtins.
func (g *Globals) Reset() {
	g.table = make(map[*LVal]*LVal, len(g.builtins))
	for _, fun := range g.builtins {
		g.table[g.symbols.Intern(fun.FunData().Name)] = fun
	}
}

// Len returns the number of bindings.
func (g *Globals) Len() int {
	return len(g.table)
}

// Symbols returns the sorted names of all bound symbols.
func (g *Globals) Symbols() []string {
	names := make([]string, 0, len(g.table))
	for sym := range g.table {
		names = append(names, sym.Str)
	}
	sort.Strings(names)
	return names
}
