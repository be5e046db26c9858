// Copyright © 2018 The ELPS authors

package lisp

import (
	"sort"
	"sync"
)

// SpecialForm classifies a symbol that heads a reserved form.  The
// classification is computed once, when the symbol is interned.
type SpecialForm uint8

// SpecialForm constants.  FormNone marks an ordinary symbol.
const (
	FormNone SpecialForm = iota
	FormQuote
	FormIf
	FormDo
	FormDef
	FormCond
	FormResolve
	FormLet
	FormFn
)

var specialFormNames = map[string]SpecialForm{
	"quote":   FormQuote,
	"if":      FormIf,
	"do":      FormDo,
	"def":     FormDef,
	"cond":    FormCond,
	"resolve": FormResolve,
	"let":     FormLet,
	"fn":      FormFn,
}

// SpecialForms returns the sorted names of the reserved forms.
func SpecialForms() []string {
	names := make([]string, 0, len(specialFormNames))
	for name := range specialFormNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SymbolTable canonicalizes symbol names so that symbol equality is pointer
// equality.  A SymbolTable is safe for concurrent use.
type SymbolTable struct {
	mu   sync.Mutex
	syms map[string]*LVal
}

// NewSymbolTable returns an empty SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{syms: make(map[string]*LVal)}
}

// Symbols is the process-wide symbol table used by default by runtimes and
// readers.
var Symbols = NewSymbolTable()

// Intern returns the canonical symbol named name from the process-wide
// table.
func Intern(name string) *LVal {
	return Symbols.Intern(name)
}

// Intern returns the canonical symbol named name, creating it on first use.
func (t *SymbolTable) Intern(name string) *LVal {
	t.mu.Lock()
	defer t.mu.Unlock()
	sym, ok := t.syms[name]
	if !ok {
		sym = &LVal{
			Type: LSymbol,
			Str:  name,
			Form: specialFormNames[name],
		}
		t.syms[name] = sym
	}
	return sym
}

// Lookup returns the symbol named name if it has been interned.
func (t *SymbolTable) Lookup(name string) (*LVal, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sym, ok := t.syms[name]
	return sym, ok
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.syms)
}

// Names returns the sorted names of all interned symbols.
func (t *SymbolTable) Names() []string {
	t.mu.Lock()
	names := make([]string, 0, len(t.syms))
	for name := range t.syms {
		names = append(names, name)
	}
	t.mu.Unlock()
	sort.Strings(names)
	return names
}
