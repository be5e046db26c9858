// Copyright © 2021 The ELPS authors

package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/klisp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// MissingDoc describes a symbol with no documentation.
type MissingDoc struct {
	// Kind is "builtin", "closure" or "special-form".
	Kind string

	// Name is the name of the global symbol.
	Name string
}

// CheckMissing reports global functions in rt that have no documentation.
func CheckMissing(rt *lisp.Runtime) []MissingDoc {
	var missing []MissingDoc
	for _, name := range lisp.SpecialForms() {
		if specialFormDocs[name] == "" {
			missing = append(missing, MissingDoc{Kind: "special-form", Name: name})
		}
	}
	for _, name := range rt.Globals.Symbols() {
		v, err := rt.Resolve(name)
		if err != nil {
			continue
		}
		fd := v.FunData()
		if fd == nil || fd.Doc != "" {
			continue
		}
		kind := "closure"
		if fd.IsBuiltin() {
			kind = "builtin"
		}
		missing = append(missing, MissingDoc{Kind: kind, Name: name})
	}
	return missing
}

var specialFormDocs = map[string]string{
	"quote": `(quote expr)
		Returns expr unevaluated.  'expr is read as (quote expr).`,
	"if": `(if test then else)
		Evaluates test and then evaluates then if the result is neither nil
		nor false, else otherwise.  Both branches are required.`,
	"do": `(do expr ...)
		Evaluates each expr in order and returns the value of the last one.
		An empty do returns nil.`,
	"def": `(def name expr)
		Evaluates expr and binds the result to the symbol name in the global
		table, replacing any existing binding.  Returns the value.`,
	"cond": `(cond test expr ...)
		Evaluates each test in order and returns the value of the expr paired
		with the first one that is neither nil nor false.  Returns nil if no
		test passes.`,
	"resolve": `(resolve expr)
		Evaluates expr, which must produce a symbol, and returns the global
		value bound to it.  Lexical bindings are ignored.`,
	"let": `(let (name expr ...) body ...)
		Binds each name to the value of its expr in turn, each expr seeing the
		bindings before it, then evaluates body as a do form.`,
	"fn": `(fn (param ...) body ...)
		Returns a closure over the current lexical environment.  A string
		that begins a body of two or more forms documents the function.`,
}

// Library is the help library.
type Library struct{}

// LibraryName implements klisputil.Library.
func (Library) LibraryName() string { return "help" }

// LibraryDoc implements klisputil.LibraryDocumented.
func (Library) LibraryDoc() string {
	return "Functions that print documentation for global symbols."
}

// Builtins implements klisputil.Library.
func (Library) Builtins() []*lisp.LVal { return Builtins() }

// Builtins returns the help functions.  They write to the runtime's
// diagnostic stream.
func Builtins() []*lisp.LVal {
	return []*lisp.LVal{
		lisp.Builtin("help", []string{"name"}, builtinHelp,
			`
			Prints documentation for the global symbol name.  Functions have
			their signature and any docstring rendered.  Other values have
			their types and current values printed.
			`),
		lisp.Builtin("help-symbols", nil, builtinHelpSymbols,
			`
			Prints the names of all reserved forms and global bindings.
			`),
	}
}

func builtinHelp(rt *lisp.Runtime, args *lisp.LVal, s *lisp.Stack) (*lisp.LVal, *lisp.Stack, error) {
	name := args.Cells[0]
	if name.Type != lisp.LSymbol {
		return nil, nil, lisp.Errorf(lisp.CondType, "help: argument is not a symbol: %v", name.Type)
	}
	if err := RenderVar(rt.Stderr, rt, name.Str); err != nil {
		return nil, nil, err
	}
	return lisp.Nil(), s, nil
}

func builtinHelpSymbols(rt *lisp.Runtime, args *lisp.LVal, s *lisp.Stack) (*lisp.LVal, *lisp.Stack, error) {
	for _, name := range append(lisp.SpecialForms(), rt.Globals.Symbols()...) {
		if _, err := fmt.Fprintln(rt.Stderr, name); err != nil {
			return nil, nil, lisp.Errorf(lisp.CondIO, "%w", err)
		}
	}
	return lisp.Nil(), s, nil
}

// RenderGlobals writes to w formatted documentation for every reserved form
// and global binding in rt.
func RenderGlobals(w io.Writer, rt *lisp.Runtime) error {
	names := append(lisp.SpecialForms(), rt.Globals.Symbols()...)
	for i, name := range names {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := RenderVar(w, rt, name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// RenderVar writes to w formatted documentation for the object referenced by
// sym in rt.  The exact formatting of the rendered documentation is subject
// to change.
func RenderVar(w io.Writer, rt *lisp.Runtime, sym string) error {
	if doc, ok := specialFormDocs[sym]; ok {
		return renderSpecialForm(w, doc)
	}
	v, err := rt.Resolve(sym)
	if err != nil {
		return err
	}
	if v.Type != lisp.LFun {
		return renderVal(w, sym, v)
	}
	return renderFun(w, sym, v)
}

func renderSpecialForm(w io.Writer, doc string) error {
	sig, body, _ := strings.Cut(doc, "\n")
	_, err := fmt.Fprintf(w, "special form %s\n%s\n", sig, cleanDocstring(body))
	return err
}

func renderVal(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%v %s %v\n", v.Type, sym, v)
	return err
}

func renderFun(w io.Writer, sym string, v *lisp.LVal) error {
	fd := v.FunData()
	kind := "function"
	if fd.IsBuiltin() {
		kind = "builtin"
	}
	sig := fd.Usage()
	if !fd.IsBuiltin() {
		sig = lisp.Cons(lisp.Intern(sym), fd.Params).String()
	} else if fd.Name != sym {
		sig = "(" + sym + strings.TrimPrefix(sig, "("+fd.Name)
	}
	_, err := fmt.Fprintf(w, "%s %s\n", kind, sig)
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := cleanDocstring(fd.Doc)
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(strings.TrimRight(dedentDoc(doc), " \n"), 72), 2)
	doc = strings.TrimSuffix(doc, "\n")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line may have less indentation than continuation lines, which
// inherit the indentation of the Go source they were written in.  Tabs are
// normalized to spaces before processing.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	// Find minimum leading spaces across non-empty lines, skipping
	// the first line (which in raw strings often has no indentation).
	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	if minWS <= 0 {
		return strings.TrimLeft(lines[0], " ") + "\n" + strings.Join(lines[1:], "\n")
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
