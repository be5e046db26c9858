// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"strconv"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the type of the singleton empty list returned by Nil().
	LNil
	// LBool values are the singletons returned by True() and False().
	LBool
	// LInt values store an int in the LVal.Int field.
	LInt
	// LString values store a string in the LVal.Str field.
	LString
	// LSymbol values store the symbol name in the LVal.Str field and a
	// SpecialForm classification in LVal.Form.  Symbols are only constructed
	// by a SymbolTable so two symbols with equal names are the same *LVal.
	LSymbol
	// LPair values are cons cells.  LVal.Cells[0] holds the first element and
	// LVal.Cells[1] holds the rest, conventionally another LPair or Nil().
	LPair
	// LFun values store a *FunData in the LVal.Native field.
	LFun
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LBool:    "bool",
	LInt:     "int",
	LString:  "string",
	LSymbol:  "symbol",
	LPair:    "pair",
	LFun:     "function",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LVal is a lisp value.  LVals are never modified after construction so they
// may be shared freely between lists, environments and stack frames.
type LVal struct {
	// Native holds the *FunData of an LFun.
	Native interface{}

	// Str used by LSymbol and LString values
	Str string

	// Cells holds the two halves of an LPair.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	// Int is the payload of LInt values.  For LBool values Int is 1 for true.
	Int int

	// Form classifies reserved symbols.  It is FormNone for all other values.
	Form SpecialForm
}

var (
	nilVal   = &LVal{Type: LNil}
	trueVal  = &LVal{Type: LBool, Int: 1}
	falseVal = &LVal{Type: LBool}
)

// Nil returns the singleton nil value.
func Nil() *LVal {
	return nilVal
}

// True returns the singleton true value.
func True() *LVal {
	return trueVal
}

// False returns the singleton false value.
func False() *LVal {
	return falseVal
}

// Bool returns the singleton boolean corresponding to b.
func Bool(b bool) *LVal {
	if b {
		return trueVal
	}
	return falseVal
}

// Int returns an LVal representing the number x.
func Int(x int) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// Cons returns a new pair with the given first and rest.
func Cons(first, rest *LVal) *LVal {
	return &LVal{Type: LPair, Cells: []*LVal{first, rest}}
}

// List builds a proper list from vals, right to left, terminated by Nil().
func List(vals ...*LVal) *LVal {
	lis := Nil()
	for i := len(vals) - 1; i >= 0; i-- {
		lis = Cons(vals[i], lis)
	}
	return lis
}

// IsNil returns true if v is the nil singleton.
func (v *LVal) IsNil() bool {
	return v == nilVal
}

// IsPair returns true if v is a cons cell.
func (v *LVal) IsPair() bool {
	return v.Type == LPair
}

// Truthy reports whether v counts as true in a conditional.  Only nil and
// false are falsy.
func (v *LVal) Truthy() bool {
	return v != nilVal && v != falseVal
}

// First returns the first element of a pair.  The caller must ensure that v
// is a pair.
func (v *LVal) First() *LVal {
	return v.Cells[0]
}

// Rest returns the rest of a pair.  The caller must ensure that v is a pair.
func (v *LVal) Rest() *LVal {
	return v.Cells[1]
}

// Slice returns the elements of the proper list v.  A dotted tail is ignored.
func (v *LVal) Slice() []*LVal {
	var vals []*LVal
	for ; v.Type == LPair; v = v.Cells[1] {
		vals = append(vals, v.Cells[0])
	}
	return vals
}

// Len returns the number of pairs in the spine of list v.
func (v *LVal) Len() int {
	n := 0
	for ; v.Type == LPair; v = v.Cells[1] {
		n++
	}
	return n
}

// Equal reports whether v and other print identically and have the same
// type.  It is intended for tests and debugging, not for language-level
// equality which is defined by the = builtin.
func (v *LVal) Equal(other *LVal) bool {
	if v == other {
		return true
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LInt:
		return v.Int == other.Int
	case LString:
		return v.Str == other.Str
	case LPair:
		return v.Cells[0].Equal(other.Cells[0]) && v.Cells[1].Equal(other.Cells[1])
	}
	return false
}

func (v *LVal) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *LVal) write(buf *bytes.Buffer) {
	switch v.Type {
	case LNil:
		buf.WriteString("nil")
	case LBool:
		if v.Int != 0 {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case LInt:
		buf.WriteString(strconv.Itoa(v.Int))
	case LString:
		buf.WriteByte('"')
		buf.WriteString(v.Str)
		buf.WriteByte('"')
	case LSymbol:
		buf.WriteString(v.Str)
	case LPair:
		buf.WriteByte('(')
		c := v
		for {
			c.Cells[0].write(buf)
			rest := c.Cells[1]
			if rest.IsNil() {
				break
			}
			if rest.Type != LPair {
				buf.WriteString(" . ")
				rest.write(buf)
				break
			}
			buf.WriteByte(' ')
			c = rest
		}
		buf.WriteByte(')')
	case LFun:
		buf.WriteString(v.FunData().String())
	default:
		buf.WriteString("<invalid>")
	}
}
