// Package value implements Daemonica's runtime value model (spec.md
// §3): a closed, six-variant tagged union, plus the two callable
// shapes (NativeFn, UserFunction) that make up spec.md's component G.
//
// Unlike pongo2's Value (value.go in the teacher), which wraps
// arbitrary host data behind reflect.Value because a template needs
// to render whatever the caller's Context holds, Daemonica's value
// set is closed and spec-given — a tagged struct carries it with no
// reflection and no interface-boxing, while keeping the same
// "every predicate is an IsXxx() bool method, every coercion lives on
// the value" texture pongo2 uses.
package value

import (
	"fmt"
	"strconv"

	"github.com/daemonica-lang/altars/ast"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Empty Kind = iota
	Number
	Bool
	String
	NativeFnKind
	UserFnKind
)

// Value is Daemonica's runtime value: a tagged union over the six
// variants named in spec.md §3. It is copied by value into and out of
// the environment.
type Value struct {
	kind   Kind
	num    float64
	str    string
	bl     bool
	native *NativeFn
	user   *UserFunction
}

func NewEmpty() Value               { return Value{kind: Empty} }
func NewNumber(n float64) Value     { return Value{kind: Number, num: n} }
func NewBool(b bool) Value          { return Value{kind: Bool, bl: b} }
func NewString(s string) Value      { return Value{kind: String, str: s} }
func NewNativeFn(f *NativeFn) Value { return Value{kind: NativeFnKind, native: f} }
func NewUserFn(f *UserFunction) Value {
	return Value{kind: UserFnKind, user: f}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsEmpty() bool    { return v.kind == Empty }
func (v Value) IsNumber() bool   { return v.kind == Number }
func (v Value) IsBool() bool     { return v.kind == Bool }
func (v Value) IsString() bool   { return v.kind == String }
func (v Value) IsCallable() bool { return v.kind == NativeFnKind || v.kind == UserFnKind }

func (v Value) Number() float64 { return v.num }
func (v Value) Bool() bool      { return v.bl }
func (v Value) Str() string     { return v.str }
func (v Value) NativeFn() *NativeFn    { return v.native }
func (v Value) UserFunction() *UserFunction { return v.user }

// IsTrue implements spec.md §4.H truthiness: Bool(x) -> x, Empty ->
// false, everything else (including 0 and "") -> true.
func (v Value) IsTrue() bool {
	switch v.kind {
	case Bool:
		return v.bl
	case Empty:
		return false
	default:
		return true
	}
}

// Equals implements spec.md §4.H equality: Empty == Empty is true,
// Empty == anything-else is false, otherwise structural
// variant-and-payload equality (Number uses IEEE-754 equality).
func (v Value) Equals(other Value) bool {
	if v.kind == Empty || other.kind == Empty {
		return v.kind == Empty && other.kind == Empty
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Number:
		return v.num == other.num
	case Bool:
		return v.bl == other.bl
	case String:
		return v.str == other.str
	case NativeFnKind:
		return v.native.Name == other.native.Name && v.native.Arity == other.native.Arity
	case UserFnKind:
		return v.user == other.user
	default:
		return false
	}
}

// String renders a value's display form per spec.md §6: Number uses
// the host's default float formatting (Go's shortest round-tripping
// decimal, which already omits a trailing ".0" for integral values —
// see SPEC_FULL.md's Open Question resolution on numeric display),
// Bool as true/false, String as its raw contents, Empty as "Empty",
// and callables per their distinct display forms.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Bool:
		if v.bl {
			return "true"
		}
		return "false"
	case String:
		return v.str
	case NativeFnKind:
		return fmt.Sprintf("NativeFn(%s)", v.native.Name)
	case UserFnKind:
		return v.user.DisplayString()
	default:
		return "Empty"
	}
}

// NativeFn is a host-provided callable (spec.md §3): a name for
// display/equality, a declared arity, and the Go function implementing
// it. Interpreter is typed as `any` here to avoid an import cycle with
// interp — callers type-assert it back to *interp.Interpreter.
type NativeFn struct {
	Name  string
	Arity int
	Invoke func(interpreter any, args []Value) (Value, error)
}

// UserFunction is a callable produced by an `incantatio` declaration
// (spec.md §3): immutable once created, carrying its parameter names
// and body AST.
type UserFunction struct {
	Name   string
	Params []string
	Body   []ast.Stmt
}

func (f *UserFunction) DisplayString() string {
	s := f.Name + " :: ("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + ")"
}

func (f *UserFunction) Arity() int { return len(f.Params) }
