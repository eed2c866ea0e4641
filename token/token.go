// Package token defines the lexical atoms produced by the lexer and
// consumed by the parser: token kinds, literal values, and the
// positioned-error shape used across the pipeline for diagnostics.
package token

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind classifies a Token. The zero value is LeftParen.
type Kind int

const (
	// single-char punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// one/two-char operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Class
	Else
	False
	Fn
	For
	If
	None
	Or
	Return
	Super
	Self_
	True
	Var
	While
	Call
	Print

	EOF
)

var kindNames = map[Kind]string{
	LeftParen: "LeftParen", RightParen: "RightParen",
	LeftBrace: "LeftBrace", RightBrace: "RightBrace",
	Comma: "Comma", Dot: "Dot", Minus: "Minus", Plus: "Plus",
	Semicolon: "Semicolon", Slash: "Slash", Star: "Star",
	Bang: "Bang", BangEqual: "BangEqual",
	Equal: "Equal", EqualEqual: "EqualEqual",
	Greater: "Greater", GreaterEqual: "GreaterEqual",
	Less: "Less", LessEqual: "LessEqual",
	Identifier: "Identifier", String: "String", Number: "Number",
	And: "And", Class: "Class", Else: "Else", False: "False", Fn: "Fn",
	For: "For", If: "If", None: "None", Or: "Or", Return: "Return",
	Super: "Super", Self_: "Self_", True: "True", Var: "Var",
	While: "While", Call: "Call", Print: "Print", EOF: "EOF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the Daemonica surface spelling to its token kind.
// Maximal munch at the lexer level means this table is only consulted
// after a full identifier has been scanned.
var Keywords = map[string]Kind{
	"et":         And,
	"vel":        Or,
	"si":         If,
	"aliter":     Else,
	"verum":      True,
	"mendacium":  False,
	"incantatio": Fn,
	"beneficium": Return,
	"enim":       For,
	"dum":        While,
	"nihil":      None,
	"anima":      Self_,
	"ligamen":    Var,
	"daemonium":  Class,
	"cognatio":   Super,
	"invocabo":   Call,
	"scribo":     Print,
}

// LiteralKind tags the variant held by a Literal.
type LiteralKind int

const (
	LiteralEmpty LiteralKind = iota
	LiteralNumber
	LiteralString
	LiteralBool
)

// Literal is the immutable value a lexer attaches to String/Number/
// keyword-true/keyword-false tokens. It is a closed, four-variant
// tagged union (spec.md §3); the zero value is LiteralEmpty.
type Literal struct {
	Kind LiteralKind
	Num  float64
	Str  string
	Bool bool
}

func EmptyLiteral() Literal           { return Literal{Kind: LiteralEmpty} }
func NumberLiteral(n float64) Literal { return Literal{Kind: LiteralNumber, Num: n} }
func StringLiteral(s string) Literal  { return Literal{Kind: LiteralString, Str: s} }
func BoolLiteral(b bool) Literal      { return Literal{Kind: LiteralBool, Bool: b} }

func (l Literal) String() string {
	switch l.Kind {
	case LiteralNumber:
		return fmt.Sprintf("%g", l.Num)
	case LiteralString:
		return l.Str
	case LiteralBool:
		if l.Bool {
			return "verum"
		}
		return "mendacium"
	default:
		return "nihil"
	}
}

// Token is a single lexical element: its kind, the source substring it
// came from, any attached literal value, and its line number. Every
// Token produced by the lexer has a nonzero Line (spec.md §3 invariant).
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal Literal
	Line    int
}

func New(kind Kind, lexeme string, lit Literal, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Literal: lit, Line: line}
}

func (t Token) String() string {
	return fmt.Sprintf("%s '%s' (line %d)", t.Kind, t.Lexeme, t.Line)
}

// PositionedError is the diagnostic shape shared by the parser and
// evaluator: a human-readable message anchored to a source line,
// optionally naming the offending token and the pipeline stage
// ("parser", "evaluator") that raised it. The lexer reports its
// accumulated diagnostics as plain juju/errors values instead.
type PositionedError struct {
	Stage   string
	Line    int
	Token   *Token
	Cause   error
	Message string
}

func (e *PositionedError) Error() string {
	s := fmt.Sprintf("[%s error", e.Stage)
	if e.Line > 0 {
		s += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Token != nil {
		s += fmt.Sprintf(" near '%s'", e.Token.Lexeme)
	}
	s += "] " + e.Message
	return s
}

func (e *PositionedError) Unwrap() error { return e.Cause }

// NewError builds a PositionedError whose Cause is a fresh juju/errors
// error carrying the same message, so callers further up the pipeline
// can still errors.Trace/errors.Cause through it. Use Wrap to attach an
// existing cause.
func NewError(stage string, line int, tok *Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &PositionedError{
		Stage:   stage,
		Line:    line,
		Token:   tok,
		Cause:   errors.New(msg),
		Message: msg,
	}
}

// Wrap annotates an existing error with pipeline-stage position info,
// preserving it as the Cause chain via errors.Annotatef.
func Wrap(stage string, line int, tok *Token, cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &PositionedError{
		Stage:   stage,
		Line:    line,
		Token:   tok,
		Cause:   errors.Annotatef(cause, "%s", msg),
		Message: msg,
	}
}
