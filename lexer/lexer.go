// Package lexer turns Daemonica source text into a token sequence.
//
// The scanner is a state machine in the same shape as pongo2's
// template lexer: a cursor over the input (next/backup/peek/accept/
// acceptRun), a start/pos pair delimiting the token currently being
// built, and state functions that return the next state to run.
// Daemonica has no HTML passthrough and no `{{ }}` delimiters, so the
// state machine here is simpler than pongo2's: stateStart dispatches
// directly on the next rune instead of scanning for tag boundaries.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/daemonica-lang/altars/token"
)

const eof rune = -1

var identifierStartChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
var identifierChars = identifierStartChars + "0123456789"
var digitChars = "0123456789"

// stateFn is a lexer state: it consumes some input and returns the
// next state to enter, or nil to signal that scanning is complete.
type stateFn func(*Lexer) stateFn

// Lexer scans Daemonica source into a flat token slice, accumulating
// every lex error it finds rather than stopping at the first one
// (spec.md §4.B: "accumulates diagnostics and reports all of them").
type Lexer struct {
	name  string
	input string

	start int
	pos   int
	width int

	line      int
	startLine int

	tokens []token.Token
	errs   []error
}

// New constructs a Lexer over the given source. name is used only for
// diagnostics (e.g. a filename, or "<stdin>" for REPL input).
func New(name, input string) *Lexer {
	return &Lexer{
		name:      name,
		input:     input,
		line:      1,
		startLine: 1,
	}
}

// Scan runs the lexer to completion and returns the resulting token
// stream, always EOF-terminated. On any lexical error it returns a
// nil token slice and a single error aggregating every diagnostic
// found, per spec.md §4.B and §7.
func Scan(name, input string) ([]token.Token, error) {
	l := New(name, input)
	for state := stateStart; state != nil; {
		state = state(l)
	}
	l.emit(token.EOF)

	if len(l.errs) > 0 {
		return nil, errors.Annotatef(joinErrors(l.errs), "lexing %s", name)
	}
	return l.tokens, nil
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (l *Lexer) value() string { return l.input[l.start:l.pos] }

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r := rune(l.input[l.pos])
	l.width = 1
	// Daemonica source is ASCII-keyword driven; decode wider runes
	// when the lead byte indicates a multi-byte UTF-8 sequence so
	// string literals may still carry non-ASCII text.
	if r >= 0x80 {
		for w := 2; w <= 4 && l.pos+w <= len(l.input); w++ {
			if isValidUTF8Prefix(l.input[l.pos : l.pos+w]) {
				l.width = w
				break
			}
		}
	}
	l.pos += l.width
	return r
}

func isValidUTF8Prefix(s string) bool {
	for _, r := range s {
		return r != 0xFFFD
	}
	return false
}

func (l *Lexer) backup() { l.pos -= l.width }

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func (l *Lexer) emit(kind token.Kind) {
	l.emitLiteral(kind, token.EmptyLiteral())
}

func (l *Lexer) emitLiteral(kind token.Kind, lit token.Literal) {
	l.tokens = append(l.tokens, token.New(kind, l.value(), lit, l.startLine))
	l.start = l.pos
	l.startLine = l.line
}

func (l *Lexer) errorf(format string, args ...any) {
	l.errs = append(l.errs, errors.Errorf("line %d: %s", l.startLine, fmt.Sprintf(format, args...)))
	l.start = l.pos
	l.startLine = l.line
}

func stateStart(l *Lexer) stateFn {
	for {
		r := l.peek()
		switch {
		case r == eof:
			return nil
		case r == ' ' || r == '\r' || r == '\t':
			l.next()
			l.ignore()
		case r == '\n':
			l.next()
			l.line++
			l.ignore()
		case r == '/':
			if next := stateSlash(l); next != nil {
				return next
			}
		case strings.ContainsRune(identifierStartChars, r):
			return stateIdentifier
		case strings.ContainsRune(digitChars, r):
			return stateNumber
		case r == '"':
			return stateString
		default:
			return stateSymbol
		}
	}
}

// stateSlash disambiguates `/`, `//...`, and `/* ... */`, consuming a
// comment or emitting a Slash token. It always returns nil, so the
// caller loop in stateStart carries on scanning.
func stateSlash(l *Lexer) stateFn {
	if strings.HasPrefix(l.input[l.pos:], "//") {
		for l.peek() != '\n' && l.peek() != eof {
			l.next()
		}
		l.ignore()
		return nil
	}
	if strings.HasPrefix(l.input[l.pos:], "/*") {
		l.next()
		l.next()
		for {
			if strings.HasPrefix(l.input[l.pos:], "*/") {
				l.next()
				l.next()
				l.ignore()
				return nil
			}
			r := l.next()
			if r == eof {
				l.errorf("unterminated block comment")
				return nil
			}
			if r == '\n' {
				l.line++
			}
		}
	}
	l.next()
	l.emit(token.Slash)
	return nil
}

func stateIdentifier(l *Lexer) stateFn {
	l.acceptRun(identifierChars)
	val := l.value()
	if kind, ok := token.Keywords[val]; ok {
		switch kind {
		case token.True:
			l.emitLiteral(kind, token.BoolLiteral(true))
		case token.False:
			l.emitLiteral(kind, token.BoolLiteral(false))
		default:
			l.emit(kind)
		}
		return stateStart
	}
	l.emit(token.Identifier)
	return stateStart
}

func stateNumber(l *Lexer) stateFn {
	l.acceptRun(digitChars)
	if l.peek() == '.' {
		// A trailing '.' with no fractional digits is not part of the
		// number (spec.md §4.B) — peek one past the dot before
		// committing to consuming it.
		save := l.pos
		l.next() // consume '.'
		if strings.ContainsRune(digitChars, l.peek()) {
			l.acceptRun(digitChars)
		} else {
			l.pos = save
		}
	}
	n, err := strconv.ParseFloat(l.value(), 64)
	if err != nil {
		l.errorf("invalid numeric literal %q", l.value())
		return stateStart
	}
	l.emitLiteral(token.Number, token.NumberLiteral(n))
	return stateStart
}

func stateString(l *Lexer) stateFn {
	l.next() // consume opening quote
	l.ignore()
	for {
		r := l.next()
		switch r {
		case eof:
			l.errorf("unterminated string")
			return stateStart
		case '\n':
			l.line++
		case '"':
			l.backup()
			str := l.value()
			l.emitLiteral(token.String, token.StringLiteral(str))
			l.next() // consume closing quote
			l.ignore()
			return stateStart
		}
	}
}

var twoCharSymbols = map[string]token.Kind{
	"!=": token.BangEqual,
	"==": token.EqualEqual,
	">=": token.GreaterEqual,
	"<=": token.LessEqual,
}

var oneCharSymbols = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	',': token.Comma,
	'.': token.Dot,
	'-': token.Minus,
	'+': token.Plus,
	';': token.Semicolon,
	'*': token.Star,
	'!': token.Bang,
	'=': token.Equal,
	'>': token.Greater,
	'<': token.Less,
}

func stateSymbol(l *Lexer) stateFn {
	two := l.input[l.pos:min(l.pos+2, len(l.input))]
	if kind, ok := twoCharSymbols[two]; ok {
		l.next()
		l.next()
		l.emit(kind)
		return stateStart
	}
	r := l.next()
	if kind, ok := oneCharSymbols[r]; ok {
		l.emit(kind)
		return stateStart
	}
	l.errorf("unrecognised character %q", string(r))
	return stateStart
}
