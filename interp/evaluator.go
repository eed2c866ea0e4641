// Package interp implements spec.md's evaluator (component H) against
// the flat Environment (component F): statement/expression execution,
// short-circuit logic, truthiness, operator semantics, and the
// user-defined-function call protocol.
//
// The Expression.Evaluate / INode.Execute split pongo2 uses
// (parser_expression.go, tags*.go in the teacher) is the template for
// how this package dispatches: pongo2 type-switches are implicit
// (each AST node has its own Evaluate/Execute method), whereas
// Daemonica's ast package keeps nodes inert, so Interpreter.evalExpr
// and Interpreter.execStmt are explicit type switches over
// ast.Expr/ast.Stmt — the same "one function per precedence/operator
// case" shape, just gathered into two functions instead of scattered
// across many node types.
package interp

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/juju/errors"

	"github.com/daemonica-lang/altars/ast"
	"github.com/daemonica-lang/altars/internal/logging"
	"github.com/daemonica-lang/altars/token"
	"github.com/daemonica-lang/altars/value"
)

// ScopeModel names the binding discipline an Interpreter uses. Only
// Flat is implemented; Lexical is reserved so a future version can
// switch without re-plumbing (spec.md §9 recommendation).
type ScopeModel int

const (
	FlatScope ScopeModel = iota
	LexicalScope
)

// Config controls evaluator policy that spec.md §9 flags as points a
// faithful-but-configurable implementation should expose rather than
// hardcode.
type Config struct {
	// ScopeModel selects the binding discipline. Only FlatScope is
	// implemented; constructing with LexicalScope is a programmer
	// error (New panics) until a lexical implementation exists.
	ScopeModel ScopeModel

	// DivByZeroGuardsBothOperands reproduces the source's unusual
	// guard (spec.md §4.H: "error if either operand equals 0.0") when
	// true (the default, for fidelity). Set false to error only on a
	// zero divisor, the behavior spec.md's §9 flags as "almost
	// certainly" the intended one.
	DivByZeroGuardsBothOperands bool

	// MaxCallDepth bounds function-call recursion so a runaway
	// Daemonica program fails with a runtime error instead of
	// exhausting the host Go stack.
	MaxCallDepth int

	// Stdout is where `scribo` writes. Defaults to os.Stdout.
	Stdout io.Writer
}

// DefaultConfig mirrors spec.md's documented source behavior exactly.
func DefaultConfig() Config {
	return Config{
		ScopeModel:                  FlatScope,
		DivByZeroGuardsBothOperands: true,
		MaxCallDepth:                1000,
		Stdout:                      os.Stdout,
	}
}

// Interpreter executes AST nodes against a current Environment
// (spec.md §4.H). It is the only component that mutates the
// Environment (spec.md §2).
type Interpreter struct {
	cfg   Config
	env   *Environment
	retval *value.Value // nil when no value-carrying Return has fired in the current call (a bare Return also leaves it nil)
	depth int
}

// New constructs an Interpreter with its environment pre-populated by
// whatever native callables the caller supplies (spec.md §1's "a
// table of host-provided callables injected at interpreter
// construction"). Injection itself lives in hostfns/cmd, keeping this
// package free of any host-OS dependency beyond Config.Stdout.
func New(cfg Config, natives map[string]*value.NativeFn) *Interpreter {
	if cfg.ScopeModel != FlatScope {
		panic("interp: only FlatScope is implemented")
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	env := NewEnvironment()
	for name, fn := range natives {
		v := value.NewNativeFn(fn)
		env.Declare(name, &v)
	}
	return &Interpreter{cfg: cfg, env: env}
}

// Environment exposes the interpreter's current environment for
// diagnostic inspection (spec.md §7: "prints the error and the
// current environment to stderr").
func (it *Interpreter) Environment() *Environment { return it.env }

// Run evaluates a program's statements in order, collecting each
// statement's yielded value. On the first error it returns it and
// halts without resetting the environment; a block or user-function
// call that fails has already restored the environment it started
// with (spec.md §4.H contract).
func (it *Interpreter) Run(program []ast.Stmt) ([]value.Value, error) {
	results := make([]value.Value, 0, len(program))
	for _, stmt := range program {
		v, err := it.execStmt(it.env, stmt)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
	return results, nil
}

func (it *Interpreter) runtimeError(line int, tok *token.Token, format string, args ...any) error {
	return token.NewError("evaluator", line, tok, format, args...)
}

// --- statements ---

func (it *Interpreter) execStmt(env *Environment, stmt ast.Stmt) (value.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return it.evalExpr(env, s.Expression)

	case *ast.PrintStmt:
		v, err := it.evalExpr(env, s.Expression)
		if err != nil {
			return value.Value{}, err
		}
		fmt.Fprintln(it.cfg.Stdout, v.String())
		return value.NewEmpty(), nil

	case *ast.VarStmt:
		if s.Initializer != nil {
			v, err := it.evalExpr(env, s.Initializer)
			if err != nil {
				return value.Value{}, err
			}
			env.Declare(s.Name.Lexeme, &v)
		} else {
			env.Declare(s.Name.Lexeme, nil)
		}
		return value.NewEmpty(), nil

	case *ast.Block:
		return it.execBlock(env, s.Statements)

	case *ast.IfStmt:
		cond, err := it.evalExpr(env, s.Condition)
		if err != nil {
			return value.Value{}, err
		}
		if cond.IsTrue() {
			return it.execStmt(env, s.Then)
		} else if s.Else != nil {
			return it.execStmt(env, s.Else)
		}
		return value.NewEmpty(), nil

	case *ast.WhileStmt:
		var last value.Value = value.NewEmpty()
		for {
			// it.env, not the env this case started with, is the
			// authoritative current environment: the previous
			// iteration's body (almost always a block) replaces it
			// wholesale on completion (execBlock), and that
			// replacement must be visible to this iteration's
			// condition and body per the flat-scope leak-back model.
			env = it.env
			cond, err := it.evalExpr(env, s.Condition)
			if err != nil {
				return value.Value{}, err
			}
			if !cond.IsTrue() {
				break
			}
			env = it.env
			last, err = it.execStmt(env, s.Body)
			if err != nil {
				return value.Value{}, err
			}
			if it.retval != nil {
				break
			}
		}
		return last, nil

	case *ast.ReturnStmt:
		if s.Value != nil {
			v, err := it.evalExpr(env, s.Value)
			if err != nil {
				return value.Value{}, err
			}
			it.retval = &v
			return v, nil
		}
		it.retval = nil
		return value.NewEmpty(), nil

	case *ast.FunctionStmt:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Lexeme
		}
		fn := &value.UserFunction{Name: s.Name.Lexeme, Params: params, Body: s.Body}
		v := value.NewUserFn(fn)
		env.Declare(s.Name.Lexeme, &v)
		return value.NewEmpty(), nil

	case *ast.ClassStmt:
		return value.Value{}, it.runtimeError(s.Name.Line, &s.Name,
			"class declarations are reserved and not evaluated")

	default:
		return value.Value{}, errors.Errorf("interp: unhandled statement type %T", stmt)
	}
}

// execBlock snapshots env into it.env and executes stmts directly
// against it.env — not a locally cached copy — so that a statement
// which itself replaces it.env wholesale (a nested block or function
// call, per the flat-scope leak-back model) is immediately visible to
// every later sibling statement in this same block, not just to
// whatever runs after the block as a whole finishes. On error, the
// environment is rolled back to the one the block started with and
// the error propagates.
func (it *Interpreter) execBlock(env *Environment, stmts []ast.Stmt) (value.Value, error) {
	it.env = env.Clone()
	last := value.NewEmpty()
	for _, stmt := range stmts {
		v, err := it.execStmt(it.env, stmt)
		if err != nil {
			it.env = env
			return value.Value{}, err
		}
		last = v
		if it.retval != nil {
			break
		}
	}
	return last, nil
}

// --- expressions ---

func (it *Interpreter) evalExpr(env *Environment, expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return literalToValue(e.Value), nil

	case *ast.Grouping:
		return it.evalExpr(env, e.Inner)

	case *ast.Variable:
		v, ok := env.Get(e.Name.Lexeme)
		if !ok {
			return value.Value{}, it.runtimeError(e.Name.Line, &e.Name, "undefined variable '%s'", e.Name.Lexeme)
		}
		return v, nil

	case *ast.Assign:
		v, err := it.evalExpr(env, e.Value)
		if err != nil {
			return value.Value{}, err
		}
		if !env.Assign(e.Name.Lexeme, v) {
			return value.Value{}, it.runtimeError(e.Name.Line, &e.Name, "undefined variable '%s'", e.Name.Lexeme)
		}
		return v, nil

	case *ast.Unary:
		return it.evalUnary(env, e)

	case *ast.Binary:
		return it.evalBinary(env, e)

	case *ast.Logical:
		return it.evalLogical(env, e)

	case *ast.Call:
		return it.evalCall(env, e)

	case *ast.Get, *ast.Set, *ast.This:
		return value.Value{}, errors.Errorf("interp: %T is reserved and not evaluated", expr)

	default:
		return value.Value{}, errors.Errorf("interp: unhandled expression type %T", expr)
	}
}

func literalToValue(lit token.Literal) value.Value {
	switch lit.Kind {
	case token.LiteralNumber:
		return value.NewNumber(lit.Num)
	case token.LiteralString:
		return value.NewString(lit.Str)
	case token.LiteralBool:
		return value.NewBool(lit.Bool)
	default:
		return value.NewEmpty()
	}
}

func (it *Interpreter) evalUnary(env *Environment, e *ast.Unary) (value.Value, error) {
	operand, err := it.evalExpr(env, e.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op.Kind {
	case token.Minus:
		if !operand.IsNumber() {
			return value.Value{}, it.runtimeError(e.Op.Line, &e.Op, "operand of unary '-' must be a number")
		}
		return value.NewNumber(-operand.Number()), nil
	case token.Bang:
		return value.NewBool(!operand.IsTrue()), nil
	default:
		return value.Value{}, errors.Errorf("interp: unhandled unary operator %s", e.Op.Kind)
	}
}

// evalBinary implements spec.md §4.H's binary-operator table: string
// concatenation when both operands are strings and op is '+'; '==' and
// '!=' compare any two values via Equals; every other operator needs
// both operands to be numbers.
func (it *Interpreter) evalBinary(env *Environment, e *ast.Binary) (value.Value, error) {
	left, err := it.evalExpr(env, e.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := it.evalExpr(env, e.Right)
	if err != nil {
		return value.Value{}, err
	}

	if e.Op.Kind == token.Plus && left.IsString() && right.IsString() {
		return value.NewString(left.Str() + right.Str()), nil
	}

	switch e.Op.Kind {
	case token.EqualEqual:
		return value.NewBool(left.Equals(right)), nil
	case token.BangEqual:
		return value.NewBool(!left.Equals(right)), nil
	}

	if !left.IsNumber() || !right.IsNumber() {
		return value.Value{}, it.runtimeError(e.Op.Line, &e.Op, "operands of '%s' must be numbers (or strings, for '+')", e.Op.Lexeme)
	}
	l, r := left.Number(), right.Number()

	switch e.Op.Kind {
	case token.Minus:
		return value.NewNumber(l - r), nil
	case token.Star:
		return value.NewNumber(l * r), nil
	case token.Plus:
		return value.NewNumber(l + r), nil
	case token.Slash:
		zeroGuard := r == 0
		if it.cfg.DivByZeroGuardsBothOperands {
			zeroGuard = zeroGuard || l == 0
		}
		if zeroGuard {
			return value.Value{}, it.runtimeError(e.Op.Line, &e.Op, "division by zero")
		}
		return value.NewNumber(l / r), nil
	case token.Greater:
		return value.NewBool(l > r), nil
	case token.GreaterEqual:
		return value.NewBool(l >= r), nil
	case token.Less:
		return value.NewBool(l < r), nil
	case token.LessEqual:
		return value.NewBool(l <= r), nil
	default:
		return value.Value{}, errors.Errorf("interp: unhandled binary operator %s", e.Op.Kind)
	}
}

// evalLogical implements spec.md §4.H short-circuit semantics: Or
// yields left when left is truthy (right unevaluated), else yields
// right; And yields right when left is truthy, else yields left.
func (it *Interpreter) evalLogical(env *Environment, e *ast.Logical) (value.Value, error) {
	left, err := it.evalExpr(env, e.Left)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op.Kind {
	case token.Or:
		if left.IsTrue() {
			return left, nil
		}
		return it.evalExpr(env, e.Right)
	case token.And:
		if left.IsTrue() {
			return it.evalExpr(env, e.Right)
		}
		return left, nil
	default:
		return value.Value{}, errors.Errorf("interp: unhandled logical operator %s", e.Op.Kind)
	}
}

// evalCall implements the function-call protocol of spec.md §4.H:
// resolve the callee, evaluate arguments left-to-right, then dispatch
// on the tagged Callable (NativeFn vs UserFn).
func (it *Interpreter) evalCall(env *Environment, e *ast.Call) (value.Value, error) {
	callee, err := it.evalExpr(env, e.Callee)
	if err != nil {
		return value.Value{}, err
	}
	if !callee.IsCallable() {
		return value.Value{}, it.runtimeError(e.Paren.Line, &e.Paren, "value is not callable")
	}

	args := make([]value.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := it.evalExpr(env, a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	switch callee.Kind() {
	case value.NativeFnKind:
		return it.callNative(callee.NativeFn(), args, e.Paren)
	case value.UserFnKind:
		return it.callUser(env, callee.UserFunction(), args, e.Paren)
	default:
		return value.Value{}, errors.Errorf("interp: unreachable callable kind")
	}
}

func (it *Interpreter) callNative(fn *value.NativeFn, args []value.Value, paren token.Token) (value.Value, error) {
	if len(args) != fn.Arity {
		return value.Value{}, it.runtimeError(paren.Line, &paren,
			"function '%s' expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	v, err := fn.Invoke(it, args)
	if err != nil {
		return value.Value{}, token.Wrap("evaluator", paren.Line, &paren, err, "native function '%s'", fn.Name)
	}
	return v, nil
}

// callUser implements spec.md §4.H's five-step user-function call
// protocol: clone the caller's environment, bind parameters, execute
// the body as a block, adopt the resulting environment on success
// (the flat-scope leak-back-to-caller behavior), and restore the
// caller's pre-call environment on error.
func (it *Interpreter) callUser(env *Environment, fn *value.UserFunction, args []value.Value, paren token.Token) (value.Value, error) {
	if len(args) != fn.Arity() {
		return value.Value{}, it.runtimeError(paren.Line, &paren,
			"function '%s' expects %d argument(s), got %d", fn.Name, fn.Arity(), len(args))
	}
	it.depth++
	defer func() { it.depth-- }()
	if it.depth > it.cfg.MaxCallDepth {
		return value.Value{}, it.runtimeError(paren.Line, &paren, "maximum call depth exceeded")
	}
	defer logCallDuration(fn.Name, time.Now())

	callEnv := env.Clone()
	for i, p := range fn.Params {
		v := args[i]
		callEnv.Declare(p, &v)
	}

	savedRetval := it.retval
	it.retval = nil

	if _, err := it.execBlock(callEnv, fn.Body); err != nil {
		it.env = env // restore caller's pre-call environment
		it.retval = savedRetval
		return value.Value{}, err
	}

	returned := value.NewEmpty()
	if it.retval != nil {
		returned = *it.retval
	}
	it.retval = savedRetval
	return returned, nil
}

// logCallDuration is a small diagnostic hook used when debug logging
// is enabled; grounded on pongo2's logf-gated debug tracing.
func logCallDuration(name string, start time.Time) {
	logging.Debugf("call %s took %s", name, time.Since(start))
}
