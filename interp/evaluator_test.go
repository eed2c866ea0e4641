package interp_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daemonica-lang/altars/ast"
	"github.com/daemonica-lang/altars/interp"
	"github.com/daemonica-lang/altars/lexer"
	"github.com/daemonica-lang/altars/parser"
	"github.com/daemonica-lang/altars/token"
	"github.com/daemonica-lang/altars/value"
)

func run(t *testing.T, src string) ([]value.Value, *interp.Interpreter, string) {
	t.Helper()
	toks, err := lexer.Scan("<test>", src)
	require.NoError(t, err)
	program, err := parser.Parse("<test>", toks)
	require.NoError(t, err)

	var out bytes.Buffer
	cfg := interp.DefaultConfig()
	cfg.Stdout = &out
	it := interp.New(cfg, nil)
	results, err := it.Run(program)
	require.NoError(t, err)
	return results, it, out.String()
}

func runExpectErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Scan("<test>", src)
	require.NoError(t, err)
	program, err := parser.Parse("<test>", toks)
	require.NoError(t, err)
	it := interp.New(interp.DefaultConfig(), nil)
	_, err = it.Run(program)
	return err
}

// Scenario 1 (spec.md §8)
func TestScenarioArithmetic(t *testing.T) {
	results, _, _ := run(t, "5 + 10;")
	require.Len(t, results, 1)
	assert.True(t, results[0].IsNumber())
	assert.EqualValues(t, 15, results[0].Number())
}

// Scenario 2
func TestScenarioStringConcat(t *testing.T) {
	results, _, _ := run(t, `"Hello, " + "World!";`)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsString())
	assert.Equal(t, "Hello, World!", results[0].Str())
}

// Scenario 3: flat-scope leak-back from a function call
func TestScenarioFlatScopeLeaksFromFunctionCall(t *testing.T) {
	_, it, _ := run(t, `ligamen testVal = 0; incantatio fun() { testVal = 1337; } fun();`)
	v, ok := it.Environment().Get("testVal")
	require.True(t, ok)
	assert.EqualValues(t, 1337, v.Number())
}

// Scenario 4
func TestScenarioWhileLoop(t *testing.T) {
	_, it, _ := run(t, `ligamen a = 0; dum(a < 3) { a = a + 1; }`)
	v, ok := it.Environment().Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 3, v.Number())
}

// Scenario 5
func TestScenarioIfElseOutput(t *testing.T) {
	_, _, out := run(t, `si(1 == 2) { scribo "x"; } aliter { scribo "y"; }`)
	assert.Equal(t, "y\n", out)
}

// Scenario 6
func TestScenarioForLoopOutput(t *testing.T) {
	_, _, out := run(t, `enim(ligamen i = 0; i < 3; i = i + 1) { scribo i; }`)
	assert.Equal(t, "0\n1\n2\n", out)
}

// Scenario 7
func TestScenarioDivisionByZero(t *testing.T) {
	err := runExpectErr(t, "100 / 0;")
	assert.Error(t, err)
}

func TestDivisionByZeroGuardsZeroDividendTooByDefault(t *testing.T) {
	// spec.md §4.H / §9: the source errors when EITHER operand is
	// zero, so 0/5 is also an error under DefaultConfig fidelity mode.
	err := runExpectErr(t, "0 / 5;")
	assert.Error(t, err)
}

func TestDivisionByZeroCanBeConfiguredToOnlyGuardDivisor(t *testing.T) {
	toks, err := lexer.Scan("<test>", "0 / 5;")
	require.NoError(t, err)
	program, err := parser.Parse("<test>", toks)
	require.NoError(t, err)

	cfg := interp.DefaultConfig()
	cfg.DivByZeroGuardsBothOperands = false
	it := interp.New(cfg, nil)
	results, err := it.Run(program)
	require.NoError(t, err)
	assert.EqualValues(t, 0, results[0].Number())
}

func TestUndefinedVariableErrors(t *testing.T) {
	err := runExpectErr(t, "scribo undefinedThing;")
	assert.Error(t, err)
}

func TestUndefinedAssignmentTargetErrors(t *testing.T) {
	err := runExpectErr(t, "neverDeclared = 1;")
	assert.Error(t, err)
}

func TestCallingNonCallableErrors(t *testing.T) {
	err := runExpectErr(t, "ligamen x = 5; x();")
	assert.Error(t, err)
}

func TestArityMismatchErrors(t *testing.T) {
	err := runExpectErr(t, "incantatio add(a, b) { beneficium a + b; } add(1);")
	assert.Error(t, err)
}

func TestUserFunctionReturnValue(t *testing.T) {
	results, _, _ := run(t, "incantatio add(a, b) { beneficium a + b; } add(2, 3);")
	require.Len(t, results, 2)
	assert.EqualValues(t, 5, results[1].Number())
}

func TestFunctionWithoutReturnYieldsEmpty(t *testing.T) {
	results, _, _ := run(t, "incantatio noop() { ligamen x = 1; } noop();")
	require.Len(t, results, 2)
	assert.True(t, results[1].IsEmpty())
}

// Truthiness invariant (spec.md §8 property 4)
func TestDoubleNegationInvariant(t *testing.T) {
	results, _, _ := run(t, "!!verum; !!mendacium;")
	assert.True(t, results[0].Bool())
	assert.False(t, results[1].Bool())
}

func TestNegationOfNonEmptyNonBoolIsFalse(t *testing.T) {
	results, _, _ := run(t, `!5; !"x";`)
	assert.False(t, results[0].Bool())
	assert.False(t, results[1].Bool())
}

func TestNegationOfEmptyIsTrue(t *testing.T) {
	results, _, _ := run(t, "!nihil;")
	assert.True(t, results[0].Bool())
}

// Short-circuit logic
func TestLogicOrShortCircuitsAndYieldsNonRightValue(t *testing.T) {
	// the right side would be a runtime error if evaluated
	results, _, _ := run(t, `verum vel (1/0);`)
	assert.True(t, results[0].Bool())
}

func TestLogicAndYieldsRightWhenLeftTruthy(t *testing.T) {
	results, _, _ := run(t, `verum et 42;`)
	assert.EqualValues(t, 42, results[0].Number())
}

func TestLogicAndYieldsLeftWhenLeftFalsy(t *testing.T) {
	results, _, _ := run(t, `mendacium et (1/0);`)
	assert.False(t, results[0].Bool())
}

// For-loop / while-desugaring equivalence (spec.md §8 property 6)
func TestForLoopEquivalentToHandWrittenWhileDesugaring(t *testing.T) {
	forResults, _, forOut := run(t, `enim(ligamen i = 0; i < 3; i = i + 1) { scribo i; }`)
	whileResults, _, whileOut := run(t, `{ ligamen i = 0; dum(i < 3) { scribo i; i = i + 1; } }`)
	assert.Equal(t, forOut, whileOut)
	assert.Equal(t, len(forResults), len(whileResults))
}

// The grammar has no class declaration, so the reserved node is built
// directly rather than parsed from source.
func TestReservedClassNodeRejected(t *testing.T) {
	name := token.New(token.Identifier, "Foo", token.EmptyLiteral(), 1)
	it := interp.New(interp.DefaultConfig(), nil)
	_, err := it.Run([]ast.Stmt{&ast.ClassStmt{Name: name}})
	assert.Error(t, err)
}

func TestBlockScopeDoesNotLeakIntoParentDeclarationsOnError(t *testing.T) {
	// When a block errors partway through, the prior environment
	// (pre-block) must be left untouched.
	toks, err := lexer.Scan("<test>", `ligamen x = 1; { ligamen y = 2; scribo (1/0); }`)
	require.NoError(t, err)
	program, err := parser.Parse("<test>", toks)
	require.NoError(t, err)
	it := interp.New(interp.DefaultConfig(), nil)
	_, err = it.Run(program)
	require.Error(t, err)

	_, found := it.Environment().Get("y")
	assert.False(t, found, "block's bindings should not have propagated on error")
	v, found := it.Environment().Get("x")
	require.True(t, found)
	assert.EqualValues(t, 1, v.Number())
}

func TestDeclaredButUninitializedVariableReadsAsEmpty(t *testing.T) {
	results, _, _ := run(t, "ligamen x; x;")
	require.Len(t, results, 2)
	assert.True(t, results[1].IsEmpty())
}

func TestAstUnaryMinusRequiresNumber(t *testing.T) {
	err := runExpectErr(t, `-"nope";`)
	assert.Error(t, err)
}

// A nested block's mutation must be visible to later statements in the
// same enclosing block, not just to code that runs after the enclosing
// block finishes (flat-scope leak-back, spec.md §4.H/§9).
func TestNestedBlockMutationVisibleToLaterSiblingStatement(t *testing.T) {
	_, _, out := run(t, `{ ligamen x = 1; { x = 2; } scribo x; }`)
	assert.Equal(t, "2\n", out)
}

func TestGroupingPassesThrough(t *testing.T) {
	results, _, _ := run(t, "(1 + 2) * 3;")
	assert.EqualValues(t, 9, results[0].Number())
}
