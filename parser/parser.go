// Package parser implements Daemonica's recursive-descent grammar
// (spec.md §4.D): one-token lookahead, no backtracking, for-loop
// desugaring at parse time.
//
// The cursor primitives (current/consume/check/match/expect) are
// carried over in shape from pongo2's Parser cursor API (parser.go in
// the teacher): a token slice plus an index, with match consuming on
// success and leaving the cursor untouched on failure.
package parser

import (
	"github.com/juju/errors"

	"github.com/daemonica-lang/altars/ast"
	"github.com/daemonica-lang/altars/token"
)

// Parser walks a token slice and builds an AST.
type Parser struct {
	name   string
	tokens []token.Token
	idx    int
}

func New(name string, tokens []token.Token) *Parser {
	return &Parser{name: name, tokens: tokens}
}

// Parse parses a full program: zero or more declarations terminated
// by EOF (spec.md §4.D: `program := declaration* EOF`).
func Parse(name string, tokens []token.Token) ([]ast.Stmt, error) {
	p := New(name, tokens)
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// --- cursor primitives ---

func (p *Parser) current() token.Token {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *Parser) consume() token.Token {
	t := p.current()
	if !p.isAtEnd() {
		p.idx++
	}
	return t
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current().Kind == kind
}

// match consumes and returns true if the current token is one of the
// given kinds.
func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.consume()
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or fails with a
// positioned parse error.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.consume(), nil
	}
	return token.Token{}, p.errorf(msg)
}

func (p *Parser) errorf(msg string) error {
	tok := p.current()
	return errors.Annotatef(
		token.NewError("parser", tok.Line, &tok, "%s", msg),
		"parsing %s", p.name,
	)
}

// --- declarations & statements ---

func (p *Parser) declaration() (ast.Stmt, error) {
	if p.match(token.Fn) {
		return p.functionDecl()
	}
	if p.match(token.Var) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *Parser) functionDecl() (ast.Stmt, error) {
	name, err := p.expect(token.Identifier, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LeftParen, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			param, err := p.expect(token.Identifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LeftBrace, "expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDecl() (ast.Stmt, error) {
	name, err := p.expect(token.Identifier, "expected variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, Initializer: init}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LeftBrace):
		stmts, err := p.blockStatements()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.For):
		return p.forStatement()
	default:
		return p.exprStatement()
	}
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Expression: expr}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.tokens[p.idx-1]
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) blockStatements() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RightBrace, "expected '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.expect(token.LeftParen, "expected '(' after 'dum'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.expect(token.LeftParen, "expected '(' after 'si'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Condition: cond, Then: then, Else: elseBranch}, nil
}

// forStatement parses `enim(init; cond; incr) body` and desugars it
// at parse time into Block[init?, While(cond ?? true, Block[body, incr?])]
// per spec.md §4.D, removing any dedicated For node from the AST. Without
// an init the While is returned with no enclosing Block, and without an
// incr the original body is the While's body with no extra Block.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.expect(token.LeftParen, "expected '(' after 'enim'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.match(token.Var):
		init, err = p.varDecl()
	default:
		init, err = p.exprStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RightParen, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.ExprStmt{Expression: incr}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: token.BoolLiteral(true)}
	}
	loop := &ast.WhileStmt{Condition: cond, Body: body}

	if init == nil {
		return loop, nil
	}
	return &ast.Block{Statements: []ast.Stmt{init, loop}}, nil
}

func (p *Parser) exprStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expression: expr}, nil
}
