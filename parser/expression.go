package parser

// Expression grammar, precedence low to high (spec.md §4.D):
//
//	expression   := assignment
//	assignment   := IDENT "=" assignment | logicOr
//	logicOr      := logicAnd ("vel" logicAnd)*
//	logicAnd     := equality ("et" equality)*
//	equality     := comparison (("==" | "!=") comparison)*
//	comparison   := term ((">"|">="|"<"|"<=") term)*
//	term         := factor (("+"|"-") factor)*
//	factor       := unary (("*"|"/") unary)*
//	unary        := ("!"|"-") unary | call
//	call         := primary ("(" args? ")")*
//	primary      := "mendacium" | "verum" | "nihil" | NUMBER | STRING | IDENT | "(" expression ")"
//
// Each precedence level is a method that parses one operand at its
// own level and then loops consuming operators at exactly that level,
// recursing one level down for each operand — the same "each level
// recurses into the next" shape as pongo2's
// parseRelationalExpression/parseSimpleExpression/parseTerm/
// parsePower/parseFactor ladder in parser_expression.go, rebuilt here
// with standard left-associative loops instead of pongo2's
// right-recursive chains (pongo2's chain shape is for template
// expressions without assignment; Daemonica needs an explicit
// assignment level above logicOr, so the ladder is re-derived rather
// than reused verbatim).

import (
	"github.com/daemonica-lang/altars/ast"
	"github.com/daemonica-lang/altars/token"
)

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.tokens[p.idx-1]
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}, nil
		}
		return nil, token.NewError("parser", equals.Line, &equals, "invalid assignment target")
	}

	return expr, nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.Or) {
		op := p.consume()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(token.And) {
		op := p.consume()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.EqualEqual) || p.check(token.BangEqual) {
		op := p.consume()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(token.Greater) || p.check(token.GreaterEqual) || p.check(token.Less) || p.check(token.LessEqual) {
		op := p.consume()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		op := p.consume()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(token.Star) || p.check(token.Slash) {
		op := p.consume()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.consume()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if p.match(token.LeftParen) {
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.expect(token.RightParen, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.LiteralExpr{Value: token.BoolLiteral(false)}, nil
	case p.match(token.True):
		return &ast.LiteralExpr{Value: token.BoolLiteral(true)}, nil
	case p.match(token.None):
		return &ast.LiteralExpr{Value: token.EmptyLiteral()}, nil
	case p.check(token.Number), p.check(token.String):
		tok := p.consume()
		return &ast.LiteralExpr{Value: tok.Literal}, nil
	case p.check(token.Identifier):
		return &ast.Variable{Name: p.consume()}, nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: expr}, nil
	default:
		return nil, p.errorf("expected expression")
	}
}
