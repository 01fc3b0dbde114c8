package frontend

import (
	"strconv"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/source"
)

// numberParselet parses a number (a literal or a parenthesized expression)
// and, if a die operator follows, the dice roll built from it:
//
//	number 'd' number
//	number 'd' number ('h'|'l') number
//
// Dice operators are non-associative so another dice operator after a
// complete roll is a syntax error.
func numberParselet(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	amount, msg := parseNumberFrom(p, tok)
	if msg != nil {
		return nil, msg
	}

	if !p.Lexer.PeekMatches(DieSymbol) {
		return amount, nil
	}

	p.Lexer.Next()

	size, msg := parseNumber(p)
	if msg != nil {
		return nil, msg
	}

	expr = &RollExpr{Amount: amount, Size: size}

	if next, _ := p.Lexer.Peek(); next.Symbol == KeepHighSymbol || next.Symbol == KeepLowSymbol {
		p.Lexer.Next()

		keep, msg := parseNumber(p)
		if msg != nil {
			return nil, msg
		}

		expr = &KeptRollExpr{
			Amount:      amount,
			Size:        size,
			Keep:        keep,
			KeepHighest: next.Symbol == KeepHighSymbol,
		}
	}

	switch next, _ := p.Lexer.Peek(); next.Symbol {
	case DieSymbol, KeepHighSymbol, KeepLowSymbol:
		return nil, p.errorf(next.Span, "Syntax error near %s, dice operators cannot be chained", next)
	}

	return expr, nil
}

// parseNumber consumes the next token and parses it as a number
func parseNumber(p *Parser) (expr Expr, msg feedback.Message) {
	tok, msg := p.Lexer.Next()
	if msg != nil {
		return nil, msg
	}

	return parseNumberFrom(p, tok)
}

func parseNumberFrom(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	switch tok.Symbol {
	case IntegerSymbol, FloatSymbol:
		return literalParselet(p, tok)
	case LParenSymbol:
		return groupParselet(p, tok)
	}

	return nil, p.errorf(tok.Span, "Syntax error near %s, expected a number", tok)
}

func literalParselet(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		// only reachable for literals too large for a float64
		return nil, p.errorf(tok.Span, "Number %s is out of range", tok)
	}

	return &ConstantExpr{
		Lexeme: tok.Lexeme,
		Value:  value,
		Start:  tok.Span.Start,
	}, nil
}

func groupParselet(p *Parser, lParen Token) (expr Expr, msg feedback.Message) {
	if expr, msg = p.parseExpression(precLowest); msg != nil {
		return nil, msg
	}

	if _, msg = p.Lexer.ExpectNext(RParenSymbol); msg != nil {
		return nil, msg
	}

	return expr, nil
}

// commandParselet parses a bare name. A name directly followed by the start
// of another operand is shorthand for adding that operand: `fort 2` is
// `fort + 2`
func commandParselet(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	expr = &VariableExpr{
		Name:    tok.Lexeme,
		NamePos: tok.Span.Start,
	}

	next, msg := p.Lexer.Peek()
	if msg != nil {
		return nil, msg
	}

	switch next.Symbol {
	case IntegerSymbol, FloatSymbol, LParenSymbol, CommandSymbol:
		right, msg := p.parseExpression(precAdditive)
		if msg != nil {
			return nil, msg
		}

		return &BinaryExpr{
			Operator: Add,
			OpToken:  Token{Symbol: PlusSymbol, Lexeme: "+", Span: source.Span{Start: next.Span.Start, End: next.Span.Start}},
			Left:     expr,
			Right:    right,
		}, nil
	}

	return expr, nil
}

func unaryPlusParselet(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	return p.parseExpression(precUnary)
}

func negateParselet(p *Parser, tok Token) (expr Expr, msg feedback.Message) {
	operand, msg := p.parseExpression(precUnary)
	if msg != nil {
		return nil, msg
	}

	return &NegateExpr{Operator: tok, Operand: operand}, nil
}

func binaryInfixParselet(kind BinaryKind, precedence int) binaryParselet {
	return func(p *Parser, tok Token, left Expr) (expr Expr, msg feedback.Message) {
		right, msg := p.parseExpression(precedence)
		if msg != nil {
			return nil, msg
		}

		return &BinaryExpr{
			Operator: kind,
			OpToken:  tok,
			Left:     left,
			Right:    right,
		}, nil
	}
}

func strayDiceParselet(p *Parser, tok Token, left Expr) (expr Expr, msg feedback.Message) {
	return nil, p.errorf(tok.Span, "Syntax error near %s, dice can only be rolled from a number", tok)
}

func misplacedAssignmentParselet(p *Parser, tok Token, left Expr) (expr Expr, msg feedback.Message) {
	return nil, p.errorf(tok.Span, "Syntax error near %s, a name can only be assigned at the start of a statement", tok)
}
