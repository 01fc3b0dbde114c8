package frontend

import (
	"fmt"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/source"
)

// Binding powers, lowest to highest. Unary operators bind tightest; the dice
// operators are consumed by numberParselet so they never chain
const (
	precLowest         = 0
	precAssignment     = 10
	precAdditive       = 50
	precMultiplicative = 60
	precDice           = 70
	precUnary          = 80
)

type binaryParselet func(*Parser, Token, Expr) (Expr, feedback.Message)
type unaryParselet func(*Parser, Token) (Expr, feedback.Message)

// parseletTable holds the operator precedences and parselet functions of the
// expression grammar
type parseletTable struct {
	binaryPrecedence map[TokenSymbol]int
	binaryParselets  map[TokenSymbol]binaryParselet
	unaryParselets   map[TokenSymbol]unaryParselet
}

func (t *parseletTable) addBinaryParselet(sym TokenSymbol, precedence int, parselet binaryParselet) {
	t.binaryPrecedence[sym] = precedence
	t.binaryParselets[sym] = parselet
}

func (t *parseletTable) addUnaryParselet(sym TokenSymbol, parselet unaryParselet) {
	t.unaryParselets[sym] = parselet
}

// exprTable is populated once by init and only read afterwards, so Parse is a
// pure function of its input
var exprTable *parseletTable

func init() {
	exprTable = newParseletTable()
}

func newParseletTable() *parseletTable {
	t := &parseletTable{
		binaryPrecedence: make(map[TokenSymbol]int),
		binaryParselets:  make(map[TokenSymbol]binaryParselet),
		unaryParselets:   make(map[TokenSymbol]unaryParselet),
	}

	// Numbers (and the dice rolls built from them)
	t.addUnaryParselet(IntegerSymbol, numberParselet)
	t.addUnaryParselet(FloatSymbol, numberParselet)
	t.addUnaryParselet(LParenSymbol, numberParselet)

	t.addUnaryParselet(CommandSymbol, commandParselet)

	t.addUnaryParselet(PlusSymbol, unaryPlusParselet)
	t.addUnaryParselet(MinusSymbol, negateParselet)

	t.addBinaryParselet(AssignSymbol, precAssignment, misplacedAssignmentParselet)

	// Arithmetic expressions
	t.addBinaryParselet(PlusSymbol, precAdditive, binaryInfixParselet(Add, precAdditive))
	t.addBinaryParselet(MinusSymbol, precAdditive, binaryInfixParselet(Sub, precAdditive))
	t.addBinaryParselet(TimesSymbol, precMultiplicative, binaryInfixParselet(Mul, precMultiplicative))
	t.addBinaryParselet(DivideSymbol, precMultiplicative, binaryInfixParselet(Div, precMultiplicative))

	// Dice operators only get here when they don't follow a number
	t.addBinaryParselet(DieSymbol, precDice, strayDiceParselet)
	t.addBinaryParselet(KeepHighSymbol, precDice, strayDiceParselet)
	t.addBinaryParselet(KeepLowSymbol, precDice, strayDiceParselet)

	return t
}

// Parse takes a line of input and returns its statements, or the first lex or
// syntax error encountered. No partial program is returned alongside an error
func Parse(file *source.File) (prog *Program, msg feedback.Message) {
	prog, msg = NewParser(file).Parse()
	if msg != nil {
		return nil, msg
	}

	return prog, nil
}

// Parser instances pair a Lexer with the shared parselet table
type Parser struct {
	Lexer *Lexer
	table *parseletTable
}

// NewParser creates a Parser reading from the given file
func NewParser(file *source.File) *Parser {
	return &Parser{
		Lexer: NewLexer(file),
		table: exprTable,
	}
}

func (p *Parser) errorf(span source.Span, format string, args ...interface{}) feedback.Message {
	return feedback.Error{
		Classification: feedback.SyntaxError,
		File:           p.Lexer.Scanner.File,
		What: feedback.Selection{
			Description: fmt.Sprintf(format, args...),
			Span:        span,
		},
	}
}

func (p *Parser) unexpected(tok Token) feedback.Message {
	return p.errorf(tok.Span, "Syntax error near %s", tok)
}

func (p *Parser) nextPrecedence() (prec int, msg feedback.Message) {
	tok, msg := p.Lexer.Peek()
	if msg != nil {
		return 0, msg
	}

	if prec, ok := p.table.binaryPrecedence[tok.Symbol]; ok {
		return prec, nil
	}

	switch tok.Symbol {
	case SemicolonSymbol, CommaSymbol, RParenSymbol, EOFSymbol:
		return 0, nil
	}

	return 0, p.unexpected(tok)
}

// parseExpression returns a node representing the next expression so long as
// the next expression does not have less precedence than the "precedence"
// parameter
func (p *Parser) parseExpression(precedence int) (expr Expr, msg feedback.Message) {
	var tok Token

	if tok, msg = p.Lexer.Next(); msg != nil {
		return nil, msg
	}

	unary, ok := p.table.unaryParselets[tok.Symbol]
	if !ok {
		return nil, p.unexpected(tok)
	}

	if expr, msg = unary(p, tok); msg != nil {
		return nil, msg
	}

	// left-associate expressions based on their relative precedence
	for {
		var next int

		if next, msg = p.nextPrecedence(); msg != nil {
			return nil, msg
		} else if precedence >= next {
			return expr, nil
		}

		if tok, msg = p.Lexer.Next(); msg != nil {
			return nil, msg
		}

		if expr, msg = p.table.binaryParselets[tok.Symbol](p, tok, expr); msg != nil {
			return nil, msg
		}
	}
}

// parseStatement parses one directive, assignment or expression
func (p *Parser) parseStatement() (stmt Stmt, msg feedback.Message) {
	tok, msg := p.Lexer.Peek()
	if msg != nil {
		return nil, msg
	}

	switch tok.Symbol {
	case HelpKeyword:
		p.Lexer.Next()
		return &HelpStmt{Keyword: tok}, nil
	case ReadKeyword:
		p.Lexer.Next()
		return &ReadStmt{Keyword: tok}, nil
	case RereadKeyword:
		p.Lexer.Next()
		return &RereadStmt{Keyword: tok}, nil
	case LoadConKeyword:
		return p.parseLoadCon()
	case RollKeyword:
		p.Lexer.Next()

		expr, msg := p.parseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}

		return &RollStmt{Keyword: tok, Expr: expr}, nil
	case DMInitKeyword:
		return p.parseDMInit()
	case EOFSymbol:
		return nil, p.errorf(tok.Span, "Syntax error near %s", tok)
	}

	// Parse just above assignment so that a trailing '=' is left for the
	// statement level to claim
	expr, msg := p.parseExpression(precAssignment)
	if msg != nil {
		return nil, msg
	}

	if !p.Lexer.PeekMatches(AssignSymbol) {
		return &ExprStmt{Expr: expr}, nil
	}

	assignee, ok := expr.(*VariableExpr)
	if !ok {
		return nil, p.errorf(source.Span{Start: expr.Pos(), End: expr.End()},
			"Left hand of assignment must be a name")
	}

	p.Lexer.Next()
	return p.parseAssignment(assignee)
}

// parseAssignment collects the `;`-separated expressions bound to a name. They
// take up the rest of the line
func (p *Parser) parseAssignment(assignee *VariableExpr) (stmt Stmt, msg feedback.Message) {
	assign := &AssignStmt{Assignee: assignee}

	for {
		expr, msg := p.parseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}

		assign.Assignments = append(assign.Assignments, expr)

		if p.Lexer.PeekMatches(EOFSymbol) {
			return assign, nil
		}

		if _, msg = p.Lexer.ExpectNext(SemicolonSymbol); msg != nil {
			return nil, msg
		}

		// tolerate a trailing semicolon
		if p.Lexer.PeekMatches(EOFSymbol) {
			return assign, nil
		}
	}
}

func (p *Parser) parseLoadCon() (stmt Stmt, msg feedback.Message) {
	keyword, _ := p.Lexer.Next()

	if _, msg = p.Lexer.ExpectNext(LParenSymbol); msg != nil {
		return nil, msg
	}

	name, msg := p.Lexer.ExpectNext(CommandSymbol)
	if msg != nil {
		return nil, msg
	}

	rParen, msg := p.Lexer.ExpectNext(RParenSymbol)
	if msg != nil {
		return nil, msg
	}

	return &LoadConStmt{Keyword: keyword, Name: name, RightParen: rParen}, nil
}

func (p *Parser) parseDMInit() (stmt Stmt, msg feedback.Message) {
	keyword, _ := p.Lexer.Next()
	dminit := &DMInitStmt{Keyword: keyword}

	if !p.Lexer.PeekMatches(LParenSymbol) {
		return dminit, nil
	}

	p.Lexer.Next()

	for {
		arg, msg := p.parseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}

		dminit.Arguments = append(dminit.Arguments, arg)

		if !p.Lexer.PeekMatches(CommaSymbol) {
			break
		}

		p.Lexer.Next()
	}

	rParen, msg := p.Lexer.ExpectNext(RParenSymbol)
	if msg != nil {
		return nil, msg
	}

	dminit.RightParen = &rParen
	return dminit, nil
}

// Parse produces the statements of one line. Statements are separated by
// semicolons and a trailing semicolon is allowed
func (p *Parser) Parse() (prog *Program, msg feedback.Message) {
	prog = &Program{}

	for {
		stmt, msg := p.parseStatement()
		if msg != nil {
			return nil, msg
		}

		prog.Statements = append(prog.Statements, stmt)

		if p.Lexer.PeekMatches(EOFSymbol) {
			return prog, nil
		}

		if _, msg = p.Lexer.ExpectNext(SemicolonSymbol); msg != nil {
			return nil, msg
		}

		if p.Lexer.PeekMatches(EOFSymbol) {
			return prog, nil
		}
	}
}
