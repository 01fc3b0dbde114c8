package frontend

import (
	"unicode/utf8"

	"github.com/Orcthanc/discord-dieroller/source"
)

// Node is a generic node in the abstract syntax tree (AST)
type Node interface {
	Pos() source.Pos
	End() source.Pos
}

// Expr represents a Node that produces a roll result when evaluated. The set
// of Expr implementations is closed: ConstantExpr, RollExpr, KeptRollExpr,
// BinaryExpr, NegateExpr and VariableExpr
type Expr interface {
	Node
	exprNode()
}

// Stmt represents one `;`-separated directive or expression of a line
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node for an AST
type Program struct {
	Statements []Stmt
}

// Pos returns the starting source position of this node
func (p Program) Pos() source.Pos {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}

	return source.Pos{Line: 1, Col: 1}
}

// End returns the terminal source position of this node
func (p Program) End() source.Pos {
	if len(p.Statements) > 0 {
		return p.Statements[len(p.Statements)-1].End()
	}

	return source.Pos{Line: 1, Col: 1}
}

func tokenEnd(tok Token) source.Pos {
	return tok.Span.End
}

func lexemeEnd(start source.Pos, lexeme string) source.Pos {
	return source.Pos{Line: start.Line, Col: start.Col + utf8.RuneCountInString(lexeme) - 1}
}

// ConstantExpr represents an integer or float literal
type ConstantExpr struct {
	Lexeme string
	Value  float64
	Start  source.Pos
}

// Pos returns the starting source position of this node
func (c ConstantExpr) Pos() source.Pos { return c.Start }

// End returns the terminal source position of this node
func (c ConstantExpr) End() source.Pos { return lexemeEnd(c.Start, c.Lexeme) }

func (c ConstantExpr) exprNode() {}

// RollExpr represents `<amount>d<size>`
type RollExpr struct {
	Amount Expr
	Size   Expr
}

// Pos returns the starting source position of this node
func (r RollExpr) Pos() source.Pos { return r.Amount.Pos() }

// End returns the terminal source position of this node
func (r RollExpr) End() source.Pos { return r.Size.End() }

func (r RollExpr) exprNode() {}

// KeptRollExpr represents `<amount>d<size>h<keep>` and `<amount>d<size>l<keep>`
type KeptRollExpr struct {
	Amount      Expr
	Size        Expr
	Keep        Expr
	KeepHighest bool
}

// Pos returns the starting source position of this node
func (k KeptRollExpr) Pos() source.Pos { return k.Amount.Pos() }

// End returns the terminal source position of this node
func (k KeptRollExpr) End() source.Pos { return k.Keep.End() }

func (k KeptRollExpr) exprNode() {}

// BinaryKind enumerates the arithmetic operators
type BinaryKind int

// Arithmetic operators
const (
	Add BinaryKind = iota
	Sub
	Mul
	Div
)

func (k BinaryKind) String() string {
	switch k {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpr represents an arithmetic operation on two expressions
type BinaryExpr struct {
	Operator BinaryKind
	OpToken  Token
	Left     Expr
	Right    Expr
}

// Pos returns the starting source position of this node
func (b BinaryExpr) Pos() source.Pos { return b.Left.Pos() }

// End returns the terminal source position of this node
func (b BinaryExpr) End() source.Pos { return b.Right.End() }

func (b BinaryExpr) exprNode() {}

// NegateExpr represents a unary minus
type NegateExpr struct {
	Operator Token
	Operand  Expr
}

// Pos returns the starting source position of this node
func (n NegateExpr) Pos() source.Pos { return n.Operator.Span.Start }

// End returns the terminal source position of this node
func (n NegateExpr) End() source.Pos { return n.Operand.End() }

func (n NegateExpr) exprNode() {}

// VariableExpr represents a bare name: a character attribute mnemonic or a
// user-bound variable. Which of the two it refers to is decided during
// evaluation
type VariableExpr struct {
	Name    string
	NamePos source.Pos
}

// Pos returns the starting source position of this node
func (v VariableExpr) Pos() source.Pos { return v.NamePos }

// End returns the terminal source position of this node
func (v VariableExpr) End() source.Pos { return lexemeEnd(v.NamePos, v.Name) }

func (v VariableExpr) exprNode() {}

// ExprStmt is an expression evaluated and printed on its own
type ExprStmt struct {
	Expr Expr
}

// Pos returns the starting source position of this node
func (e ExprStmt) Pos() source.Pos { return e.Expr.Pos() }

// End returns the terminal source position of this node
func (e ExprStmt) End() source.Pos { return e.Expr.End() }

func (e ExprStmt) stmtNode() {}

// HelpStmt represents the `help` directive
type HelpStmt struct {
	Keyword Token
}

// Pos returns the starting source position of this node
func (h HelpStmt) Pos() source.Pos { return h.Keyword.Span.Start }

// End returns the terminal source position of this node
func (h HelpStmt) End() source.Pos { return tokenEnd(h.Keyword) }

func (h HelpStmt) stmtNode() {}

// ReadStmt represents the `read` directive
type ReadStmt struct {
	Keyword Token
}

// Pos returns the starting source position of this node
func (r ReadStmt) Pos() source.Pos { return r.Keyword.Span.Start }

// End returns the terminal source position of this node
func (r ReadStmt) End() source.Pos { return tokenEnd(r.Keyword) }

func (r ReadStmt) stmtNode() {}

// RereadStmt represents the `reread` directive
type RereadStmt struct {
	Keyword Token
}

// Pos returns the starting source position of this node
func (r RereadStmt) Pos() source.Pos { return r.Keyword.Span.Start }

// End returns the terminal source position of this node
func (r RereadStmt) End() source.Pos { return tokenEnd(r.Keyword) }

func (r RereadStmt) stmtNode() {}

// LoadConStmt represents `loadcon(<name>)`
type LoadConStmt struct {
	Keyword    Token
	Name       Token
	RightParen Token
}

// Pos returns the starting source position of this node
func (l LoadConStmt) Pos() source.Pos { return l.Keyword.Span.Start }

// End returns the terminal source position of this node
func (l LoadConStmt) End() source.Pos { return tokenEnd(l.RightParen) }

func (l LoadConStmt) stmtNode() {}

// RollStmt represents `roll <expr>`
type RollStmt struct {
	Keyword Token
	Expr    Expr
}

// Pos returns the starting source position of this node
func (r RollStmt) Pos() source.Pos { return r.Keyword.Span.Start }

// End returns the terminal source position of this node
func (r RollStmt) End() source.Pos { return r.Expr.End() }

func (r RollStmt) stmtNode() {}

// DMInitStmt represents `dminit` and `dminit(<expr>, ...)`. Each argument is
// the initiative modifier of one enemy
type DMInitStmt struct {
	Keyword    Token
	Arguments  []Expr
	RightParen *Token
}

// Pos returns the starting source position of this node
func (d DMInitStmt) Pos() source.Pos { return d.Keyword.Span.Start }

// End returns the terminal source position of this node
func (d DMInitStmt) End() source.Pos {
	if d.RightParen != nil {
		return tokenEnd(*d.RightParen)
	}

	return tokenEnd(d.Keyword)
}

func (d DMInitStmt) stmtNode() {}

// AssignStmt represents `<name> = <expr>[; <expr> ...]`. The expressions are
// bound unevaluated
type AssignStmt struct {
	Assignee    *VariableExpr
	Assignments []Expr
}

// Pos returns the starting source position of this node
func (a AssignStmt) Pos() source.Pos { return a.Assignee.Pos() }

// End returns the terminal source position of this node
func (a AssignStmt) End() source.Pos {
	return a.Assignments[len(a.Assignments)-1].End()
}

func (a AssignStmt) stmtNode() {}
