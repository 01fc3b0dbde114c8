package frontend

import (
	"fmt"
	"strings"
)

// StringifyAST renders a program as S-expressions, one statement per line
func StringifyAST(prog *Program) string {
	return stringifyNode(prog)
}

// StringifyExpr renders a single expression as an S-expression
func StringifyExpr(expr Expr) string {
	return stringifyNode(expr)
}

func stringifyNode(generic Node) string {
	switch node := generic.(type) {
	case *Program:
		var stmts []string

		for _, stmt := range node.Statements {
			stmts = append(stmts, stringifyNode(stmt))
		}

		return fmt.Sprintf("(program\n%s)", indentString(strings.Join(stmts, "\n")))
	case *ExprStmt:
		return stringifyNode(node.Expr)
	case *HelpStmt:
		return "(help)"
	case *ReadStmt:
		return "(read)"
	case *RereadStmt:
		return "(reread)"
	case *LoadConStmt:
		return fmt.Sprintf("(loadcon %q)", node.Name.Lexeme)
	case *RollStmt:
		return fmt.Sprintf("(roll %s)", stringifyNode(node.Expr))
	case *DMInitStmt:
		if len(node.Arguments) == 0 {
			return "(dminit)"
		}

		return fmt.Sprintf("(dminit %s)", stringifyExprs(node.Arguments, " "))
	case *AssignStmt:
		return fmt.Sprintf("(set %q %s)", node.Assignee.Name, stringifyExprs(node.Assignments, " "))
	case *ConstantExpr:
		return node.Lexeme
	case *VariableExpr:
		return node.Name
	case *NegateExpr:
		return fmt.Sprintf("(- %s)", stringifyNode(node.Operand))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)",
			node.Operator,
			stringifyNode(node.Left),
			stringifyNode(node.Right))
	case *RollExpr:
		return fmt.Sprintf("(d %s %s)",
			stringifyNode(node.Amount),
			stringifyNode(node.Size))
	case *KeptRollExpr:
		op := "l"
		if node.KeepHighest {
			op = "h"
		}

		return fmt.Sprintf("(d%s %s %s %s)",
			op,
			stringifyNode(node.Amount),
			stringifyNode(node.Size),
			stringifyNode(node.Keep))
	default:
		return fmt.Sprintf("<Unknown %T>", node)
	}
}

func stringifyExprs(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))

	for i, expr := range exprs {
		parts[i] = stringifyNode(expr)
	}

	return strings.Join(parts, sep)
}

func indentString(s string) string {
	lines := strings.Split(s, "\n")

	for i, l := range lines {
		lines[i] = "   " + l
	}

	return strings.Join(lines, "\n")
}
