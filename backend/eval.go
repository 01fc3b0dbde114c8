package backend

import (
	"context"
	"fmt"
	"math"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/frontend"
	"github.com/Orcthanc/discord-dieroller/source"
)

// missingField is added to attribute rolls when the user has no character or
// the character lacks the mapped field
const missingField = -20

// evaluator carries the state of one invocation
type evaluator struct {
	ctx       context.Context
	env       *Context
	file      *source.File
	staged    *changes
	resolving map[string]bool
}

func newEvaluator(ctx context.Context, env *Context, file *source.File) *evaluator {
	return &evaluator{
		ctx:       ctx,
		env:       env,
		file:      file,
		staged:    newChanges(),
		resolving: make(map[string]bool),
	}
}

// Evaluate evaluates a single expression parsed from file against env. Any
// state the expression would change is discarded
func Evaluate(ctx context.Context, file *source.File, expr frontend.Expr, env *Context) (RollResult, error) {
	return newEvaluator(ctx, env, file).eval(expr)
}

func (e *evaluator) errorf(node frontend.Node, format string, args ...interface{}) error {
	return feedback.Error{
		Classification: feedback.SemanticError,
		File:           e.file,
		What: feedback.Selection{
			Description: fmt.Sprintf(format, args...),
			Span:        source.Span{Start: node.Pos(), End: node.End()},
		},
	}
}

// errorBecause is errorf with a second selection pointing at the operand
// that caused the error
func (e *evaluator) errorBecause(node, cause frontend.Node, reason string, format string, args ...interface{}) error {
	err := e.errorf(node, format, args...).(feedback.Error)
	err.Why = []feedback.Selection{{
		Description: reason,
		Span:        source.Span{Start: cause.Pos(), End: cause.End()},
	}}

	return err
}

// eval evaluates an expression node. Children are evaluated left to right
func (e *evaluator) eval(generic frontend.Expr) (RollResult, error) {
	switch node := generic.(type) {
	case *frontend.ConstantExpr:
		return RollResult{Value: node.Value}, nil
	case *frontend.NegateExpr:
		operand, err := e.eval(node.Operand)
		if err != nil {
			return RollResult{}, err
		}

		return operand.Neg(), nil
	case *frontend.BinaryExpr:
		return e.evalBinary(node)
	case *frontend.RollExpr:
		return e.evalRoll(node)
	case *frontend.KeptRollExpr:
		return e.evalKeptRoll(node)
	case *frontend.VariableExpr:
		return e.evalVariable(node)
	default:
		panic(fmt.Sprintf("unknown expression node: %T", node))
	}
}

func (e *evaluator) evalBinary(node *frontend.BinaryExpr) (RollResult, error) {
	left, err := e.eval(node.Left)
	if err != nil {
		return RollResult{}, err
	}

	right, err := e.eval(node.Right)
	if err != nil {
		return RollResult{}, err
	}

	switch node.Operator {
	case frontend.Add:
		return left.Add(right), nil
	case frontend.Sub:
		return left.Sub(right), nil
	case frontend.Mul:
		return left.Mul(right), nil
	case frontend.Div:
		if right.Value == 0 {
			return RollResult{}, e.errorBecause(node, node.Right, "this evaluates to 0", "division by zero")
		}

		return left.Div(right), nil
	default:
		panic(fmt.Sprintf("unknown binary operator: %v", node.Operator))
	}
}

// truncate converts an operand of a dice operator to a whole number,
// truncating toward zero
func (e *evaluator) truncate(node frontend.Expr, value float64) (float64, error) {
	t := math.Trunc(value)
	if math.IsNaN(t) {
		return 0, e.errorf(node, "%s is not a number", frontend.StringifyExpr(node))
	}

	return t, nil
}

// diceOperands evaluates and truncates the amount and size of a roll
func (e *evaluator) diceOperands(amountExpr, sizeExpr frontend.Expr) (amount, size float64, trace string, err error) {
	amountRes, err := e.eval(amountExpr)
	if err != nil {
		return 0, 0, "", err
	}

	sizeRes, err := e.eval(sizeExpr)
	if err != nil {
		return 0, 0, "", err
	}

	trace = joinTrace(amountRes.Trace, sizeRes.Trace)

	if amount, err = e.truncate(amountExpr, amountRes.Value); err != nil {
		return 0, 0, "", err
	}

	if size, err = e.truncate(sizeExpr, sizeRes.Value); err != nil {
		return 0, 0, "", err
	}

	return amount, size, trace, nil
}

// checkDice validates a non-zero amount and size before any die is drawn and
// converts them to integers
func (e *evaluator) checkDice(node, amountExpr, sizeExpr frontend.Expr, amount, size float64) (count, sides int, negative bool, err error) {
	negative = amount < 0

	if math.Abs(amount) > maxDice {
		return 0, 0, false, e.errorBecause(node, amountExpr,
			fmt.Sprintf("this evaluates to %s", formatNumber(amount)),
			"Will not roll more than 1,000,000 dice in one roll")
	}

	if size < 0 {
		return 0, 0, false, e.errorf(sizeExpr, "cannot roll a die with %s sides", formatNumber(size))
	}

	if size > maxDieSize {
		return 0, 0, false, e.errorf(sizeExpr, "cannot roll a die with more than %d sides", maxDieSize)
	}

	return int(math.Abs(amount)), int(size), negative, nil
}

func signed(total int, negative bool) float64 {
	if negative {
		return -float64(total)
	}

	return float64(total)
}

func (e *evaluator) evalRoll(node *frontend.RollExpr) (RollResult, error) {
	amount, size, trace, err := e.diceOperands(node.Amount, node.Size)
	if err != nil {
		return RollResult{}, err
	}

	if amount == 0 || size == 0 {
		return RollResult{Value: 0, Trace: trace}, nil
	}

	count, sides, negative, err := e.checkDice(node, node.Amount, node.Size, amount, size)
	if err != nil {
		return RollResult{}, err
	}

	dice := rollDice(e.env.Dice, count, sides)

	return RollResult{
		Value: signed(sum(dice), negative),
		Trace: joinTrace(trace, renderDice(dice)),
	}, nil
}

func (e *evaluator) evalKeptRoll(node *frontend.KeptRollExpr) (RollResult, error) {
	amount, size, trace, err := e.diceOperands(node.Amount, node.Size)
	if err != nil {
		return RollResult{}, err
	}

	keepRes, err := e.eval(node.Keep)
	if err != nil {
		return RollResult{}, err
	}

	trace = joinTrace(trace, keepRes.Trace)

	keepValue, err := e.truncate(node.Keep, keepRes.Value)
	if err != nil {
		return RollResult{}, err
	}

	if amount == 0 || size == 0 || keepValue == 0 {
		return RollResult{Value: 0, Trace: trace}, nil
	}

	count, sides, negative, err := e.checkDice(node, node.Amount, node.Size, amount, size)
	if err != nil {
		return RollResult{}, err
	}

	if keepValue < 0 {
		return RollResult{}, e.errorf(node.Keep, "cannot keep %s dice", formatNumber(keepValue))
	}

	keep := count
	if keepValue < float64(count) {
		keep = int(keepValue)
	}

	dice := rollDice(e.env.Dice, count, sides)
	kept := keptDice(dice, keep, node.KeepHighest)

	return RollResult{
		Value: signed(sum(kept), negative),
		Trace: joinTrace(trace, renderKept(dice, keep, node.KeepHighest)),
	}, nil
}

// evalVariable resolves a name: attribute mnemonics roll 1d20 plus the mapped
// character field, otherwise the user's bound variable is evaluated
func (e *evaluator) evalVariable(node *frontend.VariableExpr) (RollResult, error) {
	if key, ok := e.attributes()[node.Name]; ok {
		return e.rollAttribute(key)
	}

	binding, ok := e.binding(node.Name)
	if !ok {
		return RollResult{}, e.errorf(node, "unknown identifier %s", node.Name)
	}

	if len(binding.Exprs) != 1 {
		return RollResult{}, e.errorf(node,
			"%s holds %d expressions and cannot be used inside another expression",
			node.Name, len(binding.Exprs))
	}

	return e.evalBinding(node, binding, binding.Exprs[0])
}

func (e *evaluator) rollAttribute(key string) (RollResult, error) {
	bonus := missingField

	c, ok, err := e.character(e.env.User)
	if err != nil {
		return RollResult{}, feedback.Resource(err)
	}

	if ok {
		if value, found := c.Field(key); found {
			bonus = value
		}
	}

	d20 := rollDie(e.env.Dice, 20)

	return RollResult{
		Value: float64(d20 + bonus),
		Trace: renderDice([]int{d20}),
	}, nil
}

// evalBinding evaluates one expression of a binding, with diagnostics pointing
// into the input the binding was defined in
func (e *evaluator) evalBinding(node *frontend.VariableExpr, binding Binding, expr frontend.Expr) (RollResult, error) {
	if e.resolving[node.Name] {
		return RollResult{}, e.errorf(node, "%s refers to itself", node.Name)
	}

	e.resolving[node.Name] = true
	defer delete(e.resolving, node.Name)

	file := e.file
	if binding.File != nil {
		e.file = binding.File
	}
	defer func() { e.file = file }()

	return e.eval(expr)
}
