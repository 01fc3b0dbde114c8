package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Orcthanc/discord-dieroller/character"
	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/frontend"
	"github.com/Orcthanc/discord-dieroller/source"
)

// HelpText is the reply to the `help` directive
const HelpText = `help: Displays this message
read: Reads the attached pdf
reread: Loads the last pdf you send with read
roll: Evaluates a roll expression.
loadcon: loads a configuration
dminit: Rolls initiative for every loaded character, dminit(2, 5) adds two enemies

Dicerolling: examples:
    1d20 rolls 1 20-sided die.
    3d20h2 rolls 3 20-sided dice and keeps the highest 2
    5d10l1 rolls 5 10-sided dice and keeps the lowest 1
    Rolls may be combined with the mathematical operators +, -, * and /
    if a fraction is tried to be rolled, it will be rounded down (3.8d6 is equal to 3d6)

Variables:
    atk = 1d20+5 defines atk, every use of atk rolls again
    atk; 2d6+3 prints one line per expression`

const noAttachment = "Could not find attachment"

// Execute parses a line of input and evaluates every statement in it against
// env. The results are joined with newlines in input order. On error nothing
// in env.State is modified
func Execute(ctx context.Context, text string, env *Context) (string, error) {
	name := env.User
	if name == "" {
		name = "<input>"
	}

	file := source.NewFile(name, text)

	prog, msg := frontend.Parse(file)
	if msg != nil {
		return "", msg
	}

	return Run(ctx, file, prog, env)
}

// Run evaluates a parsed program. The staged state changes are committed only
// if every statement succeeds
func Run(ctx context.Context, file *source.File, prog *frontend.Program, env *Context) (string, error) {
	e := newEvaluator(ctx, env, file)
	results := make([]string, 0, len(prog.Statements))

	for _, stmt := range prog.Statements {
		out, err := e.exec(stmt)
		if err != nil {
			return "", err
		}

		results = append(results, out)
	}

	if err := e.commit(); err != nil {
		return "", feedback.Resource(err)
	}

	return strings.Join(results, "\n"), nil
}

func (e *evaluator) exec(generic frontend.Stmt) (string, error) {
	switch stmt := generic.(type) {
	case *frontend.ExprStmt:
		return e.execExpr(stmt.Expr)
	case *frontend.RollStmt:
		return e.execExpr(stmt.Expr)
	case *frontend.HelpStmt:
		return HelpText, nil
	case *frontend.ReadStmt:
		return e.execRead()
	case *frontend.RereadStmt:
		return e.loadCharacter()
	case *frontend.LoadConStmt:
		return e.execLoadCon(stmt)
	case *frontend.DMInitStmt:
		return e.execDMInit(stmt)
	case *frontend.AssignStmt:
		return e.execAssign(stmt)
	default:
		panic(fmt.Sprintf("unknown statement node: %T", stmt))
	}
}

// execExpr evaluates and formats an expression. A bare name bound to several
// expressions prints each of them on its own line
func (e *evaluator) execExpr(expr frontend.Expr) (string, error) {
	if v, ok := expr.(*frontend.VariableExpr); ok {
		if _, isAttr := e.attributes()[v.Name]; !isAttr {
			if binding, bound := e.binding(v.Name); bound && len(binding.Exprs) != 1 {
				return e.execBinding(v, binding)
			}
		}
	}

	res, err := e.eval(expr)
	if err != nil {
		return "", err
	}

	return res.String(), nil
}

func (e *evaluator) execBinding(v *frontend.VariableExpr, binding Binding) (string, error) {
	lines := make([]string, 0, len(binding.Exprs))

	for _, expr := range binding.Exprs {
		res, err := e.evalBinding(v, binding, expr)
		if err != nil {
			return "", err
		}

		lines = append(lines, res.String())
	}

	return strings.Join(lines, "\n"), nil
}

func (e *evaluator) execRead() (string, error) {
	if e.env.Attachments == nil {
		return noAttachment, nil
	}

	if err := e.env.Attachments.FetchAttachment(e.ctx, e.env.User); err != nil {
		if errors.Is(err, character.ErrNoAttachment) {
			return noAttachment, nil
		}

		return "", feedback.Resource(err)
	}

	return e.loadCharacter()
}

// loadCharacter (re)loads the character of the active user and replies with
// the character's name
func (e *evaluator) loadCharacter() (string, error) {
	if e.env.Characters == nil {
		return "", feedback.Resource(errors.New("character loading is not available"))
	}

	c, err := e.env.Characters.LoadCharacter(e.ctx, e.env.User)
	if err != nil {
		return "", feedback.Resource(err)
	}

	e.staged.characters[e.env.User] = c
	return c.Name, nil
}

func (e *evaluator) execLoadCon(stmt *frontend.LoadConStmt) (string, error) {
	name := stmt.Name.Lexeme

	if e.env.Configs == nil {
		return "", feedback.Resource(errors.New("config loading is not available"))
	}

	attrs, err := e.env.Configs.LoadAttributeConfig(e.ctx, name)
	if err != nil {
		return "", feedback.Resource(err)
	}

	e.staged.attributes = attrs
	return fmt.Sprintf("Successfully read config %s", name), nil
}

func (e *evaluator) execAssign(stmt *frontend.AssignStmt) (string, error) {
	name := stmt.Assignee.Name

	if field, ok := e.attributes()[name]; ok {
		return "", e.errorf(stmt.Assignee,
			"cannot define %s, it is the name of the character attribute %s", name, field)
	}

	_, replaced := e.binding(name)
	e.staged.bindings[name] = Binding{File: e.file, Exprs: stmt.Assignments}

	if replaced {
		return feedback.Warning{
			Classification: feedback.RedefinitionWarning,
			File:           e.file,
			What: feedback.Selection{
				Description: fmt.Sprintf("Warning: %s was already defined, the old definition was overwritten", name),
				Span:        source.Span{Start: stmt.Assignee.Pos(), End: stmt.Assignee.End()},
			},
		}.Error(), nil
	}

	return fmt.Sprintf("Defined %s", name), nil
}
