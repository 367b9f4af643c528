// Package evaluator compiles and runs the arithmetic/comparison/boolean
// expression tree (internal/ast.Expr) against one row of pattern
// bindings, using github.com/expr-lang/expr as the actual arithmetic and
// comparison runtime rather than hand-rolling one.
//
// This engine has no independent property-value store: ADDEDGE only
// ever records raw (subject, predicate, object) triples, and there is no
// CREATE/SET command that could attach arbitrary properties to an
// alias. So every PropertyRef — whether written as a bare alias or as
// "alias.property" — resolves to the alias's own currently-bound
// identity: a node alias's value is its bound id, an edge alias's value
// is its bound relationship. The property name, when present, is
// informational only (and drives label-store bookkeeping elsewhere); it
// plays no part in resolution here.
package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/value"
)

// Eval renders e into expr-lang source text and runs it against
// bindings, a map from pattern alias to that alias's currently-bound
// identity string.
func Eval(e ast.Expr, bindings map[string]string) (value.Value, error) {
	src, err := render(e)
	if err != nil {
		return value.Value{}, err
	}

	env := make(map[string]any, len(bindings))
	for alias, id := range bindings {
		env[alias] = id
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return value.Value{}, fmt.Errorf("evaluator: compiling %q: %w", src, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return value.Value{}, fmt.Errorf("evaluator: running %q: %w", src, err)
	}
	return value.FromAny(out), nil
}

// EvalBool is a convenience for WHERE predicates: runs e and requires a
// boolean result.
func EvalBool(e ast.Expr, bindings map[string]string) (bool, error) {
	v, err := Eval(e, bindings)
	if err != nil {
		return false, err
	}
	if v.Kind != value.BoolVal {
		return false, fmt.Errorf("evaluator: expression did not evaluate to a boolean")
	}
	return v.B, nil
}

func render(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.PropertyRef:
		return n.Alias, nil
	case *ast.Lit:
		return renderLiteral(n.Value), nil
	case *ast.BinaryExpr:
		l, err := render(n.Left)
		if err != nil {
			return "", err
		}
		r, err := render(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, binOp(n.Op), r), nil
	case *ast.UnaryExpr:
		operand, err := render(n.Operand)
		if err != nil {
			return "", err
		}
		if n.Op == "NOT" {
			return fmt.Sprintf("!(%s)", operand), nil
		}
		return fmt.Sprintf("-(%s)", operand), nil
	case *ast.FuncCall:
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			s, err := render(a)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", ")), nil
	default:
		return "", fmt.Errorf("evaluator: unsupported expression node %T", e)
	}
}

func binOp(op string) string {
	switch op {
	case "=":
		return "=="
	case "<>":
		return "!="
	case "AND":
		return "&&"
	case "OR":
		return "||"
	default:
		return op
	}
}

func renderLiteral(l ast.Literal) string {
	switch l.Kind {
	case ast.LitString:
		return strconv.Quote(l.Str)
	case ast.LitInt:
		return strconv.FormatInt(l.Int, 10)
	case ast.LitFloat:
		return strconv.FormatFloat(l.Flt, 'g', -1, 64)
	case ast.LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	}
	return "nil"
}
