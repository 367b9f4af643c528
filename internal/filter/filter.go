// Package filter splits a WHERE clause into independent conjuncts and
// tracks, per conjunct, which pattern aliases it depends on — so the
// pattern executor can apply each piece as soon as every alias it needs
// is bound, rather than waiting for the whole pattern to match before
// testing anything. This mirrors the filter-tree-per-node pushdown the
// engine's Cypher heritage performs ahead of its recursive pattern walk.
package filter

import (
	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/evaluator"
)

// Node is one independent conjunct of the original WHERE expression.
type Node struct {
	Expr    ast.Expr
	Aliases map[string]struct{}
}

// Split decomposes e into its top-level AND conjuncts (recursively), so
// "WHERE a.x = 1 AND b.y = 2" becomes two independent Nodes instead of
// one that can only be tested once both a and b are bound. A nil e
// yields no nodes.
func Split(e ast.Expr) []*Node {
	if e == nil {
		return nil
	}
	var nodes []*Node
	var walk func(ast.Expr)
	walk = func(n ast.Expr) {
		if b, ok := n.(*ast.BinaryExpr); ok && b.Op == "AND" {
			walk(b.Left)
			walk(b.Right)
			return
		}
		nodes = append(nodes, &Node{Expr: n, Aliases: collectAliases(n)})
	}
	walk(e)
	return nodes
}

func collectAliases(e ast.Expr) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(ast.Expr)
	walk = func(n ast.Expr) {
		switch v := n.(type) {
		case *ast.PropertyRef:
			out[v.Alias] = struct{}{}
		case *ast.BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *ast.UnaryExpr:
			walk(v.Operand)
		case *ast.FuncCall:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

// Ready reports whether every alias n depends on is present in bound.
func (n *Node) Ready(bound map[string]string) bool {
	for alias := range n.Aliases {
		if _, ok := bound[alias]; !ok {
			return false
		}
	}
	return true
}

// Eval runs n's predicate against the current bindings. Only valid once
// Ready reports true.
func (n *Node) Eval(bound map[string]string) (bool, error) {
	return evaluator.EvalBool(n.Expr, bound)
}

// AllReady reports whether every node in nodes is ready against bound —
// used once pattern matching completes to make sure no conjunct was
// left untested because it referenced no alias reachable during the
// walk (e.g. a predicate over an alias the pattern never bound).
func AllReady(nodes []*Node, bound map[string]string) bool {
	for _, n := range nodes {
		if !n.Ready(bound) {
			return false
		}
	}
	return true
}
