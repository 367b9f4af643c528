package lang

import (
	"strings"

	"github.com/ritamzico/trigraph/internal/ast"
)

func convertLiteral(l *grammarLiteral) ast.Literal {
	switch {
	case l.String != nil:
		return ast.Literal{Kind: ast.LitString, Str: strings.Trim(*l.String, `'"`)}
	case l.Float != nil:
		return ast.Literal{Kind: ast.LitFloat, Flt: *l.Float}
	case l.Int != nil:
		return ast.Literal{Kind: ast.LitInt, Int: *l.Int}
	case l.True:
		return ast.Literal{Kind: ast.LitBool, Bool: true}
	case l.False:
		return ast.Literal{Kind: ast.LitBool, Bool: false}
	}
	return ast.Literal{}
}

func convertPropMap(pm *grammarPropMap) []ast.PropLit {
	if pm == nil {
		return nil
	}
	out := make([]ast.PropLit, 0, len(pm.Props))
	for _, p := range pm.Props {
		out = append(out, ast.PropLit{Name: p.Name, Value: convertLiteral(&p.Value)})
	}
	return out
}

func convertNode(n *grammarNode) *ast.NodePattern {
	return &ast.NodePattern{
		Alias: n.Alias,
		Label: n.Label,
		Props: convertPropMap(n.Props),
	}
}

func convertEdgeDirection(left, right string) ast.Direction {
	switch {
	case left == "<-" && right == "-":
		return ast.DirLeft
	case left == "-" && right == "->":
		return ast.DirRight
	default:
		return ast.DirEither
	}
}

func convertEdge(e *grammarEdge) *ast.EdgePattern {
	return &ast.EdgePattern{
		Alias:     e.Alias,
		Type:      e.Type,
		Props:     convertPropMap(e.Props),
		Direction: convertEdgeDirection(e.Left, e.Right),
	}
}

func convertPatternChain(c *grammarPatternChain) []ast.PatternElement {
	elems := []ast.PatternElement{{Node: convertNode(c.First)}}
	for _, hop := range c.Rest {
		elems = append(elems, ast.PatternElement{Edge: convertEdge(hop.Edge)})
		elems = append(elems, ast.PatternElement{Node: convertNode(hop.Node)})
	}
	return elems
}

func convertMatch(m *grammarMatch) ast.MatchClause {
	mc := ast.MatchClause{Patterns: make([][]ast.PatternElement, 0, len(m.Patterns))}
	for _, chain := range m.Patterns {
		mc.Patterns = append(mc.Patterns, convertPatternChain(chain))
	}
	return mc
}

func convertPropRef(p *grammarPropRef) ast.Expr {
	property := ""
	if p.Property != nil {
		property = *p.Property
	}
	return &ast.PropertyRef{Alias: p.Alias, Property: property}
}

func convertCall(c *grammarCall) ast.Expr {
	args := make([]ast.Expr, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, convertExpr(a))
	}
	return &ast.FuncCall{Name: c.Name, Args: args}
}

func convertPrimary(p *grammarPrimary) ast.Expr {
	switch {
	case p.Call != nil:
		return convertCall(p.Call)
	case p.PropRef != nil:
		return convertPropRef(p.PropRef)
	case p.Literal != nil:
		return &ast.Lit{Value: convertLiteral(p.Literal)}
	case p.Sub != nil:
		return convertExpr(p.Sub)
	}
	return nil
}

func convertUnary(u *grammarUnaryExpr) ast.Expr {
	e := convertPrimary(u.Primary)
	if u.Neg {
		return &ast.UnaryExpr{Op: "-", Operand: e}
	}
	return e
}

func convertMul(m *grammarMulExpr) ast.Expr {
	e := convertUnary(m.Left)
	for i, op := range m.Ops {
		e = &ast.BinaryExpr{Op: op, Left: e, Right: convertUnary(m.Rest[i])}
	}
	return e
}

func convertAdd(a *grammarAddExpr) ast.Expr {
	e := convertMul(a.Left)
	for i, op := range a.Ops {
		e = &ast.BinaryExpr{Op: op, Left: e, Right: convertMul(a.Rest[i])}
	}
	return e
}

func convertComp(c *grammarCompExpr) ast.Expr {
	e := convertAdd(c.Left)
	if c.Op != nil {
		e = &ast.BinaryExpr{Op: *c.Op, Left: e, Right: convertAdd(c.Right)}
	}
	return e
}

func convertNot(n *grammarNotExpr) ast.Expr {
	e := convertComp(n.Comp)
	if n.Not {
		return &ast.UnaryExpr{Op: "NOT", Operand: e}
	}
	return e
}

func convertAnd(a *grammarAndExpr) ast.Expr {
	e := convertNot(a.Left)
	for _, r := range a.Right {
		e = &ast.BinaryExpr{Op: "AND", Left: e, Right: convertNot(r)}
	}
	return e
}

func convertOr(o *grammarOrExpr) ast.Expr {
	e := convertAnd(o.Left)
	for _, r := range o.Right {
		e = &ast.BinaryExpr{Op: "OR", Left: e, Right: convertAnd(r)}
	}
	return e
}

func convertExpr(e *grammarExpr) ast.Expr {
	if e == nil {
		return nil
	}
	return convertOr(e.Or)
}

func convertReturn(r *grammarReturn) ast.ReturnClause {
	rc := ast.ReturnClause{Items: make([]ast.ReturnItem, 0, len(r.Items))}
	for _, item := range r.Items {
		alias := ""
		if item.Alias != nil {
			alias = *item.Alias
		}
		rc.Items = append(rc.Items, ast.ReturnItem{Expr: convertExpr(item.Expr), Alias: alias})
	}
	return rc
}

func convertQuery(q *grammarQuery) *ast.Query {
	return &ast.Query{
		Match:  convertMatch(q.Match),
		Where:  convertExpr(q.Where),
		Return: convertReturn(q.Return),
	}
}
