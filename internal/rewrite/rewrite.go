// Package rewrite performs the three AST-to-AST passes that run between
// parsing and pattern execution, generalising RedisGraph's
// nameAnonymousNodes / inlineProperties / ReturnClause_ExpandCollapsedNodes:
//
//   - NameAnonymous assigns a synthetic alias to every node or edge
//     pattern the query text left unnamed, so every later stage can
//     address every entity by alias.
//   - LiftInlineProperties turns each pattern's literal property map
//     into an equivalent WHERE-clause equality, AND-ed onto any explicit
//     WHERE the query already had, and records the property name against
//     the pattern's label in the label store — label store population's
//     only producer.
//   - ExpandCollapsedReturns turns a bare alias RETURN item into one
//     return element per property name the label store has ever seen for
//     that alias's label, or leaves the bare alias untouched if the alias
//     has no label or the label store has nothing recorded for it.
package rewrite

import (
	"fmt"
	"sort"

	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/engerr"
	"github.com/ritamzico/trigraph/internal/labelstore"
)

// NameAnonymous mutates match in place, assigning "anon_0", "anon_1", ...
// to unnamed nodes and edges alike, from one counter, in pattern order.
func NameAnonymous(match *ast.MatchClause) {
	next := 0
	for _, chain := range match.Patterns {
		for _, elem := range chain {
			switch {
			case elem.Node != nil && elem.Node.Alias == "":
				elem.Node.Alias = fmt.Sprintf("anon_%d", next)
				next++
			case elem.Edge != nil && elem.Edge.Alias == "":
				elem.Edge.Alias = fmt.Sprintf("anon_%d", next)
				next++
			}
		}
	}
}

// LiftInlineProperties rewrites every inline "{prop:lit}" map in match
// into an equality conjunct appended to where, and records each lifted
// property name in labels under graph/label. Returns the rewritten WHERE
// expression (where itself if no inline properties were present).
func LiftInlineProperties(match *ast.MatchClause, where ast.Expr, labels *labelstore.Store, graph string) ast.Expr {
	for _, chain := range match.Patterns {
		for _, elem := range chain {
			switch {
			case elem.Node != nil && len(elem.Node.Props) > 0:
				where = liftProps(where, elem.Node.Alias, elem.Node.Props)
				if elem.Node.Label != "" {
					for _, p := range elem.Node.Props {
						labels.Record(graph, labelstore.KindNode, elem.Node.Label, p.Name)
					}
				}
				elem.Node.Props = nil
			case elem.Edge != nil && len(elem.Edge.Props) > 0:
				where = liftProps(where, elem.Edge.Alias, elem.Edge.Props)
				if elem.Edge.Type != "" {
					for _, p := range elem.Edge.Props {
						labels.Record(graph, labelstore.KindEdge, elem.Edge.Type, p.Name)
					}
				}
				elem.Edge.Props = nil
			}
		}
	}
	return where
}

func liftProps(where ast.Expr, alias string, props []ast.PropLit) ast.Expr {
	for _, p := range props {
		eq := &ast.BinaryExpr{
			Op:    "=",
			Left:  &ast.PropertyRef{Alias: alias, Property: p.Name},
			Right: &ast.Lit{Value: p.Value},
		}
		if where == nil {
			where = eq
		} else {
			where = &ast.BinaryExpr{Op: "AND", Left: where, Right: eq}
		}
	}
	return where
}

// aliasLabel reports the label (node) or type (edge) bound to alias in
// match, and which kind it is.
func aliasLabel(match ast.MatchClause, alias string) (label string, kind labelstore.Kind, found bool) {
	for _, chain := range match.Patterns {
		for _, elem := range chain {
			if elem.Node != nil && elem.Node.Alias == alias {
				return elem.Node.Label, labelstore.KindNode, true
			}
			if elem.Edge != nil && elem.Edge.Alias == alias {
				return elem.Edge.Type, labelstore.KindEdge, true
			}
		}
	}
	return "", 0, false
}

// ExpandCollapsedReturns rewrites ret in place: every bare-alias item
// (a PropertyRef with no Property, and no AS alias) is replaced by one
// item per property name the label store has recorded against that
// alias's label, in lexicographic order. If the alias is bound by the
// MATCH clause but has no label, or the label store has nothing recorded
// for its label, the bare alias is left exactly as it was; the registries
// of other labels are not consulted. If the alias is not bound by the
// MATCH clause at all, that is never a silent no-op: it is a hard
// engerr.UnknownAlias error.
func ExpandCollapsedReturns(match ast.MatchClause, ret *ast.ReturnClause, labels *labelstore.Store, graph string) error {
	expanded := make([]ast.ReturnItem, 0, len(ret.Items))
	for _, item := range ret.Items {
		ref, ok := item.Expr.(*ast.PropertyRef)
		if !ok || ref.Property != "" || item.Alias != "" {
			expanded = append(expanded, item)
			continue
		}
		label, kind, found := aliasLabel(match, ref.Alias)
		if !found {
			return engerr.NewUnknownAlias(ref.Alias)
		}
		if label == "" {
			expanded = append(expanded, item)
			continue
		}
		props := labels.PropertiesFor(graph, kind, label)
		sort.Strings(props)
		if len(props) == 0 {
			expanded = append(expanded, item)
			continue
		}
		for _, p := range props {
			expanded = append(expanded, ast.ReturnItem{
				Expr: &ast.PropertyRef{Alias: ref.Alias, Property: p},
			})
		}
	}
	ret.Items = expanded
	return nil
}
