// Package executor implements the recursive pattern-matching walk that
// binds every alias in a MATCH clause's merged pattern graph against the
// hexastore index, generalising the engine's recursive QueryNode
// executor from a fixed probabilistic-edge walk to an arbitrary
// Cypher-subset pattern graph with WHERE-clause pushdown.
//
// The walk proceeds edge by edge: each step either looks up a fully- or
// partially-bound triplet directly (an edge with one or both endpoints
// already bound by an earlier step or by an equality filter lifted
// ahead of the walk) or, for an edge with neither endpoint yet bound,
// scans every triplet of its relationship type. Each candidate binding
// is checked against every filter conjunct that has become ready, and
// the walk backtracks — restoring the binding snapshot from immediately
// before the step — once a branch is exhausted.
package executor

import (
	"fmt"

	"github.com/ritamzico/trigraph/internal/aggregate"
	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/evaluator"
	"github.com/ritamzico/trigraph/internal/filter"
	"github.com/ritamzico/trigraph/internal/hexastore"
	"github.com/ritamzico/trigraph/internal/labelstore"
	"github.com/ritamzico/trigraph/internal/pattern"
	"github.com/ritamzico/trigraph/internal/resultset"
	"github.com/ritamzico/trigraph/internal/rewrite"
	"github.com/ritamzico/trigraph/internal/store"
	"github.com/ritamzico/trigraph/internal/value"
)

// Execute runs a fully-parsed query against graphName and returns its
// result set. Mutates q in place (anonymous naming, inline-property
// lifting, collapsed-return expansion) the way the rewrite passes are
// meant to be run exactly once per query.
func Execute(backend store.Backend, graphName string, q *ast.Query, labels *labelstore.Store, rowLimit int) (*resultset.ResultSet, error) {
	rewrite.NameAnonymous(&q.Match)
	q.Where = rewrite.LiftInlineProperties(&q.Match, q.Where, labels, graphName)
	if err := rewrite.ExpandCollapsedReturns(q.Match, &q.Return, labels, graphName); err != nil {
		return nil, err
	}

	g, err := pattern.BuildGraph(q.Match)
	if err != nil {
		return nil, err
	}

	filters := filter.Split(q.Where)
	columns, err := buildColumns(q.Return)
	if err != nil {
		return nil, err
	}
	rs := resultset.New(columns, rowLimit)

	bound := preBind(filters)

	w := &walker{
		backend: backend,
		graph:   graphName,
		pattern: g,
		filters: filters,
		bound:   bound,
	}

	used := make([]bool, len(g.Edges))
	if len(g.Edges) == 0 {
		return w.matchLoneNodes(g, q.Return, rs)
	}

	if err := w.step(used, func() error {
		return w.emit(q.Return, rs)
	}); err != nil {
		return nil, err
	}
	return rs, nil
}

// preBind extracts the aliases an equality filter already pins to a
// literal (e.g. "WHERE a = 'alice'"), so the walk can seed the first
// lookup with a bound coordinate instead of a full scan.
func preBind(filters []*filter.Node) map[string]string {
	bound := make(map[string]string)
	for _, f := range filters {
		b, ok := f.Expr.(*ast.BinaryExpr)
		if !ok || b.Op != "=" {
			continue
		}
		ref, lit := asRefAndLit(b.Left, b.Right)
		if ref == nil {
			continue
		}
		if lit.Kind == ast.LitString {
			bound[ref.Alias] = lit.Str
		}
	}
	return bound
}

func asRefAndLit(l, r ast.Expr) (*ast.PropertyRef, ast.Literal) {
	if ref, ok := l.(*ast.PropertyRef); ok {
		if lit, ok := r.(*ast.Lit); ok {
			return ref, lit.Value
		}
	}
	if ref, ok := r.(*ast.PropertyRef); ok {
		if lit, ok := l.(*ast.Lit); ok {
			return ref, lit.Value
		}
	}
	return nil, ast.Literal{}
}

type walker struct {
	backend store.Backend
	graph   string
	pattern *pattern.Graph
	filters []*filter.Node
	bound   map[string]string
}

// step picks the next unused edge reachable from the current bindings
// (or, if none is reachable, any unused edge — a new pattern
// component), scans its matching triplets, and recurses. emit is called
// once every edge has been used and every filter conjunct is ready and
// passes.
func (w *walker) step(used []bool, emit func() error) error {
	idx := w.nextEdge(used)
	if idx < 0 {
		if !filter.AllReady(w.filters, w.bound) {
			return nil
		}
		for _, f := range w.filters {
			ok, err := f.Eval(w.bound)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		return emit()
	}

	e := w.pattern.Edges[idx]
	tag := hexastoreTriplet(e, w.bound)
	cur, found, err := w.queryEdge(tag)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	defer cur.Close()

	used[idx] = true
	defer func() { used[idx] = false }()

	for {
		t, ok := cur.Next()
		if !ok {
			break
		}
		snapshot := w.snapshot()
		w.bound[e.From] = *t.Subject
		w.bound[e.To] = *t.Object
		if e.Alias != "" {
			w.bound[e.Alias] = *t.Predicate
		}

		if w.readyFiltersPass() {
			if err := w.step(used, emit); err != nil {
				w.restore(snapshot)
				return err
			}
		}
		w.restore(snapshot)
	}
	return nil
}

func (w *walker) readyFiltersPass() bool {
	for _, f := range w.filters {
		if !f.Ready(w.bound) {
			continue
		}
		ok, err := f.Eval(w.bound)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func (w *walker) snapshot() map[string]string {
	snap := make(map[string]string, len(w.bound))
	for k, v := range w.bound {
		snap[k] = v
	}
	return snap
}

func (w *walker) restore(snap map[string]string) {
	for k := range w.bound {
		delete(w.bound, k)
	}
	for k, v := range snap {
		w.bound[k] = v
	}
}

// nextEdge prefers an unused edge touching an already-bound alias, so
// the walk grows one connected component at a time; falls back to any
// unused edge for a disconnected pattern.
func (w *walker) nextEdge(used []bool) int {
	for i, e := range w.pattern.Edges {
		if used[i] {
			continue
		}
		if _, ok := w.bound[e.From]; ok {
			return i
		}
		if _, ok := w.bound[e.To]; ok {
			return i
		}
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

func hexastoreTriplet(e *pattern.Edge, bound map[string]string) hexastore.Triplet {
	t := hexastore.Triplet{}
	if s, ok := bound[e.From]; ok {
		t.Subject = &s
	}
	if o, ok := bound[e.To]; ok {
		t.Object = &o
	}
	if e.Type != "" {
		p := e.Type
		t.Predicate = &p
	} else if r, ok := bound[e.Alias]; ok && e.Alias != "" {
		t.Predicate = &r
	}
	return t
}

// edgeCursor is the narrow view step() needs over a hexastore.Cursor,
// satisfied by closingCursor below.
type edgeCursor interface {
	Next() (hexastore.Triplet, bool)
	Close() error
}

func (w *walker) queryEdge(t hexastore.Triplet) (edgeCursor, bool, error) {
	ks, err := w.backend.Open(w.graph, false)
	if err != nil {
		return nil, false, err
	}
	cur, found, err := hexastore.QueryTriplet(ks, t)
	if err != nil || !found {
		ks.Close()
		return nil, found, err
	}
	return &closingCursor{Cursor: cur, ks: ks}, true, nil
}

// closingCursor closes the keyspace handle alongside the cursor itself.
type closingCursor struct {
	*hexastore.Cursor
	ks store.Keyspace
}

func (c *closingCursor) Close() error {
	if err := c.Cursor.Close(); err != nil {
		c.ks.Close()
		return err
	}
	return c.ks.Close()
}

// matchLoneNodes handles a MATCH pattern with no edges at all: every
// node alias is either already pinned by an equality filter, or ranges
// over every distinct entity identity ever seen as a triplet endpoint in
// the graph.
func (w *walker) matchLoneNodes(g *pattern.Graph, ret ast.ReturnClause, rs *resultset.ResultSet) (*resultset.ResultSet, error) {
	aliases := g.Order
	var bindCombos func(i int) error
	bindCombos = func(i int) error {
		if i == len(aliases) {
			if !w.readyFiltersPass() {
				return nil
			}
			return w.emit(ret, rs)
		}
		alias := aliases[i]
		if _, ok := w.bound[alias]; ok {
			return bindCombos(i + 1)
		}
		ids, err := allEntityIDs(w.backend, w.graph)
		if err != nil {
			return err
		}
		for _, id := range ids {
			snapshot := w.snapshot()
			w.bound[alias] = id
			if w.readyFiltersPass() {
				if err := bindCombos(i + 1); err != nil {
					w.restore(snapshot)
					return err
				}
			}
			w.restore(snapshot)
		}
		return nil
	}
	if err := bindCombos(0); err != nil {
		return nil, err
	}
	return rs, nil
}

func allEntityIDs(backend store.Backend, graph string) ([]string, error) {
	ks, err := backend.Open(graph, false)
	if err != nil {
		return nil, err
	}
	defer ks.Close()
	cur, found, err := hexastore.QueryTriplet(ks, hexastore.Triplet{})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	defer cur.Close()

	seen := make(map[string]struct{})
	var ids []string
	for {
		t, ok := cur.Next()
		if !ok {
			break
		}
		for _, id := range []string{*t.Subject, *t.Object} {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func buildColumns(ret ast.ReturnClause) ([]resultset.Column, error) {
	columns := make([]resultset.Column, 0, len(ret.Items))
	for _, item := range ret.Items {
		name := columnName(item)
		if call, ok := item.Expr.(*ast.FuncCall); ok {
			if kind, isAgg := aggregate.Lookup(call.Name); isAgg {
				columns = append(columns, resultset.Column{Name: name, Aggregate: true, Kind: kind})
				continue
			}
		}
		columns = append(columns, resultset.Column{Name: name})
	}
	return columns, nil
}

func columnName(item ast.ReturnItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expr.(type) {
	case *ast.PropertyRef:
		if e.Property != "" {
			return fmt.Sprintf("%s.%s", e.Alias, e.Property)
		}
		return e.Alias
	case *ast.FuncCall:
		return e.Name
	default:
		return ""
	}
}

func (w *walker) emit(ret ast.ReturnClause, rs *resultset.ResultSet) error {
	values := make([]value.Value, len(ret.Items))
	for i, item := range ret.Items {
		if call, ok := item.Expr.(*ast.FuncCall); ok {
			if _, isAgg := aggregate.Lookup(call.Name); isAgg {
				if len(call.Args) != 1 {
					return fmt.Errorf("executor: %s takes exactly one argument", call.Name)
				}
				v, err := evaluator.Eval(call.Args[0], w.bound)
				if err != nil {
					return err
				}
				values[i] = v
				continue
			}
		}
		v, err := evaluator.Eval(item.Expr, w.bound)
		if err != nil {
			return err
		}
		values[i] = v
	}
	rs.AddRow(values)
	return nil
}
