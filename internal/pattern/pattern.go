// Package pattern turns a MATCH clause's comma-separated list of
// independent pattern chains into one merged pattern graph: nodes keyed
// by alias, edges linking them. Two pattern chains sharing an alias
// describe the same entity and are merged into one node, mirroring the
// two-pass "collect every alias, then link edges between them" graph
// construction the engine's Cypher heritage uses to build its execution
// plan before invoking the recursive pattern executor.
//
// BuildGraph expects every node and edge to already carry an alias —
// anonymous-pattern naming is internal/rewrite's job, run before this
// package sees the query.
package pattern

import (
	"fmt"

	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/engerr"
)

// Node is one alias-identified entity in the merged pattern graph.
type Node struct {
	Alias string
	Label string
	Props []ast.PropLit
}

// Edge links two node aliases via a relationship alias.
type Edge struct {
	Alias     string
	Type      string
	Props     []ast.PropLit
	Direction ast.Direction
	From, To  string // node aliases
}

// Graph is the full merged pattern: every alias mentioned anywhere in
// the MATCH clause, and every edge between them.
type Graph struct {
	Nodes map[string]*Node
	Edges []*Edge
	// Order preserves first-mention order, so the executor's entry-point
	// choice and the eventual output column ordering stay deterministic.
	Order []string
}

// BuildGraph merges every pattern chain in match into one Graph.
//
// Pass one walks every chain and registers each node alias, merging
// label/props from repeated mentions of the same alias (the first
// non-empty label wins; property lists are concatenated). Pass two
// re-walks the chains and records the edges between already-registered
// node aliases; an edge whose alias was already recorded is skipped, and
// a chain that is not an odd-length node-edge-node alternation is an
// error.
func BuildGraph(match ast.MatchClause) (*Graph, error) {
	g := &Graph{Nodes: make(map[string]*Node)}

	for _, chain := range match.Patterns {
		for _, elem := range chain {
			if elem.Node == nil {
				continue
			}
			registerNode(g, elem.Node)
		}
	}

	seenEdges := make(map[string]bool)
	for _, chain := range match.Patterns {
		if len(chain)%2 == 0 {
			return nil, fmt.Errorf("pattern: malformed chain: expected node-edge-node alternation")
		}
		for i := 0; i+2 < len(chain); i += 2 {
			fromElem, edgeElem, toElem := chain[i], chain[i+1], chain[i+2]
			if fromElem.Node == nil || edgeElem.Edge == nil || toElem.Node == nil {
				return nil, fmt.Errorf("pattern: malformed chain: expected node-edge-node alternation")
			}
			if alias := edgeElem.Edge.Alias; alias != "" {
				if seenEdges[alias] {
					continue
				}
				seenEdges[alias] = true
			}
			from, to := fromElem.Node.Alias, toElem.Node.Alias
			if edgeElem.Edge.Direction == ast.DirLeft {
				from, to = to, from
			}
			g.Edges = append(g.Edges, &Edge{
				Alias:     edgeElem.Edge.Alias,
				Type:      edgeElem.Edge.Type,
				Props:     edgeElem.Edge.Props,
				Direction: edgeElem.Edge.Direction,
				From:      from,
				To:        to,
			})
		}
	}

	return g, nil
}

func registerNode(g *Graph, n *ast.NodePattern) {
	existing, ok := g.Nodes[n.Alias]
	if !ok {
		g.Nodes[n.Alias] = &Node{Alias: n.Alias, Label: n.Label, Props: append([]ast.PropLit(nil), n.Props...)}
		g.Order = append(g.Order, n.Alias)
		return
	}
	if existing.Label == "" {
		existing.Label = n.Label
	}
	existing.Props = append(existing.Props, n.Props...)
}

// Alias looks up a node by alias, returning engerr.UnknownAlias if it
// was never bound by the MATCH clause.
func (g *Graph) Alias(alias string) (*Node, error) {
	n, ok := g.Nodes[alias]
	if !ok {
		return nil, engerr.NewUnknownAlias(alias)
	}
	return n, nil
}
