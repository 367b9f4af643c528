package lang

import (
	"testing"

	"github.com/ritamzico/trigraph/internal/ast"
)

func TestParseSimpleMatchReturn(t *testing.T) {
	q, err := Parse("MATCH (a)-[r:knows]->(b) RETURN a, r, b")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(q.Match.Patterns) != 1 {
		t.Fatalf("expected 1 pattern chain, got %d", len(q.Match.Patterns))
	}
	chain := q.Match.Patterns[0]
	if len(chain) != 3 {
		t.Fatalf("expected node-edge-node, got %d elements", len(chain))
	}
	if chain[0].Node.Alias != "a" || chain[2].Node.Alias != "b" {
		t.Errorf("node aliases = %s/%s, want a/b", chain[0].Node.Alias, chain[2].Node.Alias)
	}
	if chain[1].Edge.Alias != "r" || chain[1].Edge.Type != "knows" {
		t.Errorf("edge = %+v, want alias=r type=knows", chain[1].Edge)
	}
	if chain[1].Edge.Direction != ast.DirRight {
		t.Errorf("direction = %v, want DirRight", chain[1].Edge.Direction)
	}
	if len(q.Return.Items) != 3 {
		t.Fatalf("expected 3 return items, got %d", len(q.Return.Items))
	}
}

func TestParseLeftDirection(t *testing.T) {
	q, err := Parse("MATCH (a)<-[r:knows]-(b) RETURN a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	edge := q.Match.Patterns[0][1].Edge
	if edge.Direction != ast.DirLeft {
		t.Errorf("direction = %v, want DirLeft", edge.Direction)
	}
}

func TestParseWhereClause(t *testing.T) {
	q, err := Parse("MATCH (a)-[r:knows]->(b) WHERE a = 'alice' AND b <> 'bob' RETURN a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Where == nil {
		t.Fatal("expected a non-nil WHERE expression")
	}
	bin, ok := q.Where.(*ast.BinaryExpr)
	if !ok || bin.Op != "AND" {
		t.Fatalf("expected a top-level AND, got %+v", q.Where)
	}
}

func TestParseInlineNodeProperties(t *testing.T) {
	q, err := Parse("MATCH (a:Person {name: 'alice'}) RETURN a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	node := q.Match.Patterns[0][0].Node
	if node.Label != "Person" {
		t.Errorf("label = %q, want Person", node.Label)
	}
	if len(node.Props) != 1 || node.Props[0].Name != "name" {
		t.Fatalf("props = %+v, want one prop named name", node.Props)
	}
}

func TestParseAggregateReturn(t *testing.T) {
	q, err := Parse("MATCH (a)-[r:knows]->(b) RETURN a, count(b)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(q.Return.Items) != 2 {
		t.Fatalf("expected 2 return items, got %d", len(q.Return.Items))
	}
	call, ok := q.Return.Items[1].Expr.(*ast.FuncCall)
	if !ok {
		t.Fatalf("expected second item to be a function call, got %T", q.Return.Items[1].Expr)
	}
	if call.Name != "count" || len(call.Args) != 1 {
		t.Errorf("call = %+v, want count(b)", call)
	}
}

func TestParseReturnAlias(t *testing.T) {
	q, err := Parse("MATCH (a) RETURN a AS person")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Return.Items[0].Alias != "person" {
		t.Errorf("alias = %q, want person", q.Return.Items[0].Alias)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse("NOT A QUERY("); err == nil {
		t.Error("expected a parse error for malformed input")
	}
}
