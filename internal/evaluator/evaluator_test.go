package evaluator

import (
	"testing"

	"github.com/ritamzico/trigraph/internal/ast"
)

func TestEvalBareAliasResolvesToBoundIdentity(t *testing.T) {
	v, err := Eval(&ast.PropertyRef{Alias: "a"}, map[string]string{"a": "alice"})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.String() != "alice" {
		t.Errorf("got %q, want alice", v.String())
	}
}

func TestEvalQualifiedPropertyIgnoresPropertyName(t *testing.T) {
	// Property name plays no role in scalar resolution: alias.anything
	// resolves the same as bare alias.
	v, err := Eval(&ast.PropertyRef{Alias: "a", Property: "name"}, map[string]string{"a": "alice"})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.String() != "alice" {
		t.Errorf("got %q, want alice", v.String())
	}
}

func TestEvalBoolEquality(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:    "=",
		Left:  &ast.PropertyRef{Alias: "a"},
		Right: &ast.Lit{Value: ast.Literal{Kind: ast.LitString, Str: "alice"}},
	}
	ok, err := EvalBool(expr, map[string]string{"a": "alice"})
	if err != nil {
		t.Fatalf("EvalBool: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
}

func TestEvalBoolNotEquals(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:    "<>",
		Left:  &ast.PropertyRef{Alias: "a"},
		Right: &ast.Lit{Value: ast.Literal{Kind: ast.LitString, Str: "bob"}},
	}
	ok, err := EvalBool(expr, map[string]string{"a": "alice"})
	if err != nil {
		t.Fatalf("EvalBool: %v", err)
	}
	if !ok {
		t.Error("expected alice <> bob to be true")
	}
}

func TestEvalBoolAndOr(t *testing.T) {
	and := &ast.BinaryExpr{
		Op:    "AND",
		Left:  &ast.Lit{Value: ast.Literal{Kind: ast.LitBool, Bool: true}},
		Right: &ast.Lit{Value: ast.Literal{Kind: ast.LitBool, Bool: false}},
	}
	ok, err := EvalBool(and, nil)
	if err != nil {
		t.Fatalf("EvalBool: %v", err)
	}
	if ok {
		t.Error("true AND false should be false")
	}

	or := &ast.BinaryExpr{
		Op:    "OR",
		Left:  &ast.Lit{Value: ast.Literal{Kind: ast.LitBool, Bool: true}},
		Right: &ast.Lit{Value: ast.Literal{Kind: ast.LitBool, Bool: false}},
	}
	ok, err = EvalBool(or, nil)
	if err != nil {
		t.Fatalf("EvalBool: %v", err)
	}
	if !ok {
		t.Error("true OR false should be true")
	}
}

func TestEvalBoolNot(t *testing.T) {
	not := &ast.UnaryExpr{Op: "NOT", Operand: &ast.Lit{Value: ast.Literal{Kind: ast.LitBool, Bool: false}}}
	ok, err := EvalBool(not, nil)
	if err != nil {
		t.Fatalf("EvalBool: %v", err)
	}
	if !ok {
		t.Error("NOT false should be true")
	}
}

func TestEvalArithmetic(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:    "+",
		Left:  &ast.Lit{Value: ast.Literal{Kind: ast.LitInt, Int: 2}},
		Right: &ast.Lit{Value: ast.Literal{Kind: ast.LitInt, Int: 3}},
	}
	v, err := Eval(expr, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.I != 5 {
		t.Errorf("got %d, want 5", v.I)
	}
}

func TestEvalBoolRejectsNonBoolResult(t *testing.T) {
	_, err := EvalBool(&ast.Lit{Value: ast.Literal{Kind: ast.LitInt, Int: 1}}, nil)
	if err == nil {
		t.Error("expected an error for a non-boolean WHERE expression")
	}
}
