package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/trigraph/internal/ast"
	"github.com/ritamzico/trigraph/internal/engerr"
	"github.com/ritamzico/trigraph/internal/labelstore"
)

func TestNameAnonymousAssignsOnlyUnnamed(t *testing.T) {
	match := &ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{Alias: "a"}},
		{Edge: &ast.EdgePattern{}},
		{Node: &ast.NodePattern{}},
	}}}
	NameAnonymous(match)

	chain := match.Patterns[0]
	assert.Equal(t, "a", chain[0].Node.Alias)
	assert.Equal(t, "anon_0", chain[1].Edge.Alias)
	assert.Equal(t, "anon_1", chain[2].Node.Alias)
}

func TestLiftInlinePropertiesRewritesNodeProps(t *testing.T) {
	match := &ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{
			Alias: "a",
			Label: "Person",
			Props: []ast.PropLit{{Name: "name", Value: ast.Literal{Kind: ast.LitString, Str: "alice"}}},
		}},
	}}}
	labels := labelstore.New()

	where := LiftInlineProperties(match, nil, labels, "g")
	require.NotNil(t, where)

	bin, ok := where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", bin.Op)

	ref, ok := bin.Left.(*ast.PropertyRef)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Alias)
	assert.Equal(t, "name", ref.Property)

	assert.Empty(t, match.Patterns[0][0].Node.Props, "lifted properties should be cleared from the pattern")
	assert.Equal(t, []string{"name"}, labels.PropertiesFor("g", labelstore.KindNode, "Person"))
}

func TestLiftInlinePropertiesAndsOntoExistingWhere(t *testing.T) {
	match := &ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{
			Alias: "a",
			Props: []ast.PropLit{{Name: "name", Value: ast.Literal{Kind: ast.LitString, Str: "alice"}}},
		}},
	}}}
	existing := &ast.PropertyRef{Alias: "a"}
	labels := labelstore.New()

	where := LiftInlineProperties(match, existing, labels, "g")
	bin, ok := where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "AND", bin.Op)
	assert.Equal(t, existing, bin.Left)
}

func TestExpandCollapsedReturnsLeavesBareAliasWhenNothingRecorded(t *testing.T) {
	match := ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{Alias: "a", Label: "Person"}},
	}}}
	ret := &ast.ReturnClause{Items: []ast.ReturnItem{
		{Expr: &ast.PropertyRef{Alias: "a"}},
	}}
	labels := labelstore.New()

	require.NoError(t, ExpandCollapsedReturns(match, ret, labels, "g"))

	require.Len(t, ret.Items, 1)
	ref, ok := ret.Items[0].Expr.(*ast.PropertyRef)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Alias)
	assert.Empty(t, ref.Property)
}

func TestExpandCollapsedReturnsErrorsOnUnboundAlias(t *testing.T) {
	match := ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{Alias: "a", Label: "Person"}},
	}}}
	ret := &ast.ReturnClause{Items: []ast.ReturnItem{
		{Expr: &ast.PropertyRef{Alias: "ghost"}},
	}}
	labels := labelstore.New()

	err := ExpandCollapsedReturns(match, ret, labels, "g")
	require.Error(t, err)
	var engineErr *engerr.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, engerr.UnknownAlias, engineErr.Kind)
}

func TestExpandCollapsedReturnsExpandsRecordedProperties(t *testing.T) {
	match := ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{Alias: "a", Label: "Person"}},
	}}}
	ret := &ast.ReturnClause{Items: []ast.ReturnItem{
		{Expr: &ast.PropertyRef{Alias: "a"}},
	}}
	labels := labelstore.New()
	labels.Record("g", labelstore.KindNode, "Person", "name")

	require.NoError(t, ExpandCollapsedReturns(match, ret, labels, "g"))

	require.Len(t, ret.Items, 1)
	ref, ok := ret.Items[0].Expr.(*ast.PropertyRef)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Alias)
	assert.Equal(t, "name", ref.Property)
}

func TestExpandCollapsedReturnsSkipsAliasedOrQualifiedItems(t *testing.T) {
	match := ast.MatchClause{Patterns: [][]ast.PatternElement{{
		{Node: &ast.NodePattern{Alias: "a", Label: "Person"}},
	}}}
	labels := labelstore.New()
	labels.Record("g", labelstore.KindNode, "Person", "name")

	ret := &ast.ReturnClause{Items: []ast.ReturnItem{
		{Expr: &ast.PropertyRef{Alias: "a"}, Alias: "x"},
		{Expr: &ast.PropertyRef{Alias: "a", Property: "name"}},
	}}
	require.NoError(t, ExpandCollapsedReturns(match, ret, labels, "g"))
	require.Len(t, ret.Items, 2)
}
