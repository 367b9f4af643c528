// Package lang parses the engine's Cypher-subset query text (the
// argument to the QUERY command, §4.8) into internal/ast, the same
// lexer/grammar/convert split the teacher's own probabilistic DSL uses:
// a participle-built grammar of plain structs, walked afterwards into a
// separate, participle-free AST package.
package lang

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(MATCH|WHERE|RETURN|AS|AND|OR|NOT|TRUE|FALSE)\b`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Arrow", Pattern: `->|<-`},
	{Name: "CompOp", Pattern: `<>|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[-\[\]{}()\.,:*/+]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var queryParser = participle.MustBuild[grammarQuery](
	participle.Lexer(queryLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// --- literals & property maps ---

type grammarLiteral struct {
	String *string  `  @String`
	Float  *float64 `| @Float`
	Int    *int64   `| @Int`
	True   bool     `| @"true"`
	False  bool     `| @"false"`
}

type grammarProp struct {
	Name  string          `@Ident ":"`
	Value grammarLiteral `@@`
}

type grammarPropMap struct {
	Props []*grammarProp `"{" (@@ ("," @@)*)? "}"`
}

// --- patterns ---

type grammarNode struct {
	Alias string          `"(" (@Ident)?`
	Label string          `(":" @Ident)?`
	Props *grammarPropMap `@@? ")"`
}

type grammarEdge struct {
	Left  string          `(@"<-" | @"-")`
	Alias string          `("[" (@Ident)?`
	Type  string          `(":" @Ident)?`
	Props *grammarPropMap `@@?  "]")?`
	Right string          `(@"->" | @"-")`
}

type grammarPatternChain struct {
	First *grammarNode `@@`
	Rest  []*grammarHop `@@*`
}

type grammarHop struct {
	Edge *grammarEdge `@@`
	Node *grammarNode `@@`
}

type grammarMatch struct {
	Patterns []*grammarPatternChain `"MATCH" @@ ("," @@)*`
}

// --- expressions (precedence climbing, no left recursion) ---

type grammarExpr struct {
	Or *grammarOrExpr `@@`
}

type grammarOrExpr struct {
	Left  *grammarAndExpr   `@@`
	Right []*grammarAndExpr `("OR" @@)*`
}

type grammarAndExpr struct {
	Left  *grammarNotExpr   `@@`
	Right []*grammarNotExpr `("AND" @@)*`
}

type grammarNotExpr struct {
	Not  bool             `@"NOT"?`
	Comp *grammarCompExpr `@@`
}

type grammarCompExpr struct {
	Left  *grammarAddExpr `@@`
	Op    *string         `(@CompOp`
	Right *grammarAddExpr ` @@)?`
}

type grammarAddExpr struct {
	Left  *grammarMulExpr   `@@`
	Ops   []string          `(@("+" | "-")`
	Rest  []*grammarMulExpr ` @@)*`
}

type grammarMulExpr struct {
	Left *grammarUnaryExpr   `@@`
	Ops  []string            `(@("*" | "/")`
	Rest []*grammarUnaryExpr ` @@)*`
}

type grammarUnaryExpr struct {
	Neg     bool             `@"-"?`
	Primary *grammarPrimary `@@`
}

type grammarPrimary struct {
	Call    *grammarCall     `  @@`
	PropRef *grammarPropRef  `| @@`
	Literal *grammarLiteral  `| @@`
	Sub     *grammarExpr     `| "(" @@ ")"`
}

type grammarCall struct {
	Name string         `@Ident "("`
	Args []*grammarExpr `(@@ ("," @@)*)? ")"`
}

type grammarPropRef struct {
	Alias    string  `@Ident`
	Property *string `("." @Ident)?`
}

// --- return & top-level query ---

type grammarReturnItem struct {
	Expr  *grammarExpr `@@`
	Alias *string      `("AS" @Ident)?`
}

type grammarReturn struct {
	Items []*grammarReturnItem `"RETURN" @@ ("," @@)*`
}

type grammarQuery struct {
	Match  *grammarMatch  `@@`
	Where  *grammarExpr   `("WHERE" @@)?`
	Return *grammarReturn `@@`
}
