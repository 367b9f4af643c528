package lang

import (
	"fmt"

	"github.com/ritamzico/trigraph/internal/ast"
)

// Parse turns query text (the argument to the QUERY command) into an
// ast.Query. Syntax errors are returned as plain errors; the command
// surface wraps them with engerr.NewParseError.
func Parse(query string) (*ast.Query, error) {
	g, err := queryParser.ParseString("", query)
	if err != nil {
		return nil, fmt.Errorf("lang: %w", err)
	}
	return convertQuery(g), nil
}
