// Package engerr defines the single error type the engine's command
// surface returns, in the Kind/Message shape the teacher's package-level
// error types (graph.GraphError, query.QueryError, dsl.SyntaxError) each
// used separately — unified here since this module has one command
// surface rather than three independent subsystems reporting to a host.
package engerr

import "fmt"

type Kind string

const (
	WrongArity   Kind = "WRONG_ARITY"
	WrongType    Kind = "WRONG_TYPE"
	ParseError   Kind = "PARSE_ERROR"
	UnknownAlias Kind = "UNKNOWN_ALIAS"
)

type EngineError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

func NewWrongArity(command string, want, got int) error {
	return &EngineError{Kind: WrongArity, Message: fmt.Sprintf("%s wants %d arguments, got %d", command, want, got)}
}

func NewWrongType(graphName string) error {
	return &EngineError{Kind: WrongType, Message: fmt.Sprintf("graph %q exists and is not a sorted-set", graphName)}
}

func NewParseError(query string, cause error) error {
	return &EngineError{Kind: ParseError, Message: fmt.Sprintf("could not parse %q", query), Err: cause}
}

func NewUnknownAlias(alias string) error {
	return &EngineError{Kind: UnknownAlias, Message: fmt.Sprintf("alias %q is not bound by the MATCH clause", alias)}
}
