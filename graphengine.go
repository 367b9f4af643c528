// Package graphengine is the library entry point: a hexastore-indexed
// triple store queried through a Cypher-subset MATCH/WHERE/RETURN
// language, exposed through the five-command surface ADDEDGE, REMOVEEDGE,
// DELETE, QUERY and DUMP.
package graphengine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ritamzico/trigraph/internal/engerr"
	"github.com/ritamzico/trigraph/internal/executor"
	"github.com/ritamzico/trigraph/internal/hexastore"
	"github.com/ritamzico/trigraph/internal/labelstore"
	"github.com/ritamzico/trigraph/internal/lang"
	"github.com/ritamzico/trigraph/internal/resultset"
	"github.com/ritamzico/trigraph/internal/serialization"
	"github.com/ritamzico/trigraph/internal/store"
)

// DefaultRowLimit bounds how many distinct rows (or groups, for an
// aggregating RETURN) a single QUERY will materialise, so a runaway
// cartesian MATCH against a large graph cannot exhaust memory.
const DefaultRowLimit = 1_000_000

// Engine is a triple store over one or more named graphs, backed by a
// single store.Backend.
type Engine struct {
	backend  store.Backend
	labels   *labelstore.Store
	log      *zap.SugaredLogger
	rowLimit int
}

// New opens an Engine over an in-memory badger database — no files are
// ever written to disk. Suitable as the zero-configuration default and
// for tests.
func New() (*Engine, error) {
	backend, err := store.NewInMemoryBackend()
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend), nil
}

// Open opens an Engine backed by a badger database rooted at path.
func Open(path string) (*Engine, error) {
	backend, err := store.NewBackend(path)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend), nil
}

// NewWithBackend builds an Engine over an already-open backend. Logging
// defaults to zap's no-op logger; callers that want diagnostics call
// SetLogger.
func NewWithBackend(backend store.Backend) *Engine {
	return &Engine{
		backend:  backend,
		labels:   labelstore.New(),
		log:      zap.NewNop().Sugar(),
		rowLimit: DefaultRowLimit,
	}
}

// SetLogger installs a structured logger for command-surface diagnostics.
// Internal packages never log themselves — only the command surface
// does, once per command, so a single log line always corresponds to one
// ADDEDGE/REMOVEEDGE/DELETE/QUERY/DUMP invocation.
func (e *Engine) SetLogger(log *zap.SugaredLogger) { e.log = log }

// Close releases the underlying backend.
func (e *Engine) Close() error { return e.backend.Close() }

// AddEdge stores the triple (subject, predicate, object) in graphName and
// replies with graphName's new raw cardinality (6 keys per distinct
// triple), per the hexastore package's sorted-set semantics. Re-adding an
// already-present triple leaves the cardinality unchanged.
func (e *Engine) AddEdge(graphName, subject, predicate, object string) (cardinality int64, err error) {
	if _, err = hexastore.AddEdge(e.backend, graphName, subject, predicate, object); err != nil {
		e.log.Infow("ADDEDGE", "graph", graphName, "subject", subject, "predicate", predicate, "object", object, "error", err)
		return 0, err
	}
	cardinality, err = hexastore.Card(e.backend, graphName)
	e.log.Infow("ADDEDGE", "graph", graphName, "subject", subject, "predicate", predicate, "object", object, "cardinality", cardinality, "error", err)
	return cardinality, err
}

// RemoveEdge deletes the triple (subject, predicate, object) from
// graphName and replies with the number of permutation keys actually
// removed by this call — always 0 (triple was not present) or 6 (all six
// permutations were deleted together), never the graph's resulting
// cardinality.
func (e *Engine) RemoveEdge(graphName, subject, predicate, object string) (removedCount int64, err error) {
	removed, err := hexastore.RemoveEdge(e.backend, graphName, subject, predicate, object)
	if removed {
		removedCount = 6
	}
	e.log.Infow("REMOVEEDGE", "graph", graphName, "subject", subject, "predicate", predicate, "object", object, "removed", removedCount, "error", err)
	return removedCount, err
}

// Delete drops graphName's entire keyspace and label-store bookkeeping.
// existed is false if the graph had never been written to.
func (e *Engine) Delete(graphName string) (existed bool, err error) {
	existed, err = e.backend.Delete(graphName)
	e.labels.DropGraph(graphName)
	e.log.Infow("DELETE", "graph", graphName, "existed", existed, "error", err)
	return existed, err
}

// Query parses and runs a MATCH [WHERE] RETURN query against graphName.
func (e *Engine) Query(ctx context.Context, graphName, queryText string) (*resultset.ResultSet, error) {
	q, err := lang.Parse(queryText)
	if err != nil {
		wrapped := engerr.NewParseError(queryText, err)
		e.log.Infow("QUERY", "graph", graphName, "query", queryText, "error", wrapped)
		return nil, wrapped
	}

	rs, err := executor.Execute(e.backend, graphName, q, e.labels, e.rowLimit)
	e.log.Infow("QUERY", "graph", graphName, "query", queryText, "rows", rowCount(rs), "error", err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func rowCount(rs *resultset.ResultSet) int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows())
}

// Dump exports every triple in graphName as JSON.
func (e *Engine) Dump(graphName string) ([]byte, error) {
	triples, err := allTriples(e.backend, graphName)
	if err != nil {
		e.log.Infow("DUMP", "graph", graphName, "error", err)
		return nil, err
	}
	var buf strings.Builder
	if err := serialization.WriteGraphJSON(graphName, triples, &buf); err != nil {
		e.log.Infow("DUMP", "graph", graphName, "error", err)
		return nil, err
	}
	e.log.Infow("DUMP", "graph", graphName, "triples", len(triples))
	return []byte(buf.String()), nil
}

func allTriples(backend store.Backend, graphName string) ([]hexastore.Triplet, error) {
	ks, err := backend.Open(graphName, false)
	if err != nil {
		return nil, err
	}
	defer ks.Close()

	cur, found, err := hexastore.QueryTriplet(ks, hexastore.Triplet{})
	if err != nil || !found {
		return nil, err
	}
	defer cur.Close()

	var out []hexastore.Triplet
	for {
		t, ok := cur.Next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// Command dispatches one of the five surface commands by name, the way
// the engine is invoked from the CLI and HTTP server layers: name is
// case-insensitive, args holds every argument after the command name,
// and a QUERY's query text is every argument after the graph name
// rejoined with single spaces.
func (e *Engine) Command(ctx context.Context, name string, args []string) (any, error) {
	switch strings.ToUpper(name) {
	case "ADDEDGE":
		if len(args) != 4 {
			return nil, engerr.NewWrongArity("ADDEDGE", 4, len(args))
		}
		return e.AddEdge(args[0], args[1], args[2], args[3])
	case "REMOVEEDGE":
		if len(args) != 4 {
			return nil, engerr.NewWrongArity("REMOVEEDGE", 4, len(args))
		}
		return e.RemoveEdge(args[0], args[1], args[2], args[3])
	case "DELETE":
		if len(args) != 1 {
			return nil, engerr.NewWrongArity("DELETE", 1, len(args))
		}
		return e.Delete(args[0])
	case "QUERY":
		if len(args) < 2 {
			return nil, engerr.NewWrongArity("QUERY", 2, len(args))
		}
		return e.Query(ctx, args[0], strings.Join(args[1:], " "))
	case "DUMP":
		if len(args) != 1 {
			return nil, engerr.NewWrongArity("DUMP", 1, len(args))
		}
		return e.Dump(args[0])
	default:
		return nil, fmt.Errorf("graphengine: unknown command %q", name)
	}
}
