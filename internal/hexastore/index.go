package hexastore

import (
	"github.com/ritamzico/trigraph/internal/engerr"
	"github.com/ritamzico/trigraph/internal/store"
)

// AddEdge inserts all six permutations of (subject, predicate, object)
// into graphName's keyspace, opening a fresh write transaction and
// committing it. inserted reports whether the triple was not already
// present (sorted-set semantics: re-adding an existing member is a
// no-op, not an error). Fails with an engerr.WrongType error if the
// graph exists and is not a sorted-set.
func AddEdge(backend store.Backend, graphName, subject, predicate, object string) (inserted bool, err error) {
	ks, err := backend.Open(graphName, true)
	if err != nil {
		return false, err
	}
	defer ks.Close()

	kind, err := ks.Kind()
	if err != nil {
		return false, err
	}
	if kind != store.KindNone && kind != store.KindSortedSet {
		return false, engerr.NewWrongType(graphName)
	}

	t := NewTriplet(subject, predicate, object)
	for _, member := range GetTripletPermutations(t) {
		added, err := ks.Add([]byte(member))
		if err != nil {
			return false, err
		}
		if added {
			inserted = true
		}
	}
	return inserted, nil
}

// RemoveEdge deletes all six permutations of (subject, predicate,
// object) from graphName's keyspace. removed reports whether the triple
// was present.
func RemoveEdge(backend store.Backend, graphName, subject, predicate, object string) (removed bool, err error) {
	ks, err := backend.Open(graphName, true)
	if err != nil {
		return false, err
	}
	defer ks.Close()

	t := NewTriplet(subject, predicate, object)
	for _, member := range GetTripletPermutations(t) {
		gone, err := ks.Remove([]byte(member))
		if err != nil {
			return false, err
		}
		if gone {
			removed = true
		}
	}
	return removed, nil
}

// DeleteGraph drops graphName's entire keyspace in one call.
func DeleteGraph(backend store.Backend, graphName string) (bool, error) {
	return backend.Delete(graphName)
}

// Query opens a read-only cursor over every stored triplet matching t in
// graphName. The returned closer must be called once the cursor (and any
// triplets it yielded) are no longer needed.
func Query(backend store.Backend, graphName string, t Triplet) (cursor *Cursor, found bool, closer func() error, err error) {
	ks, err := backend.Open(graphName, false)
	if err != nil {
		return nil, false, nil, err
	}
	cur, found, err := QueryTriplet(ks, t)
	if err != nil {
		ks.Close()
		return nil, false, nil, err
	}
	closer = func() error {
		if cur != nil {
			if err := cur.Close(); err != nil {
				ks.Close()
				return err
			}
		}
		return ks.Close()
	}
	return cur, found, closer, nil
}

// Card reports the raw cardinality of graphName's sorted set: one member
// per permutation key actually stored, so a graph of E distinct triples
// has a cardinality of 6·E. This is the number ADDEDGE replies with, not
// a distinct-triple count — callers that want the latter divide by 6
// themselves.
func Card(backend store.Backend, graphName string) (int64, error) {
	ks, err := backend.Open(graphName, false)
	if err != nil {
		return 0, err
	}
	defer ks.Close()
	return ks.Card()
}
