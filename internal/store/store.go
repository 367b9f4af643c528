// Package store defines the opaque sorted-set storage primitive the
// hexastore index is built on, and namespaces it per named graph.
//
// The shape mirrors the Storage/Transaction/Iterator split used by the
// pack's own badger-backed triplestore example: a Backend opens
// per-graph Keyspace handles bound to either a read or a write
// transaction, and a Keyspace exposes exactly the operations a
// lexicographic range scan over hexastore keys needs.
package store

import "errors"

// ErrNotFound names the "graph never written to" condition. Keyspace.Kind
// does not return it: it reports that condition as KindNone with a nil
// error.
var ErrNotFound = errors.New("store: graph not found")

// Kind distinguishes "never written" from "holds hexastore members" so
// that ADDEDGE can raise WRONG_TYPE the way a real sorted-set store
// would if the same key were reused for an incompatible value. This
// engine only ever writes one kind of value, so in practice Kind is
// always KindSortedSet once a graph has been touched; the type remains
// so the WRONG_TYPE contract in the spec is actually checkable rather
// than vacuous.
type Kind byte

const (
	KindNone Kind = iota
	KindSortedSet
)

// Iterator walks a lexicographic key range in ascending byte order.
type Iterator interface {
	Next() bool
	Key() []byte
	Close() error
}

// Keyspace is a Backend handle scoped to one named graph.
type Keyspace interface {
	// Add inserts member, returning true if it was not already present.
	Add(member []byte) (bool, error)
	// Remove deletes member, returning true if it was present.
	Remove(member []byte) (bool, error)
	// Scan returns an iterator over [min, max] inclusive, in ascending order.
	Scan(min, max []byte) (Iterator, error)
	// Kind reports whether the graph has ever held hexastore members.
	Kind() (Kind, error)
	// Card returns the number of members currently stored.
	Card() (int64, error)
	// Close releases the underlying transaction.
	Close() error
}

// Backend is the storage host: it opens per-graph Keyspace handles and
// can drop a graph's entire keyspace in one call.
type Backend interface {
	Open(graphName string, writable bool) (Keyspace, error)
	Delete(graphName string) (bool, error)
	Close() error
}
