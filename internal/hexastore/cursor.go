package hexastore

import (
	"fmt"

	"github.com/ritamzico/trigraph/internal/store"
)

// Cursor walks the triplets matching a (possibly partially bound)
// pattern, in the ascending lexicographic order of whichever permutation
// was selected to answer it.
type Cursor struct {
	tag  Tag
	it   store.Iterator
	cur  Triplet
	done bool
}

// QueryTriplet opens a cursor over every stored triplet matching t,
// or (nil, false, nil) if the graph has never been written to — the
// INDEX_MISSING case is not an error, it is an empty result.
func QueryTriplet(ks store.Keyspace, t Triplet) (*Cursor, bool, error) {
	kind, err := ks.Kind()
	if err != nil {
		return nil, false, err
	}
	if kind == store.KindNone {
		return nil, false, nil
	}

	tag, prefix := TripletToString(t)
	min := []byte(prefix)
	max := append(append([]byte(nil), min...), 0xFF)
	it, err := ks.Scan(min, max)
	if err != nil {
		return nil, false, err
	}
	return &Cursor{tag: tag, it: it}, true, nil
}

// Next advances the cursor, returning the next matching triplet and true,
// or the zero Triplet and false once exhausted.
func (c *Cursor) Next() (Triplet, bool) {
	if c.done {
		return Triplet{}, false
	}
	if !c.it.Next() {
		c.done = true
		return Triplet{}, false
	}
	s, p, o, ok := decode(c.tag, string(c.it.Key()))
	if !ok {
		c.done = true
		return Triplet{}, false
	}
	c.cur = NewTriplet(s, p, o)
	return c.cur, true
}

// Close releases the underlying store iterator.
func (c *Cursor) Close() error {
	if c.it == nil {
		return nil
	}
	if err := c.it.Close(); err != nil {
		return fmt.Errorf("hexastore: closing cursor: %w", err)
	}
	return nil
}
