package store

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend realises Backend on top of github.com/dgraph-io/badger/v4.
// Every named graph is namespaced into badger's single flat keyspace, the
// same table-prefixing idiom the pack's own triplestore example uses for
// its SPO/POS/OSP tables, generalised here to "one table per graph name"
// instead of "one table per permutation" (permutation is already folded
// into the member bytes themselves — see internal/hexastore).
type BadgerBackend struct {
	db *badger.DB
}

// NewBackend opens (or creates) a badger database at path on disk.
func NewBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening badger at %q: %w", path, err)
	}
	return &BadgerBackend{db: db}, nil
}

// NewInMemoryBackend opens badger in its own supported in-memory mode, so
// tests and a zero-configuration default Engine never touch disk while
// still exercising the real storage engine rather than a hand-rolled fake.
func NewInMemoryBackend() (*BadgerBackend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening in-memory badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Close() error { return b.db.Close() }

func metaKey(graphName string) []byte {
	k := make([]byte, 0, len(graphName)+1)
	k = append(k, 0x00)
	k = append(k, graphName...)
	return k
}

func dataPrefix(graphName string) []byte {
	k := make([]byte, 0, len(graphName)+1)
	k = append(k, graphName...)
	k = append(k, 0x01)
	return k
}

func encodeMeta(kind Kind, card int64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(kind)
	binary.BigEndian.PutUint64(buf[1:], uint64(card))
	return buf
}

func decodeMeta(b []byte) (Kind, int64) {
	if len(b) < 9 {
		return KindNone, 0
	}
	return Kind(b[0]), int64(binary.BigEndian.Uint64(b[1:]))
}

func (b *BadgerBackend) Open(graphName string, writable bool) (Keyspace, error) {
	txn := b.db.NewTransaction(writable)
	return &badgerKeyspace{backend: b, txn: txn, graphName: graphName, writable: writable}, nil
}

func (b *BadgerBackend) Delete(graphName string) (bool, error) {
	existed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		mk := metaKey(graphName)
		if _, err := txn.Get(mk); err == nil {
			existed = true
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if !existed {
			return nil
		}
		if err := txn.Delete(mk); err != nil {
			return err
		}
		prefix := dataPrefix(graphName)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		var toDelete [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			toDelete = append(toDelete, append([]byte(nil), it.Item().Key()...))
		}
		for _, k := range toDelete {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store: deleting graph %q: %w", graphName, err)
	}
	return existed, nil
}

type badgerKeyspace struct {
	backend   *BadgerBackend
	txn       *badger.Txn
	graphName string
	writable  bool
	dirty     bool
}

func (k *badgerKeyspace) readMeta() (Kind, int64, error) {
	item, err := k.txn.Get(metaKey(k.graphName))
	if err == badger.ErrKeyNotFound {
		return KindNone, 0, nil
	}
	if err != nil {
		return KindNone, 0, err
	}
	var kind Kind
	var card int64
	err = item.Value(func(v []byte) error {
		kind, card = decodeMeta(v)
		return nil
	})
	return kind, card, err
}

func (k *badgerKeyspace) writeMeta(kind Kind, card int64) error {
	return k.txn.Set(metaKey(k.graphName), encodeMeta(kind, card))
}

func (k *badgerKeyspace) Kind() (Kind, error) {
	kind, _, err := k.readMeta()
	return kind, err
}

func (k *badgerKeyspace) Card() (int64, error) {
	_, card, err := k.readMeta()
	return card, err
}

func (k *badgerKeyspace) Add(member []byte) (bool, error) {
	dk := append(dataPrefix(k.graphName), member...)
	if _, err := k.txn.Get(dk); err == nil {
		return false, nil
	} else if err != badger.ErrKeyNotFound {
		return false, err
	}
	if err := k.txn.Set(dk, []byte{}); err != nil {
		return false, err
	}
	kind, card, err := k.readMeta()
	if err != nil {
		return false, err
	}
	if err := k.writeMeta(maxKind(kind, KindSortedSet), card+1); err != nil {
		return false, err
	}
	k.dirty = true
	return true, nil
}

func maxKind(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

func (k *badgerKeyspace) Remove(member []byte) (bool, error) {
	dk := append(dataPrefix(k.graphName), member...)
	if _, err := k.txn.Get(dk); err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := k.txn.Delete(dk); err != nil {
		return false, err
	}
	kind, card, err := k.readMeta()
	if err != nil {
		return false, err
	}
	if err := k.writeMeta(kind, card-1); err != nil {
		return false, err
	}
	k.dirty = true
	return true, nil
}

func (k *badgerKeyspace) Scan(min, max []byte) (Iterator, error) {
	prefix := dataPrefix(k.graphName)
	lo := append(append([]byte(nil), prefix...), min...)
	hi := append(append([]byte(nil), prefix...), max...)
	it := k.txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
	it.Seek(lo)
	return &badgerIterator{it: it, prefix: prefix, hi: hi, started: false}, nil
}

func (k *badgerKeyspace) Close() error {
	if k.dirty && k.writable {
		if err := k.txn.Commit(); err != nil {
			k.txn.Discard()
			return err
		}
		return nil
	}
	k.txn.Discard()
	return nil
}

type badgerIterator struct {
	it      *badger.Iterator
	prefix  []byte
	hi      []byte
	started bool
	key     []byte
}

func (it *badgerIterator) Next() bool {
	if it.started {
		it.it.Next()
	}
	it.started = true
	if !it.it.ValidForPrefix(it.prefix) {
		return false
	}
	full := it.it.Item().KeyCopy(nil)
	if bytesGreater(full, it.hi) {
		return false
	}
	it.key = full[len(it.prefix):]
	return true
}

func (it *badgerIterator) Key() []byte { return it.key }

func (it *badgerIterator) Close() error {
	it.it.Close()
	return nil
}

func bytesGreater(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return len(a) > len(b)
}
