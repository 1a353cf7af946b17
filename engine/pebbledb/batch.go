package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/kvsuite/kvdb/engine"
)

// Batch wraps the native pebble write batch.  Staged operations live in
// the batch's internal representation; Replay decodes that
// representation rather than keeping a separate mirror.
type Batch struct {
	batch  *pebble.Batch
	closed bool
}

func (b *Batch) Put(key, value []byte) {
	if b.closed {
		return
	}
	// Set only fails on a committed or closed batch.
	_ = b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) {
	if b.closed {
		return
	}
	_ = b.batch.Delete(key, nil)
}

func (b *Batch) Reset() {
	if b.closed {
		return
	}
	b.batch.Reset()
}

func (b *Batch) Count() int {
	if b.closed {
		return 0
	}
	return int(b.batch.Count())
}

// Replay decodes the batch representation in append order, dispatching
// each record to the handler.  Records other than sets and deletes
// cannot appear since Put and Delete are the only mutators.
func (b *Batch) Replay(handler engine.BatchReplay) error {
	if b.closed {
		return ErrBatchClosed
	}

	reader := b.batch.Reader()
	for {
		kind, key, value, ok, err := reader.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch kind {
		case pebble.InternalKeyKindSet:
			handler.Put(key, value)
		case pebble.InternalKeyKindDelete:
			handler.Delete(key)
		}
	}
}

func (b *Batch) Close() {
	if !b.closed {
		b.closed = true
		b.batch.Close()
	}
}
