package leveldb

import (
	"errors"

	"github.com/kvsuite/kvdb/engine"
	"github.com/syndtr/goleveldb/leveldb"
)

var ErrBatchClosed = errors.New("leveldb: batch already closed")

// Batch wraps the native goleveldb write batch.  The accumulator copies
// keys and values into its internal representation on Put/Delete, which
// satisfies the engine.Batch copy contract.
type Batch struct {
	batch *leveldb.Batch
}

func (b *Batch) Put(key, value []byte) {
	if b.batch == nil {
		return
	}
	b.batch.Put(key, value)
}

func (b *Batch) Delete(key []byte) {
	if b.batch == nil {
		return
	}
	b.batch.Delete(key)
}

func (b *Batch) Reset() {
	if b.batch == nil {
		return
	}
	b.batch.Reset()
}

func (b *Batch) Count() int {
	if b.batch == nil {
		return 0
	}
	return b.batch.Len()
}

// Replay walks the accumulator in append order.  engine.BatchReplay has
// the same method set as goleveldb's BatchReplay, so the handler passes
// straight through.
func (b *Batch) Replay(handler engine.BatchReplay) error {
	if b.batch == nil {
		return ErrBatchClosed
	}
	return b.batch.Replay(handler)
}

func (b *Batch) Close() {
	if b.batch != nil {
		b.batch.Reset()
		b.batch = nil
	}
}
