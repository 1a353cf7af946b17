// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import (
	"sync/atomic"

	"github.com/kvsuite/kvdb/engine"
)

// DB is a typed handle over an opened storage engine.  It converts all
// keys through its codec before they reach the engine and owns the
// engine resource for its lifetime: Close releases it exactly once, and
// every batch, snapshot, and iterator produced by the handle holds a
// non-owning reference that must not outlive it.
//
// A DB is safe for concurrent use.  The engine serializes concurrent
// access to its internal state; this layer adds no locking of its own.
type DB[K any] struct {
	engine engine.Engine
	codec  Codec[K]
	closed atomic.Bool
}

// newDB wraps an opened engine with a typed handle.
func newDB[K any](eng engine.Engine, codec Codec[K]) *DB[K] {
	return &DB[K]{engine: eng, codec: codec}
}

// errDbNotOpen is the error returned for operations on a closed handle.
func errDbNotOpen() Error {
	return makeError(ErrDbNotOpen, "database is not open", nil)
}

// Get returns the value stored under key, or a nil slice when the key is
// absent.  A stored empty value comes back as an empty non-nil slice, so
// presence and emptiness remain distinguishable.  The read observes the
// snapshot bound in opts when one is set, otherwise the live state.
func (db *DB[K]) Get(opts ReadOptions, key K) ([]byte, error) {
	if db.closed.Load() {
		return nil, errDbNotOpen()
	}

	value, err := db.engine.Get(opts.engineOptions(), db.codec.Encode(key))
	if err != nil {
		if err == engine.ErrKeyNotFound {
			return nil, nil
		}
		return nil, convertErr("failed to get value", err)
	}
	return value, nil
}

// Has returns whether a value is stored under key.
func (db *DB[K]) Has(opts ReadOptions, key K) (bool, error) {
	value, err := db.Get(opts, key)
	if err != nil {
		return false, err
	}
	return value != nil, nil
}

// Put stores value under key.  The key and value are copied by the
// engine before Put returns.
func (db *DB[K]) Put(opts WriteOptions, key K, value []byte) error {
	if db.closed.Load() {
		return errDbNotOpen()
	}

	err := db.engine.Put(opts.engineOptions(), db.codec.Encode(key), value)
	if err != nil {
		return convertErr("failed to put value", err)
	}
	return nil
}

// Delete removes the value stored under key.  Deleting a key that does
// not exist is not an error.
func (db *DB[K]) Delete(opts WriteOptions, key K) error {
	if db.closed.Load() {
		return errDbNotOpen()
	}

	err := db.engine.Delete(opts.engineOptions(), db.codec.Encode(key))
	if err != nil {
		return convertErr("failed to delete value", err)
	}
	return nil
}

// Write applies every operation staged in batch as a single atomic unit.
// No reader, live or snapshot-scoped, can ever observe a strict subset of
// the batch's operations.  Write does not consume the batch: it remains
// valid afterwards and may be cleared and reused.
func (db *DB[K]) Write(opts WriteOptions, batch *WriteBatch[K]) error {
	if db.closed.Load() {
		return errDbNotOpen()
	}
	if batch.closed {
		return makeError(ErrBatchClosed, "batch has been closed", nil)
	}

	if err := db.engine.Write(opts.engineOptions(), batch.batch); err != nil {
		return convertErr("failed to write batch", err)
	}
	return nil
}

// NewBatch allocates an empty write batch whose keys are converted
// through the handle's codec.  The caller owns the batch and should close
// it when no longer needed.
func (db *DB[K]) NewBatch() *WriteBatch[K] {
	return &WriteBatch[K]{batch: db.engine.NewBatch(), codec: db.codec}
}

// Snapshot captures the current state of the store.  Reads through the
// returned snapshot observe that state forever, regardless of subsequent
// writes.  The caller owns the snapshot and must release it exactly once;
// it must not outlive the handle that produced it.
func (db *DB[K]) Snapshot() (*Snapshot[K], error) {
	if db.closed.Load() {
		return nil, errDbNotOpen()
	}

	snap, err := db.engine.NewSnapshot()
	if err != nil {
		return nil, convertErr("failed to create snapshot", err)
	}
	return &Snapshot[K]{db: db, snap: snap}, nil
}

// NewIterator returns an iterator over all key/value pairs in sorted key
// order, observing the live state.  The caller must release it when done.
func (db *DB[K]) NewIterator(opts ReadOptions) *Iterator[K] {
	if db.closed.Load() {
		return &Iterator[K]{codec: db.codec, err: errDbNotOpen()}
	}
	return &Iterator[K]{
		iter:  db.engine.NewIterator(opts.engineOptions(), nil),
		codec: db.codec,
	}
}

// NewKeyIterator is like NewIterator but yields keys only.
func (db *DB[K]) NewKeyIterator(opts ReadOptions) *KeyIterator[K] {
	return &KeyIterator[K]{it: db.NewIterator(opts)}
}

// NewValueIterator is like NewIterator but yields values only.
func (db *DB[K]) NewValueIterator(opts ReadOptions) *ValueIterator {
	if db.closed.Load() {
		return &ValueIterator{err: errDbNotOpen()}
	}
	return &ValueIterator{iter: db.engine.NewIterator(opts.engineOptions(), nil)}
}

// Compact requests compaction of the key range between start and limit.
// The operation is best-effort: the engine contract defines it as
// non-failing from the caller's perspective, so any engine-reported error
// is logged at debug level and dropped.  Compacting an empty range is
// harmless.
func (db *DB[K]) Compact(start, limit K) {
	if db.closed.Load() {
		return
	}

	startBytes := db.codec.Encode(start)
	limitBytes := db.codec.Encode(limit)
	if err := db.engine.Compact(startBytes, limitBytes); err != nil {
		log.Debugf("Compaction of range [%x, %x) reported: %v",
			startBytes, limitBytes, err)
	}
}

// Close cleanly shuts down the database and releases the engine resource.
// It must be called exactly once; subsequent calls return ErrDbNotOpen.
// All batches, snapshots, and iterators produced by the handle must be
// released before Close is called.
func (db *DB[K]) Close() error {
	if db.closed.Swap(true) {
		return errDbNotOpen()
	}

	if err := db.engine.Close(); err != nil {
		return convertErr("failed to close database", err)
	}
	return nil
}
