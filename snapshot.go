// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import (
	"github.com/kvsuite/kvdb/engine"
)

// Snapshot represents the database at a certain point in time and allows
// all read operations (get and iteration) against that frozen state.  A
// snapshot is not a copy of the data; it owns a native marker the engine
// uses to serve reads against an earlier multi-version state.
//
// Every read method composes a snapshot-scoped copy of the caller's
// ReadOptions before delegating to the owning handle, so the caller's
// options value is never mutated and the snapshot reference cannot leak
// past a single call.
//
// A snapshot is exclusively owned by its creator, must be released
// exactly once, and must not outlive the DB that produced it.
type Snapshot[K any] struct {
	db       *DB[K]
	snap     engine.Snapshot
	released bool
}

// errSnapshotReleased is the error returned for reads through a released
// snapshot.
func errSnapshotReleased() Error {
	return makeError(ErrSnapshotReleased, "snapshot has been released", nil)
}

// Get behaves exactly like the owning handle's Get except the read
// observes the state captured at snapshot creation.
func (s *Snapshot[K]) Get(opts ReadOptions, key K) ([]byte, error) {
	if s.released {
		return nil, errSnapshotReleased()
	}
	return s.db.Get(opts.withSnapshot(s.snap), key)
}

// Has behaves exactly like the owning handle's Has against the captured
// state.
func (s *Snapshot[K]) Has(opts ReadOptions, key K) (bool, error) {
	if s.released {
		return false, errSnapshotReleased()
	}
	return s.db.Has(opts.withSnapshot(s.snap), key)
}

// NewIterator returns an iterator over all key/value pairs of the
// captured state in sorted key order.
func (s *Snapshot[K]) NewIterator(opts ReadOptions) *Iterator[K] {
	if s.released {
		return &Iterator[K]{codec: s.db.codec, err: errSnapshotReleased()}
	}
	return s.db.NewIterator(opts.withSnapshot(s.snap))
}

// NewKeyIterator is like NewIterator but yields keys only.
func (s *Snapshot[K]) NewKeyIterator(opts ReadOptions) *KeyIterator[K] {
	return &KeyIterator[K]{it: s.NewIterator(opts)}
}

// NewValueIterator is like NewIterator but yields values only.
func (s *Snapshot[K]) NewValueIterator(opts ReadOptions) *ValueIterator {
	if s.released {
		return &ValueIterator{err: errSnapshotReleased()}
	}
	return s.db.NewValueIterator(opts.withSnapshot(s.snap))
}

// Release returns the native marker to the engine.  The snapshot must
// not be used afterwards; no outstanding read may still reference it.
// Release is idempotent but not safe to race with readers on the same
// snapshot.
func (s *Snapshot[K]) Release() {
	if s.released {
		return
	}
	s.released = true
	s.snap.Release()
}
