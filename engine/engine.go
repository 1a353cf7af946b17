package engine

import "errors"

// ErrKeyNotFound is returned by Engine.Get when no value is stored under
// the requested key.  Backends translate their own not-found sentinel to
// this one so callers never see engine-specific errors for a simple miss.
var ErrKeyNotFound = errors.New("engine: key not found")

// Engine is the set of entry points a storage backend exposes to the
// typed layer.  Implementations are expected to be safe for concurrent
// readers and for concurrent writers operating on distinct batches.
type Engine interface {
	// Get returns the value stored under key, observing the snapshot
	// bound in opts when one is set.  It returns ErrKeyNotFound when
	// the key is absent.  The returned slice is the caller's to keep.
	Get(opts ReadOptions, key []byte) ([]byte, error)

	// Put stores value under key.
	Put(opts WriteOptions, key, value []byte) error

	// Delete removes the value stored under key.  Deleting a key that
	// does not exist is not an error.
	Delete(opts WriteOptions, key []byte) error

	// Write applies every operation staged in batch as a single atomic
	// unit.  The batch remains valid and reusable after Write returns.
	Write(opts WriteOptions, batch Batch) error

	// NewBatch allocates an empty native write accumulator.
	NewBatch() Batch

	// NewSnapshot captures the current state of the store.  The caller
	// owns the returned snapshot and must release it exactly once.
	NewSnapshot() (Snapshot, error)

	// NewIterator returns an iterator over the key range described by
	// slice (nil means the entire key space), observing the snapshot
	// bound in opts when one is set.
	NewIterator(opts ReadOptions, slice *Range) Iterator

	// Compact requests compaction of the given key range.  Bound
	// semantics are the backend's own.
	Compact(start, limit []byte) error

	Close() error
}

// Batch is a native accumulator of put/delete operations.  A batch is
// owned by a single caller and is not safe for concurrent use.
type Batch interface {
	// Put stages a put operation.  Key and value are copied before Put
	// returns, so the caller may reuse the slices.
	Put(key, value []byte)

	// Delete stages a delete operation, with the same copy contract as
	// Put.
	Delete(key []byte)

	// Reset removes all staged operations without releasing the native
	// accumulator.
	Reset()

	// Count returns the number of staged operations.
	Count() int

	// Replay invokes handler once per staged operation, in the exact
	// order the operations were appended, and returns before any other
	// work proceeds.  The handler must not mutate the batch.
	Replay(handler BatchReplay) error

	// Close releases the native accumulator.  The batch must not be
	// used afterwards.  Close is idempotent.
	Close()
}

// BatchReplay receives the staged operations of a batch during Replay.
// The key and value slices are only valid for the duration of the call.
type BatchReplay interface {
	Put(key, value []byte)
	Delete(key []byte)
}

// Snapshot is the opaque marker for a point-in-time state of the store.
// Reads observe a snapshot by carrying the marker in ReadOptions; the
// marker type is backend-specific and never inspected by callers.
type Snapshot interface {
	Releaser
}

// Releaser is implemented by values holding native resources that must
// be released exactly once when no longer needed.
type Releaser interface {
	Release()
}

// ReadOptions carries per-read configuration.  The zero value reads the
// live state with default cache and checksum behavior.
type ReadOptions struct {
	// Snapshot, when non-nil, pins the read to the state captured by
	// the snapshot instead of the live state.  It must have been
	// produced by the same Engine the read is issued against.
	Snapshot Snapshot

	// DontFillCache prevents the read from populating the block cache.
	DontFillCache bool

	// VerifyChecksums forces checksum verification of all data read
	// from disk on behalf of this call.
	VerifyChecksums bool
}

// WriteOptions carries per-write configuration.  The zero value performs
// an asynchronous write.
type WriteOptions struct {
	// Sync forces the write to be flushed from the operating system
	// buffer cache before it is considered complete.
	Sync bool
}
