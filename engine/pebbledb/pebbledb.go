package pebbledb

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/kvsuite/kvdb/engine"
)

var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrBatchClosed      = errors.New("pebbledb: batch already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
)

const (
	DefaultCache   = 64
	DefaultHandles = 16
)

// NewDB opens a Pebble-backed engine at dbPath.  cache is the block
// cache size in MB and handles the maximum number of open files; zero
// or negative values select the defaults.
//
// Pebble has no per-read cache-fill or checksum knobs, so the
// corresponding engine read options are ignored by this backend.
func NewDB(dbPath string, create bool, cache, handles int) (engine.Engine, error) {
	if cache <= 0 {
		cache = DefaultCache
	}
	if handles <= 0 {
		handles = DefaultHandles
	}

	opts := &pebble.Options{
		Cache:                    pebble.NewCache(int64(cache * 1024 * 1024)), // cache MB
		ErrorIfExists:            create,
		ErrorIfNotExists:         !create,
		MaxOpenFiles:             handles,
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels: []pebble.LevelOptions{
			{TargetFileSize: 2 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 4 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 8 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 16 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 32 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 64 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 128 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		},
	}
	opts.Experimental.ReadSamplingMultiplier = -1
	dbEngine, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}

	return &DB{DB: dbEngine}, nil
}

type DB struct {
	*pebble.DB

	closed atomic.Bool
}

// Set closed flag; return true if not already closed.
func (d *DB) setClosed() bool {
	return !d.closed.Swap(true)
}

// Check whether DB was closed.
func (d *DB) isClosed() bool {
	return d.closed.Load()
}

func writeOptions(opts engine.WriteOptions) *pebble.WriteOptions {
	if opts.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (d *DB) Get(opts engine.ReadOptions, key []byte) ([]byte, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}

	var value []byte
	var closer interface{ Close() error }
	var err error
	if opts.Snapshot != nil {
		snap := opts.Snapshot.(*Snapshot)
		if snap.released {
			return nil, ErrSnapshotReleased
		}
		value, closer, err = snap.snap.Get(key)
	} else {
		value, closer, err = d.DB.Get(key)
	}
	if err == pebble.ErrNotFound {
		return nil, engine.ErrKeyNotFound
	} else if err != nil {
		return nil, err
	}
	defer closer.Close()

	ret := make([]byte, len(value))
	copy(ret, value)
	return ret, nil
}

func (d *DB) Put(opts engine.WriteOptions, key, value []byte) error {
	if d.isClosed() {
		return ErrDbClosed
	}
	return d.DB.Set(key, value, writeOptions(opts))
}

func (d *DB) Delete(opts engine.WriteOptions, key []byte) error {
	if d.isClosed() {
		return ErrDbClosed
	}
	return d.DB.Delete(key, writeOptions(opts))
}

func (d *DB) Write(opts engine.WriteOptions, batch engine.Batch) error {
	if d.isClosed() {
		return ErrDbClosed
	}

	b := batch.(*Batch)
	if b.closed {
		return ErrBatchClosed
	}

	// Pebble marks a batch applied on commit, so commit a copy to keep
	// the caller's batch reusable.
	tmp := d.DB.NewBatch()
	if err := tmp.Apply(b.batch, nil); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Commit(writeOptions(opts)); err != nil {
		tmp.Close()
		return err
	}
	return tmp.Close()
}

func (d *DB) NewBatch() engine.Batch {
	return &Batch{batch: d.DB.NewBatch()}
}

func (d *DB) NewSnapshot() (engine.Snapshot, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}
	return &Snapshot{snap: d.DB.NewSnapshot()}, nil
}

func (d *DB) NewIterator(opts engine.ReadOptions, slice *engine.Range) engine.Iterator {
	if d.isClosed() {
		return &Iterator{err: ErrDbClosed, released: true}
	}

	iterOpts := &pebble.IterOptions{}
	if slice != nil {
		iterOpts.LowerBound = slice.Start
		iterOpts.UpperBound = slice.Limit
	}

	var iter *pebble.Iterator
	var err error
	if opts.Snapshot != nil {
		snap := opts.Snapshot.(*Snapshot)
		if snap.released {
			return &Iterator{err: ErrSnapshotReleased, released: true}
		}
		iter, err = snap.snap.NewIter(iterOpts)
	} else {
		iter, err = d.DB.NewIter(iterOpts)
	}
	if err != nil {
		return &Iterator{err: err, released: true}
	}
	return NewIterator(iter)
}

func (d *DB) Compact(start, limit []byte) error {
	if d.isClosed() {
		return ErrDbClosed
	}
	return d.DB.Compact(start, limit, true)
}

func (d *DB) Close() error {
	if !d.setClosed() {
		return ErrDbClosed
	}
	return d.DB.Close()
}
