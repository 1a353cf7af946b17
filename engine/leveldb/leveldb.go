package leveldb

import (
	"github.com/kvsuite/kvdb/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewDB opens a LevelDB-backed engine at dbPath.  When create is true
// the database must not already exist; otherwise it must.
func NewDB(dbPath string, create bool) (engine.Engine, error) {
	opts := opt.Options{
		ErrorIfExist:   create,
		ErrorIfMissing: !create,
		Strict:         opt.DefaultStrict,
		Compression:    opt.NoCompression,
		Filter:         filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

type DB struct {
	*leveldb.DB
}

// readOptions converts engine read options to their goleveldb form.  The
// snapshot binding is handled separately since goleveldb scopes reads by
// issuing them against the snapshot value itself.
func readOptions(opts engine.ReadOptions) *opt.ReadOptions {
	ro := opt.ReadOptions{DontFillCache: opts.DontFillCache}
	if opts.VerifyChecksums {
		ro.Strict = opt.StrictBlockChecksum
	}
	return &ro
}

func writeOptions(opts engine.WriteOptions) *opt.WriteOptions {
	return &opt.WriteOptions{Sync: opts.Sync}
}

func (d *DB) Get(opts engine.ReadOptions, key []byte) ([]byte, error) {
	var value []byte
	var err error
	if opts.Snapshot != nil {
		snap := opts.Snapshot.(*Snapshot)
		if snap.released {
			return nil, ErrSnapshotReleased
		}
		value, err = snap.snap.Get(key, readOptions(opts))
	} else {
		value, err = d.DB.Get(key, readOptions(opts))
	}
	if err == leveldb.ErrNotFound {
		return nil, engine.ErrKeyNotFound
	} else if err != nil {
		return nil, err
	}

	// Normalize so a stored empty value is a non-nil slice.
	ret := make([]byte, len(value))
	copy(ret, value)
	return ret, nil
}

func (d *DB) Put(opts engine.WriteOptions, key, value []byte) error {
	return d.DB.Put(key, value, writeOptions(opts))
}

func (d *DB) Delete(opts engine.WriteOptions, key []byte) error {
	return d.DB.Delete(key, writeOptions(opts))
}

func (d *DB) Write(opts engine.WriteOptions, batch engine.Batch) error {
	b := batch.(*Batch)
	if b.batch == nil {
		return ErrBatchClosed
	}
	return d.DB.Write(b.batch, writeOptions(opts))
}

func (d *DB) NewBatch() engine.Batch {
	return &Batch{batch: new(leveldb.Batch)}
}

func (d *DB) NewSnapshot() (engine.Snapshot, error) {
	snap, err := d.DB.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &Snapshot{snap: snap}, nil
}

func (d *DB) NewIterator(opts engine.ReadOptions, slice *engine.Range) engine.Iterator {
	var r *util.Range
	if slice != nil {
		r = &util.Range{Start: slice.Start, Limit: slice.Limit}
	}
	if opts.Snapshot != nil {
		snap := opts.Snapshot.(*Snapshot)
		if snap.released {
			return errorIterator{err: ErrSnapshotReleased}
		}
		return snap.snap.NewIterator(r, readOptions(opts))
	}
	return d.DB.NewIterator(r, readOptions(opts))
}

// errorIterator is an exhausted iterator carrying a construction error.
type errorIterator struct {
	err error
}

func (it errorIterator) First() bool          { return false }
func (it errorIterator) Last() bool           { return false }
func (it errorIterator) Seek(key []byte) bool { return false }
func (it errorIterator) Next() bool           { return false }
func (it errorIterator) Prev() bool           { return false }
func (it errorIterator) Key() []byte          { return nil }
func (it errorIterator) Value() []byte        { return nil }
func (it errorIterator) Error() error         { return it.err }
func (it errorIterator) Release()             {}

func (d *DB) Compact(start, limit []byte) error {
	return d.DB.CompactRange(util.Range{Start: start, Limit: limit})
}

func (d *DB) Close() error {
	return d.DB.Close()
}
