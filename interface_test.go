// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// This file contains tests which exercise the typed client layer against
// every registered backend driver to ensure the semantics expressed by
// the public interface hold regardless of the engine chosen.

package kvdb_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kvsuite/kvdb"
	"github.com/stretchr/testify/require"
)

// batchOp describes one recorded visitor callback.
type batchOp struct {
	kind  string // "put" or "delete"
	key   string
	value string
}

// recordingVisitor implements kvdb.BatchVisitor by recording every
// callback in order.
type recordingVisitor struct {
	ops []batchOp
}

func (v *recordingVisitor) Put(key string, value []byte) {
	v.ops = append(v.ops, batchOp{kind: "put", key: key, value: string(value)})
}

func (v *recordingVisitor) Delete(key string) {
	v.ops = append(v.ops, batchOp{kind: "delete", key: key})
}

// createTestDB creates a fresh string-keyed database of the given type
// rooted in a per-test temporary directory.
func createTestDB(t *testing.T, dbType string) *kvdb.DB[string] {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "interfacetest-"+dbType)
	db, err := kvdb.Create(dbType, dbPath, kvdb.StringCodec{})
	require.NoErrorf(t, err, "failed to create %s database", dbType)
	return db
}

// forEachDriver runs fn as a subtest once per registered driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, dbType string)) {
	for _, dbType := range kvdb.SupportedDrivers() {
		if ignoreDbTypes[dbType] {
			continue
		}
		t.Run(dbType, func(t *testing.T) {
			fn(t, dbType)
		})
	}
}

// TestBatchReplayOrder ensures replaying a batch invokes the visitor in
// exactly the append order with typed keys recovered at the boundary.
func TestBatchReplayOrder(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		batch := db.NewBatch()
		defer batch.Close()

		// Deliberately overlapping operations on one key: replay must
		// preserve the append order, not collapse to the final state.
		batch.Put("a", []byte("1"))
		batch.Delete("a")
		batch.Put("a", []byte("2"))

		visitor := &recordingVisitor{}
		err := batch.Replay(visitor)
		require.NoErrorf(t, err, "failed to replay batch")

		want := []batchOp{
			{kind: "put", key: "a", value: "1"},
			{kind: "delete", key: "a"},
			{kind: "put", key: "a", value: "2"},
		}
		require.Equalf(t, want, visitor.ops, "replay mismatch: %s",
			spew.Sdump(visitor.ops))

		// The visitor value remains the caller's after replay: a second
		// replay appends to the same recording.
		err = batch.Replay(visitor)
		require.NoErrorf(t, err, "failed to replay batch twice")
		require.Lenf(t, visitor.ops, 6, "visitor must be reusable after replay")
	})
}

// TestBatchClear ensures clearing a batch resets it to the behavior of a
// freshly created one without invalidating it.
func TestBatchClear(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		batch := db.NewBatch()
		defer batch.Close()

		batch.Put("a", []byte("1"))
		batch.Delete("b")
		require.Equalf(t, 2, batch.Count(), "staged operation count mismatch")

		batch.Clear()
		require.Equalf(t, 0, batch.Count(), "cleared batch must be empty")

		visitor := &recordingVisitor{}
		err := batch.Replay(visitor)
		require.NoErrorf(t, err, "failed to replay cleared batch")
		require.Emptyf(t, visitor.ops, "cleared batch must replay nothing")

		// A cleared batch accepts and applies new operations like a
		// fresh one.
		batch.Put("c", []byte("3"))
		err = db.Write(kvdb.WriteOptions{}, batch)
		require.NoErrorf(t, err, "failed to write cleared-then-refilled batch")

		value, err := db.Get(kvdb.ReadOptions{}, "c")
		require.NoErrorf(t, err, "failed to get value")
		require.Equalf(t, []byte("3"), value, "value mismatch")

		// The operations staged before Clear must not have been applied.
		has, err := db.Has(kvdb.ReadOptions{}, "a")
		require.NoErrorf(t, err, "failed to check cleared key")
		require.Falsef(t, has, "cleared operation must not be applied")
	})
}

// TestBatchClosed ensures a closed batch rejects replay and submission
// and ignores further mutation.
func TestBatchClosed(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		batch := db.NewBatch()
		batch.Put("a", []byte("1"))
		batch.Close()
		batch.Close() // multiple calls to close should be safe

		err := batch.Replay(&recordingVisitor{})
		checkDbError(t, "replay closed batch", err, kvdb.ErrBatchClosed)

		err = db.Write(kvdb.WriteOptions{}, batch)
		checkDbError(t, "write closed batch", err, kvdb.ErrBatchClosed)

		// Mutating a closed batch is a documented no-op.
		batch.Put("b", []byte("2"))
		batch.Delete("c")
		batch.Clear()
		require.Equalf(t, 0, batch.Count(), "closed batch must report no operations")
	})
}

// TestWriteAtomicity ensures a submitted batch is applied as a single
// all-or-nothing unit: no snapshot taken concurrently with the write may
// observe a strict subset of its effects.
func TestWriteAtomicity(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		// Seed keys the batch will delete so the batch carries both
		// kinds of effects.
		const n = 4
		for i := 0; i < n; i++ {
			err := db.Put(kvdb.WriteOptions{}, fmt.Sprintf("old%d", i), []byte("x"))
			require.NoErrorf(t, err, "failed to seed key")
		}

		batch := db.NewBatch()
		defer batch.Close()
		for i := 0; i < n; i++ {
			batch.Put(fmt.Sprintf("new%d", i), []byte("y"))
			batch.Delete(fmt.Sprintf("old%d", i))
		}

		// Concurrently snapshot the store and require every snapshot to
		// observe either zero or all 2n effects.
		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				snap, err := db.Snapshot()
				if err != nil {
					t.Errorf("failed to snapshot during write: %v", err)
					return
				}

				effects := 0
				for i := 0; i < n; i++ {
					hasNew, err := snap.Has(kvdb.ReadOptions{}, fmt.Sprintf("new%d", i))
					if err != nil {
						t.Errorf("failed to read new key: %v", err)
					}
					hasOld, err := snap.Has(kvdb.ReadOptions{}, fmt.Sprintf("old%d", i))
					if err != nil {
						t.Errorf("failed to read old key: %v", err)
					}
					if hasNew {
						effects++
					}
					if !hasOld {
						effects++
					}
				}
				snap.Release()

				if effects != 0 && effects != 2*n {
					t.Errorf("observed partial batch application: "+
						"%d of %d effects", effects, 2*n)
				}
			}
		}()

		err := db.Write(kvdb.WriteOptions{Sync: true}, batch)
		close(stop)
		wg.Wait()
		require.NoErrorf(t, err, "failed to write batch")

		// After the write every effect must be visible.
		for i := 0; i < n; i++ {
			hasNew, err := db.Has(kvdb.ReadOptions{}, fmt.Sprintf("new%d", i))
			require.NoErrorf(t, err, "failed to read new key")
			require.Truef(t, hasNew, "batch put must be visible after write")

			hasOld, err := db.Has(kvdb.ReadOptions{}, fmt.Sprintf("old%d", i))
			require.NoErrorf(t, err, "failed to read old key")
			require.Falsef(t, hasOld, "batch delete must be visible after write")
		}
	})
}

// TestSnapshotImmutability ensures a snapshot observes the state captured
// at creation regardless of subsequent writes.
func TestSnapshotImmutability(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		err := db.Put(kvdb.WriteOptions{}, "k", []byte("1"))
		require.NoErrorf(t, err, "failed to put value")

		snap, err := db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		defer snap.Release()

		err = db.Put(kvdb.WriteOptions{}, "k", []byte("2"))
		require.NoErrorf(t, err, "failed to overwrite value")

		snapValue, err := snap.Get(kvdb.ReadOptions{}, "k")
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, []byte("1"), snapValue, "snapshot read mismatch")

		liveValue, err := db.Get(kvdb.ReadOptions{}, "k")
		require.NoErrorf(t, err, "failed to get live value")
		require.Equalf(t, []byte("2"), liveValue, "live read mismatch")
	})
}

// TestSnapshotIterationIsolation ensures iteration through a snapshot
// yields the captured key set in sorted order while live iteration
// observes subsequent deletes.
func TestSnapshotIterationIsolation(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		for _, key := range []string{"c", "a", "b"} {
			err := db.Put(kvdb.WriteOptions{}, key, []byte("v"+key))
			require.NoErrorf(t, err, "failed to put value")
		}

		snap, err := db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		defer snap.Release()

		err = db.Delete(kvdb.WriteOptions{}, "b")
		require.NoErrorf(t, err, "failed to delete value")

		collect := func(iter *kvdb.Iterator[string]) []string {
			defer iter.Release()
			var keys []string
			for iter.Next() {
				keys = append(keys, iter.Key())
				require.Equalf(t, []byte("v"+iter.Key()), iter.Value(),
					"value mismatch during iteration")
			}
			require.NoErrorf(t, iter.Error(), "iteration failed")
			return keys
		}

		snapKeys := collect(snap.NewIterator(kvdb.ReadOptions{}))
		require.Equalf(t, []string{"a", "b", "c"}, snapKeys,
			"snapshot iteration mismatch: %s", spew.Sdump(snapKeys))

		liveKeys := collect(db.NewIterator(kvdb.ReadOptions{}))
		require.Equalf(t, []string{"a", "c"}, liveKeys,
			"live iteration mismatch: %s", spew.Sdump(liveKeys))

		// Key-only and value-only projections observe the same captured
		// state.
		keyIter := snap.NewKeyIterator(kvdb.ReadOptions{})
		var keys []string
		for keyIter.Next() {
			keys = append(keys, keyIter.Key())
		}
		require.NoErrorf(t, keyIter.Error(), "key iteration failed")
		keyIter.Release()
		require.Equalf(t, []string{"a", "b", "c"}, keys, "key iteration mismatch")

		valueIter := snap.NewValueIterator(kvdb.ReadOptions{})
		var values []string
		for valueIter.Next() {
			values = append(values, string(valueIter.Value()))
		}
		require.NoErrorf(t, valueIter.Error(), "value iteration failed")
		valueIter.Release()
		require.Equalf(t, []string{"va", "vb", "vc"}, values, "value iteration mismatch")
	})
}

// TestSnapshotReleased ensures reads through a released snapshot fail
// with ErrSnapshotReleased and that release is idempotent.
func TestSnapshotReleased(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		snap, err := db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		snap.Release()
		snap.Release() // multiple calls to release should be safe

		_, err = snap.Get(kvdb.ReadOptions{}, "k")
		checkDbError(t, "get from released snapshot", err, kvdb.ErrSnapshotReleased)

		_, err = snap.Has(kvdb.ReadOptions{}, "k")
		checkDbError(t, "has from released snapshot", err, kvdb.ErrSnapshotReleased)

		iter := snap.NewIterator(kvdb.ReadOptions{})
		require.Falsef(t, iter.Next(), "released snapshot iterator must be exhausted")
		checkDbError(t, "iterate released snapshot", iter.Error(), kvdb.ErrSnapshotReleased)
		iter.Release()
	})
}

// TestCompactNoop ensures compacting a range containing no keys neither
// errors nor changes any reader's observed key set.
func TestCompactNoop(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		for _, key := range []string{"m1", "m2", "m3"} {
			err := db.Put(kvdb.WriteOptions{}, key, []byte("v"))
			require.NoErrorf(t, err, "failed to put value")
		}

		// Range with no keys in it.
		db.Compact("a", "b")

		// Range covering the whole key set.
		db.Compact("a", "z")

		iter := db.NewKeyIterator(kvdb.ReadOptions{})
		var keys []string
		for iter.Next() {
			keys = append(keys, iter.Key())
		}
		require.NoErrorf(t, iter.Error(), "iteration failed")
		iter.Release()
		require.Equalf(t, []string{"m1", "m2", "m3"}, keys,
			"key set changed by compaction")
	})
}

// TestGetAbsentAndEmpty ensures absent keys read as nil while stored
// empty values remain distinguishable as empty non-nil slices.
func TestGetAbsentAndEmpty(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		defer db.Close()

		value, err := db.Get(kvdb.ReadOptions{}, "missing")
		require.NoErrorf(t, err, "failed to get absent key")
		require.Nilf(t, value, "absent key must read as nil")

		has, err := db.Has(kvdb.ReadOptions{}, "missing")
		require.NoErrorf(t, err, "failed to check absent key")
		require.Falsef(t, has, "absent key must not be reported present")

		err = db.Put(kvdb.WriteOptions{}, "empty", nil)
		require.NoErrorf(t, err, "failed to put empty value")

		value, err = db.Get(kvdb.ReadOptions{}, "empty")
		require.NoErrorf(t, err, "failed to get empty value")
		require.NotNilf(t, value, "stored empty value must read as non-nil")
		require.Lenf(t, value, 0, "stored empty value must be empty")

		has, err = db.Has(kvdb.ReadOptions{}, "empty")
		require.NoErrorf(t, err, "failed to check empty value")
		require.Truef(t, has, "stored empty value must be reported present")

		if !bytes.Equal(value, []byte{}) {
			t.Errorf("unexpected empty value representation: %s",
				spew.Sdump(value))
		}
	})
}

// TestClosedDb ensures every operation on a closed handle reports
// ErrDbNotOpen and that close happens exactly once.
func TestClosedDb(t *testing.T) {
	forEachDriver(t, func(t *testing.T, dbType string) {
		db := createTestDB(t, dbType)
		batch := db.NewBatch()
		defer batch.Close()

		err := db.Close()
		require.NoErrorf(t, err, "failed to close database")

		err = db.Close()
		checkDbError(t, "double close", err, kvdb.ErrDbNotOpen)

		_, err = db.Get(kvdb.ReadOptions{}, "k")
		checkDbError(t, "get on closed db", err, kvdb.ErrDbNotOpen)

		err = db.Put(kvdb.WriteOptions{}, "k", []byte("v"))
		checkDbError(t, "put on closed db", err, kvdb.ErrDbNotOpen)

		err = db.Delete(kvdb.WriteOptions{}, "k")
		checkDbError(t, "delete on closed db", err, kvdb.ErrDbNotOpen)

		err = db.Write(kvdb.WriteOptions{}, batch)
		checkDbError(t, "write on closed db", err, kvdb.ErrDbNotOpen)

		_, err = db.Snapshot()
		checkDbError(t, "snapshot on closed db", err, kvdb.ErrDbNotOpen)

		iter := db.NewIterator(kvdb.ReadOptions{})
		require.Falsef(t, iter.Next(), "closed db iterator must be exhausted")
		checkDbError(t, "iterate closed db", iter.Error(), kvdb.ErrDbNotOpen)
		iter.Release()
	})
}
