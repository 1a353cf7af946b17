package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// replayOp records one replayed batch operation for verification.
type replayOp struct {
	kind  string // "put" or "delete"
	key   string
	value string
}

// replayRecorder implements BatchReplay by recording every callback.
type replayRecorder struct {
	ops []replayOp
}

func (r *replayRecorder) Put(key, value []byte) {
	r.ops = append(r.ops, replayOp{kind: "put", key: string(key), value: string(value)})
}

func (r *replayRecorder) Delete(key []byte) {
	r.ops = append(r.ops, replayOp{kind: "delete", key: string(key)})
}

// TestSuiteEngine runs the engine conformance suite against backends
// produced by new.  Every backend must pass the whole suite.
func TestSuiteEngine(t *testing.T, new func() Engine) {
	t.Run("BatchWriteSnapshot", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		// Stage some data in a batch.
		batch := engine.NewBatch()
		defer batch.Close()

		key := []byte("key1")
		value := []byte("value1")
		batch.Put(key, value)
		require.Equalf(t, 1, batch.Count(), "batch operation count mismatch")

		// A snapshot taken before the write must not see the staged data.
		snapshot, err := engine.NewSnapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		gotValue, err := engine.Get(ReadOptions{Snapshot: snapshot}, key)
		require.Equalf(t, ErrKeyNotFound, err, "expected staged key to be absent")
		require.Nil(t, gotValue, "expected to get nil value from snapshot")
		snapshot.Release()

		// Apply the batch atomically.
		err = engine.Write(WriteOptions{Sync: true}, batch)
		require.NoErrorf(t, err, "failed to write batch")

		// The batch stays valid after submission.
		require.Equalf(t, 1, batch.Count(), "batch must remain intact after write")

		// A snapshot taken after the write must see the data.
		snapshot, err = engine.NewSnapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		gotValue, err = engine.Get(ReadOptions{Snapshot: snapshot}, key)
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")
		snapshot.Release()
	})

	t.Run("BatchReplayOrder", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		batch := engine.NewBatch()
		defer batch.Close()

		// Overlapping operations on the same key must replay in the
		// exact order they were appended.
		batch.Put([]byte("a"), []byte("1"))
		batch.Delete([]byte("a"))
		batch.Put([]byte("a"), []byte("2"))
		batch.Put([]byte("b"), []byte("3"))

		recorder := &replayRecorder{}
		err := batch.Replay(recorder)
		require.NoErrorf(t, err, "failed to replay batch")
		require.Equalf(t, []replayOp{
			{kind: "put", key: "a", value: "1"},
			{kind: "delete", key: "a"},
			{kind: "put", key: "a", value: "2"},
			{kind: "put", key: "b", value: "3"},
		}, recorder.ops, "replay order mismatch")

		// Reset empties the batch without invalidating it.
		batch.Reset()
		require.Equalf(t, 0, batch.Count(), "reset batch must be empty")

		recorder = &replayRecorder{}
		err = batch.Replay(recorder)
		require.NoErrorf(t, err, "failed to replay reset batch")
		require.Emptyf(t, recorder.ops, "reset batch must replay nothing")

		// A reset batch accepts new operations like a fresh one.
		batch.Put([]byte("c"), []byte("4"))
		require.Equalf(t, 1, batch.Count(), "batch operation count mismatch")
	})

	t.Run("SnapshotImmutability", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		key := []byte("k")
		err := engine.Put(WriteOptions{}, key, []byte("1"))
		require.NoErrorf(t, err, "failed to put value")

		snapshot, err := engine.NewSnapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		defer snapshot.Release()

		// Overwrite and delete on the live state.
		err = engine.Put(WriteOptions{}, key, []byte("2"))
		require.NoErrorf(t, err, "failed to overwrite value")

		gotValue, err := engine.Get(ReadOptions{Snapshot: snapshot}, key)
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, []byte("1"), gotValue, "snapshot must observe the captured state")

		gotValue, err = engine.Get(ReadOptions{}, key)
		require.NoErrorf(t, err, "failed to get live value")
		require.Equalf(t, []byte("2"), gotValue, "live read must observe the latest state")

		err = engine.Delete(WriteOptions{}, key)
		require.NoErrorf(t, err, "failed to delete value")

		gotValue, err = engine.Get(ReadOptions{Snapshot: snapshot}, key)
		require.NoErrorf(t, err, "failed to get value from snapshot after delete")
		require.Equalf(t, []byte("1"), gotValue, "snapshot must survive live deletes")

		_, err = engine.Get(ReadOptions{}, key)
		require.Equalf(t, ErrKeyNotFound, err, "live read must observe the delete")
	})

	t.Run("IteratorRanges", func(t *testing.T) {
		for _, test := range []struct {
			kvs       map[string]string // random order of key-value pairs
			ranges    *Range
			expectkvs [][2]string
		}{
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key1")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key2")},
				expectkvs: [][2]string{{"key1", "value1"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key1"), Limit: []byte("key3")},
				expectkvs: [][2]string{{"key1", "value1"}, {"key2", "value2"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key10"), Limit: []byte("key30")},
				expectkvs: [][2]string{{"key2", "value2"}, {"key3", "value3"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key2"), Limit: []byte("key2")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"key10": "value10", "key11": "value11", "key20": "value20", "key21": "value21"},
				ranges:    BytesPrefix([]byte("key1")),
				expectkvs: [][2]string{{"key10", "value10"}, {"key11", "value11"}},
			},
		} {
			engine := new()
			defer engine.Close()

			// Populate through an atomic batch write.
			batch := engine.NewBatch()
			for k, v := range test.kvs {
				batch.Put([]byte(k), []byte(v))
			}
			err := engine.Write(WriteOptions{}, batch)
			require.NoErrorf(t, err, "failed to write batch")
			batch.Close()

			// Iterate over the data through a snapshot.
			snapshot, err := engine.NewSnapshot()
			require.NoErrorf(t, err, "failed to create snapshot")

			iter := engine.NewIterator(ReadOptions{Snapshot: snapshot}, test.ranges)
			var idx int
			for iter.Next() {
				if idx >= len(test.expectkvs) {
					require.FailNowf(t, "unexpected key-value pair", "key: %s, value: %s", iter.Key(), iter.Value())
				}

				require.Equalf(t, []byte(test.expectkvs[idx][0]), iter.Key(), "key mismatch")
				require.Equalf(t, []byte(test.expectkvs[idx][1]), iter.Value(), "value mismatch")
				idx++
			}
			require.Equalf(t, len(test.expectkvs), idx, "key-value pair count mismatch")

			iter.Release()
			snapshot.Release()
		}
	})

	t.Run("CompactEmptyRange", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		err := engine.Put(WriteOptions{}, []byte("key1"), []byte("value1"))
		require.NoErrorf(t, err, "failed to put value")

		// Compacting a range holding no keys must not disturb readers.
		err = engine.Compact([]byte("a"), []byte("b"))
		require.NoErrorf(t, err, "failed to compact empty range")

		gotValue, err := engine.Get(ReadOptions{}, []byte("key1"))
		require.NoErrorf(t, err, "failed to get value after compaction")
		require.Equalf(t, []byte("value1"), gotValue, "value mismatch after compaction")
	})

	t.Run("DbClose", func(t *testing.T) {
		engine := new()

		// Batch close is idempotent and a closed batch cannot be written.
		batch := engine.NewBatch()
		batch.Close()
		batch.Close() // multiple calls to close should be safe
		err := engine.Write(WriteOptions{}, batch)
		require.Errorf(t, err, "expected to get error when writing closed batch")

		snapshot, err := engine.NewSnapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		iterator := engine.NewIterator(ReadOptions{Snapshot: snapshot}, &Range{})
		require.NoErrorf(t, iterator.Error(), "failed to create iterator")
		iterator.Release()
		iterator.Release() // multiple calls to release should be safe

		snapshot.Release()
		snapshot.Release() // multiple calls to release should be safe
		_, err = engine.Get(ReadOptions{Snapshot: snapshot}, []byte("key"))
		require.Errorf(t, err, "expected to get error when reading through released snapshot")

		err = engine.Close()
		require.NoErrorf(t, err, "failed to close engine")

		// Ensure that the engine is closed
		err = engine.Close()
		require.Errorf(t, err, "expected to get error when closing closed engine")

		// Get a snapshot from a closed engine
		_, err = engine.NewSnapshot()
		require.Errorf(t, err, "expected to get error when creating snapshot from closed engine")
	})
}
