// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import (
	"github.com/kvsuite/kvdb/engine"
)

// BatchVisitor receives the staged operations of a write batch during
// Replay, one call per operation in the exact order the operations were
// appended.  Keys are reconstructed through the batch's codec before the
// visitor sees them; raw engine bytes never reach the visitor.
//
// The visitor must not mutate the batch being replayed.
type BatchVisitor[K any] interface {
	// Put is invoked for each staged put operation.  The value slice is
	// only valid for the duration of the call.
	Put(key K, value []byte)

	// Delete is invoked for each staged delete operation.
	Delete(key K)
}

// WriteBatch accumulates put and delete operations against typed keys
// for atomic application through DB.Write.  The operations are staged
// inside a native engine accumulator rather than mirrored in this
// layer's memory, so the engine's write path consumes exactly what was
// staged.
//
// A batch is exclusively owned by its creator: it is not safe for
// concurrent use from multiple goroutines without external
// synchronization.
type WriteBatch[K any] struct {
	batch  engine.Batch
	codec  Codec[K]
	closed bool
}

// Put appends a put operation for key and value.  Both are copied into
// the native accumulator before Put returns, so the caller may reuse the
// value slice.  Appending to a closed batch is a no-op.
func (b *WriteBatch[K]) Put(key K, value []byte) {
	if b.closed {
		return
	}
	b.batch.Put(b.codec.Encode(key), value)
}

// Delete appends a delete operation for key, with the same copy contract
// as Put.
func (b *WriteBatch[K]) Delete(key K) {
	if b.closed {
		return
	}
	b.batch.Delete(b.codec.Encode(key))
}

// Clear resets the batch to contain zero operations.  The native
// accumulator is preserved, so a cleared batch behaves identically to a
// freshly created one.
func (b *WriteBatch[K]) Clear() {
	if b.closed {
		return
	}
	b.batch.Reset()
}

// Count returns the number of staged operations.
func (b *WriteBatch[K]) Count() int {
	if b.closed {
		return 0
	}
	return b.batch.Count()
}

// Replay invokes visitor once per staged operation, in the exact order
// the operations were appended, and returns once every operation has
// been visited.  The visitor remains the caller's and can be inspected
// or reused after Replay returns.
//
// Replay is synchronous and not reentrant: the visitor must not mutate
// the batch being replayed.
func (b *WriteBatch[K]) Replay(visitor BatchVisitor[K]) error {
	if b.closed {
		return makeError(ErrBatchClosed, "batch has been closed", nil)
	}

	adapter := replayAdapter[K]{codec: b.codec, visitor: visitor}
	if err := b.batch.Replay(&adapter); err != nil {
		return convertErr("failed to replay batch", err)
	}
	return nil
}

// Close releases the native accumulator.  The batch must not be used
// afterwards.  Close is idempotent.
func (b *WriteBatch[K]) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.batch.Close()
}

// replayAdapter bridges the engine's raw replay callbacks to a typed
// visitor.  Key typing is recovered here, at the boundary, so untyped
// bytes never travel further up.
type replayAdapter[K any] struct {
	codec   Codec[K]
	visitor BatchVisitor[K]
}

func (a *replayAdapter[K]) Put(key, value []byte) {
	a.visitor.Put(a.codec.Decode(key), value)
}

func (a *replayAdapter[K]) Delete(key []byte) {
	a.visitor.Delete(a.codec.Decode(key))
}
