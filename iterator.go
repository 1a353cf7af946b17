// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import (
	"github.com/kvsuite/kvdb/engine"
)

// Iterator is a lazy forward sequence over key/value pairs in sorted key
// order.  Keys are decoded through the owning handle's codec on access.
// The sequence is finite and not restartable: once exhausted, a fresh
// call to the producing constructor is required.
//
// Key and Value are only valid after Next has returned true and before
// the next call to Next.  The caller must call Release when done.
type Iterator[K any] struct {
	iter  engine.Iterator
	codec Codec[K]
	err   error
}

// Next advances the iterator to the next pair.  It returns false when
// the sequence is exhausted.
func (it *Iterator[K]) Next() bool {
	if it.err != nil {
		return false
	}
	return it.iter.Next()
}

// Key returns the typed key of the current pair.
func (it *Iterator[K]) Key() K {
	return it.codec.Decode(it.iter.Key())
}

// Value returns the value of the current pair.  The caller should not
// modify the contents of the returned slice, and its contents may change
// on the next call to Next.
func (it *Iterator[K]) Value() []byte {
	return it.iter.Value()
}

// Error returns any accumulated error.  Exhausting the sequence is not
// an error.
func (it *Iterator[K]) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

// Release releases the underlying engine cursor.  It is idempotent.
func (it *Iterator[K]) Release() {
	if it.iter != nil {
		it.iter.Release()
	}
}

// KeyIterator is a lazy forward sequence over keys only, in sorted
// order.
type KeyIterator[K any] struct {
	it *Iterator[K]
}

// Next advances the iterator to the next key.  It returns false when the
// sequence is exhausted.
func (it *KeyIterator[K]) Next() bool {
	return it.it.Next()
}

// Key returns the current typed key.
func (it *KeyIterator[K]) Key() K {
	return it.it.Key()
}

// Error returns any accumulated error.
func (it *KeyIterator[K]) Error() error {
	return it.it.Error()
}

// Release releases the underlying engine cursor.  It is idempotent.
func (it *KeyIterator[K]) Release() {
	it.it.Release()
}

// ValueIterator is a lazy forward sequence over values only, ordered by
// their keys.
type ValueIterator struct {
	iter engine.Iterator
	err  error
}

// Next advances the iterator to the next value.  It returns false when
// the sequence is exhausted.
func (it *ValueIterator) Next() bool {
	if it.err != nil {
		return false
	}
	return it.iter.Next()
}

// Value returns the current value.  The caller should not modify the
// contents of the returned slice, and its contents may change on the
// next call to Next.
func (it *ValueIterator) Value() []byte {
	return it.iter.Value()
}

// Error returns any accumulated error.
func (it *ValueIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

// Release releases the underlying engine cursor.  It is idempotent.
func (it *ValueIterator) Release() {
	if it.iter != nil {
		it.iter.Release()
	}
}
