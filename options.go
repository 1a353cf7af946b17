// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import "github.com/kvsuite/kvdb/engine"

// ReadOptions is a per-call configuration value for read operations.  The
// zero value reads the live state with default cache and checksum
// behavior.
//
// A snapshot binding is only reachable through Snapshot methods, which
// compose a snapshot-scoped copy of the caller's options for the duration
// of a single call.  ReadOptions values are never mutated by this
// package, so a value may be reused freely across calls.
type ReadOptions struct {
	// DontFillCache prevents the read from populating the engine's
	// block cache.  Useful for large scans that would otherwise evict
	// hot data.
	DontFillCache bool

	// VerifyChecksums forces verification of all data read from disk
	// on behalf of this call.
	VerifyChecksums bool

	// snapshot pins reads to a point-in-time state.  It is unexported
	// so a snapshot reference cannot leak past the call that bound it.
	snapshot engine.Snapshot
}

// withSnapshot returns a copy of the options bound to the given snapshot
// marker.  The receiver is unchanged.
func (ro ReadOptions) withSnapshot(snap engine.Snapshot) ReadOptions {
	ro.snapshot = snap
	return ro
}

// engineOptions converts the options to their engine-level form.
func (ro ReadOptions) engineOptions() engine.ReadOptions {
	return engine.ReadOptions{
		Snapshot:        ro.snapshot,
		DontFillCache:   ro.DontFillCache,
		VerifyChecksums: ro.VerifyChecksums,
	}
}

// WriteOptions is a per-call configuration value for write operations.
// The zero value performs an asynchronous write.
type WriteOptions struct {
	// Sync forces the write to be flushed from the operating system
	// buffer cache before the call returns.  A machine crash can cause
	// recent asynchronous writes to be lost, but it can never corrupt
	// an atomic batch into partial application.
	Sync bool
}

// engineOptions converts the options to their engine-level form.
func (wo WriteOptions) engineOptions() engine.WriteOptions {
	return engine.WriteOptions{Sync: wo.Sync}
}
