// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package kvdb provides a typed client layer over embedded, sorted
key-value storage engines.

Overview

The package sits immediately above a storage engine's entry points and
adds three capabilities: atomic write batches that stage multiple
put/delete operations and apply them as one unit, point-in-time read
snapshots that observe a stable view while concurrent writes proceed,
and best-effort range compaction requests.  Keys are strongly typed:
every key crosses the engine boundary through a caller-supplied Codec
that converts losslessly between the typed key and its raw bytes.

Storage engines are pluggable through the driver registry.  Importing a
backend package registers its driver:

	import (
		"github.com/kvsuite/kvdb"
		_ "github.com/kvsuite/kvdb/engine/leveldb"
	)

	db, err := kvdb.Create("leveldb", dbPath, kvdb.StringCodec{})

Write batches stage operations inside a native engine accumulator and
are applied atomically through DB.Write; their contents can be replayed
in append order against a BatchVisitor.  Snapshots thread their native
marker through per-call read options, so a read is snapshot-scoped
exactly when it is issued through a Snapshot method.

Errors

All recoverable failures are returned as Error values carrying an
ErrorCode and, for engine-reported failures, the engine's diagnostic
error in the Err field under ErrDriverSpecific.  Nothing is retried or
swallowed internally.
*/
package kvdb
