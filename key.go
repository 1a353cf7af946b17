// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import "encoding/binary"

// Codec converts between a typed key and the raw byte representation the
// storage engine sorts and stores.  Implementations must be pure and
// deterministic, and Decode must be the exact inverse of Encode so that
// Decode(Encode(k)) == k holds for every representable key.
//
// The byte slice passed to Decode is only valid for the duration of the
// call; implementations that retain the bytes must copy them.
type Codec[K any] interface {
	// Encode returns the byte representation of key.
	Encode(key K) []byte

	// Decode reconstructs a typed key from its byte representation.
	Decode(raw []byte) K
}

// StringCodec maps string keys directly to their bytes.
type StringCodec struct{}

// Encode returns the bytes of key.
func (StringCodec) Encode(key string) []byte { return []byte(key) }

// Decode returns raw as a string.
func (StringCodec) Decode(raw []byte) string { return string(raw) }

// BytesCodec maps byte-slice keys to themselves.  Decode copies the raw
// bytes since they are only valid for the duration of the call.
type BytesCodec struct{}

// Encode returns key unchanged.
func (BytesCodec) Encode(key []byte) []byte { return key }

// Decode returns a copy of raw.
func (BytesCodec) Decode(raw []byte) []byte {
	key := make([]byte, len(raw))
	copy(key, raw)
	return key
}

// Uint64Codec maps uint64 keys to their fixed-width big-endian encoding,
// which preserves numeric order under the engine's bytewise comparison.
type Uint64Codec struct{}

// Encode returns the 8-byte big-endian encoding of key.
func (Uint64Codec) Encode(key uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, key)
	return raw
}

// Decode returns the uint64 encoded in raw.
func (Uint64Codec) Decode(raw []byte) uint64 {
	return binary.BigEndian.Uint64(raw)
}
