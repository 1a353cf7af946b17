package pebbledb

import (
	"github.com/cockroachdb/pebble"
)

// Snapshot wraps the native pebble snapshot marker.  Reads are scoped to
// it by the DB methods when the marker is present in read options.
type Snapshot struct {
	snap     *pebble.Snapshot
	released bool
}

func (s *Snapshot) Release() {
	if !s.released {
		s.released = true
		s.snap.Close()
	}
}
