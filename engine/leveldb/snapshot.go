package leveldb

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
)

var ErrSnapshotReleased = errors.New("leveldb: snapshot released")

// Snapshot wraps the native goleveldb snapshot marker.  Reads are scoped
// to it by the DB methods when the marker is present in read options.
type Snapshot struct {
	snap     *leveldb.Snapshot
	released bool
}

func (s *Snapshot) Release() {
	if !s.released {
		s.released = true
		s.snap.Release()
	}
}
