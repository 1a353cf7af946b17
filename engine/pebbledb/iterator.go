package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/kvsuite/kvdb/engine"
)

func NewIterator(iter *pebble.Iterator) engine.Iterator {
	return &Iterator{iter: iter}
}

// Iterator adapts the pebble cursor to the engine contract.  A fresh
// pebble iterator is unpositioned, so the first relative move is mapped
// to an absolute one.
type Iterator struct {
	iter       *pebble.Iterator
	positioned bool
	released   bool
	err        error
}

func (i *Iterator) First() bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.iter.First()
}

func (i *Iterator) Last() bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.iter.Last()
}

func (i *Iterator) Seek(key []byte) bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.iter.SeekGE(key)
}

func (i *Iterator) Next() bool {
	if i.released {
		return false
	}
	if !i.positioned {
		return i.First()
	}
	return i.iter.Next()
}

func (i *Iterator) Prev() bool {
	if i.released {
		return false
	}
	if !i.positioned {
		return i.Last()
	}
	return i.iter.Prev()
}

func (i *Iterator) Key() []byte {
	if i.released || !i.iter.Valid() { // return nil if the iterator is exhausted
		return nil
	}
	return i.iter.Key()
}

func (i *Iterator) Value() []byte {
	if i.released || !i.iter.Valid() { // return nil if the iterator is exhausted
		return nil
	}
	return i.iter.Value()
}

func (i *Iterator) Release() {
	if !i.released {
		i.released = true
		i.iter.Close()
	}
}

func (i *Iterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if i.released {
		return engine.ErrIterReleased
	}
	return i.iter.Error()
}
