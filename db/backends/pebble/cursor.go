package pebble

import (
	"github.com/cockroachdb/pebble"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// Cursor wraps a pebble iterator.
type Cursor struct {
	p      *PebbleDB
	iter   *pebble.Iterator
	closed bool
}

// Seek moves to the first key greater than or equal to key.
func (c *Cursor) Seek(key []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iter.SeekGE(key)
	return errors.WithStack(c.iter.Error())
}

// SupportsSeek returns true.
func (c *Cursor) SupportsSeek() bool {
	return true
}

// SeekToFirst moves to the first key.
func (c *Cursor) SeekToFirst() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iter.First()
	return errors.WithStack(c.iter.Error())
}

// Next moves to the next key. It does nothing once the iterator is
// exhausted.
func (c *Cursor) Next() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !c.iter.Valid() {
		return nil
	}
	c.iter.Next()
	return errors.WithStack(c.iter.Error())
}

// Key returns a copy of the current key.
func (c *Cursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	key := c.iter.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result
}

// Value returns a copy of the current value.
func (c *Cursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	value := c.iter.Value()
	result := make([]byte, len(value))
	copy(result, value)
	return result
}

// Valid returns whether the iterator points at a key.
func (c *Cursor) Valid() bool {
	return !c.closed && !c.p.isClosed() && c.iter.Valid()
}

// Close closes the iterator.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return errors.WithStack(c.iter.Close())
}

func (c *Cursor) checkOpen() error {
	if c.closed || c.p.isClosed() {
		return errors.WithStack(db.ErrClosed)
	}
	return nil
}
