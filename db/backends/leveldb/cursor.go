package leveldb

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// LevelDBCursor is a thin wrapper around native leveldb iterators. Keys are
// visited in bytewise order.
type LevelDBCursor struct {
	ldb      *LevelDB
	iterator iterator.Iterator
	isClosed bool
}

func newCursor(ldb *LevelDB) *LevelDBCursor {
	ldbIterator := ldb.ldb.NewIterator(nil, nil)
	ldbIterator.First()
	return &LevelDBCursor{
		ldb:      ldb,
		iterator: ldbIterator,
	}
}

// Seek moves the iterator to the first key that is greater than or equal
// to the given key.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Seek(key []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.Seek(key)
	return errors.WithStack(c.iterator.Error())
}

// SupportsSeek returns true.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) SupportsSeek() bool {
	return true
}

// SeekToFirst moves the iterator to the first key/value pair.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) SeekToFirst() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.First()
	return errors.WithStack(c.iterator.Error())
}

// Next moves the iterator to the next key/value pair.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Next() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.Next()
	return errors.WithStack(c.iterator.Error())
}

// Key returns a copy of the current key.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.iterator.Key())
}

// Value returns a copy of the current value.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.iterator.Value())
}

// Valid returns whether the iterator points at a key/value pair.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Valid() bool {
	return !c.isClosed && !c.ldb.closed() && c.iterator.Valid()
}

// Close releases associated resources.
// This method is part of the Cursor interface.
func (c *LevelDBCursor) Close() error {
	if c.isClosed {
		return nil
	}
	c.isClosed = true
	c.iterator.Release()
	return nil
}

func (c *LevelDBCursor) checkOpen() error {
	if c.isClosed || c.ldb.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	return nil
}
