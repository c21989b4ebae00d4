package memory

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

type memoryCursor struct {
	m        *MemoryDB
	iterator iterator.Iterator
	isClosed bool
}

func newCursor(m *MemoryDB) *memoryCursor {
	memIterator := m.table.NewIterator(nil)
	memIterator.First()
	return &memoryCursor{
		m:        m,
		iterator: memIterator,
	}
}

func (c *memoryCursor) Seek(key []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.Seek(key)
	return nil
}

func (c *memoryCursor) SupportsSeek() bool {
	return true
}

func (c *memoryCursor) SeekToFirst() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.First()
	return nil
}

func (c *memoryCursor) Next() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.iterator.Next()
	return nil
}

func (c *memoryCursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.iterator.Key())
}

func (c *memoryCursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.iterator.Value())
}

func (c *memoryCursor) Valid() bool {
	return !c.isClosed && c.iterator.Valid()
}

func (c *memoryCursor) Close() error {
	if c.isClosed {
		return nil
	}
	c.isClosed = true
	c.iterator.Release()
	return nil
}

func (c *memoryCursor) checkOpen() error {
	if c.isClosed || c.m.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	return nil
}
