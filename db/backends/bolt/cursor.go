package bolt

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

type boltCursor struct {
	b      *BoltDB
	tx     *bbolt.Tx
	cursor *bbolt.Cursor

	key      []byte
	value    []byte
	isClosed bool
}

func newCursor(b *BoltDB, tx *bbolt.Tx) *boltCursor {
	cursor := &boltCursor{
		b:  b,
		tx: tx,
	}
	// A file opened read-only before anything was written has no bucket.
	if bucket := tx.Bucket(bucketName); bucket != nil {
		cursor.cursor = bucket.Cursor()
	}
	return cursor
}

func (c *boltCursor) Seek(key []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.cursor == nil {
		return nil
	}
	c.key, c.value = c.cursor.Seek(key)
	return nil
}

func (c *boltCursor) SupportsSeek() bool {
	return true
}

func (c *boltCursor) SeekToFirst() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.cursor == nil {
		return nil
	}
	c.key, c.value = c.cursor.First()
	return nil
}

func (c *boltCursor) Next() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.key == nil {
		return nil
	}
	c.key, c.value = c.cursor.Next()
	return nil
}

func (c *boltCursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.key)
}

func (c *boltCursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	value := db.CopyBytes(c.value)
	if value == nil {
		value = []byte{}
	}
	return value
}

func (c *boltCursor) Valid() bool {
	return !c.isClosed && c.key != nil
}

func (c *boltCursor) Close() error {
	if c.isClosed {
		return nil
	}
	c.isClosed = true
	c.key = nil
	c.value = nil
	if c.b.closed() {
		return nil
	}
	return errors.WithStack(c.tx.Rollback())
}

func (c *boltCursor) checkOpen() error {
	if c.isClosed || c.b.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	return nil
}
