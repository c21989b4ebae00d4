package bolt

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// DBType is the name this backend is registered under.
const DBType = "bolt"

// openTimeout bounds how long Open waits for another process to release the
// file lock.
const openTimeout = time.Second

// bucketName is the single bucket holding every record.
var bucketName = []byte("blobdb")

func init() {
	db.MustRegister(DBType, Open)
}

// BoltDB is a Database over a single bbolt file. Records live in one bucket
// and are visited in bytewise key order. Empty keys are rejected by bbolt.
//
// A cursor holds a read transaction for its whole life. Close cursors before
// committing a large transaction on the same database, since growing the
// file waits for open read transactions.
type BoltDB struct {
	bdb      *bbolt.DB
	mode     db.Mode
	isClosed uint32
}

// Open opens the bbolt file at source.
//
// ModeRead opens it read-only and fails if it doesn't exist, ModeWrite
// creates it if needed, and ModeNew removes the existing file first.
func Open(source string, mode db.Mode) (db.Database, error) {
	return NewBoltDB(source, mode)
}

// NewBoltDB is like Open but returns the concrete type.
func NewBoltDB(source string, mode db.Mode) (*BoltDB, error) {
	if source == "" {
		return nil, errors.New("bolt source path cannot be empty")
	}

	options := &bbolt.Options{Timeout: openTimeout}
	switch mode {
	case db.ModeRead:
		_, err := os.Stat(source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		options.ReadOnly = true
	case db.ModeWrite:
	case db.ModeNew:
		err := os.Remove(source)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Wrapf(db.ErrInvalidMode, "%s", mode)
	}

	if mode != db.ModeRead {
		dir := filepath.Dir(source)
		err := os.MkdirAll(dir, 0700)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	bdb, err := bbolt.Open(source, 0600, options)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bolt file %s", source)
	}

	if mode != db.ModeRead {
		err = bdb.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketName)
			return err
		})
		if err != nil {
			_ = bdb.Close()
			return nil, errors.Wrapf(err, "failed to create bucket %s", bucketName)
		}
	}

	log.Debugf("Opened bolt file %s in mode %s", source, mode)
	return &BoltDB{
		bdb:  bdb,
		mode: mode,
	}, nil
}

// NewCursor begins a read transaction and returns a cursor over the bucket,
// positioned at its first key.
// This method is part of the Database interface.
func (b *BoltDB) NewCursor() (db.Cursor, error) {
	if b.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	tx, err := b.bdb.Begin(false)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cursor := newCursor(b, tx)
	err = cursor.SeekToFirst()
	if err != nil {
		_ = cursor.Close()
		return nil, err
	}
	return cursor, nil
}

// NewTransaction returns a transaction that buffers puts and applies them in
// a single bbolt update on Commit.
// This method is part of the Database interface.
func (b *BoltDB) NewTransaction() (db.Transaction, error) {
	if b.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	if b.mode == db.ModeRead {
		return nil, errors.Wrapf(db.ErrReadOnly, "bolt file %s", b.bdb.Path())
	}
	return newTransaction(b), nil
}

// Close closes the bbolt file. Open cursors must be closed first.
// This method is part of the Database interface.
func (b *BoltDB) Close() error {
	if !atomic.CompareAndSwapUint32(&b.isClosed, 0, 1) {
		return nil
	}
	return errors.WithStack(b.bdb.Close())
}

func (b *BoltDB) closed() bool {
	return atomic.LoadUint32(&b.isClosed) != 0
}
