package leveldb

import (
	"os"
	"sync/atomic"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// DBType is the name this backend is registered under.
const DBType = "leveldb"

func init() {
	db.MustRegister(DBType, Open)
}

// LevelDB defines a thin wrapper around leveldb. The source is the leveldb
// directory.
type LevelDB struct {
	ldb      *leveldb.DB
	mode     db.Mode
	isClosed uint32
}

// Open opens the leveldb directory at source.
//
// ModeRead opens it read-only and fails if it doesn't exist, ModeWrite
// creates it if needed, and ModeNew removes whatever is at source first.
func Open(source string, mode db.Mode) (db.Database, error) {
	return NewLevelDB(source, mode)
}

// NewLevelDB is like Open but returns the concrete type.
func NewLevelDB(source string, mode db.Mode) (*LevelDB, error) {
	if source == "" {
		return nil, errors.New("leveldb source path cannot be empty")
	}

	options := Options()
	switch mode {
	case db.ModeRead:
		options.ReadOnly = true
		options.ErrorIfMissing = true
	case db.ModeWrite:
		options.ErrorIfMissing = false
	case db.ModeNew:
		err := os.RemoveAll(source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		options.ErrorIfExist = true
	default:
		return nil, errors.Wrapf(db.ErrInvalidMode, "%s", mode)
	}

	ldb, err := leveldb.OpenFile(source, options)

	// If the database is corrupted, attempt to recover. A read-only
	// open must not modify the files, so the error is returned as-is.
	if ldbErrors.IsCorrupted(err) && mode != db.ModeRead {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			source, err)
		var recoverErr error
		ldb, recoverErr = leveldb.RecoverFile(source, options)
		if recoverErr != nil {
			return nil, errors.WithStack(recoverErr)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			source)
		err = nil
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &LevelDB{
		ldb:  ldb,
		mode: mode,
	}, nil
}

// NewCursor returns a cursor over the whole database positioned at its
// first key.
// This method is part of the Database interface.
func (ldb *LevelDB) NewCursor() (db.Cursor, error) {
	if ldb.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	return newCursor(ldb), nil
}

// NewTransaction begins a new leveldb transaction.
// This method is part of the Database interface.
func (ldb *LevelDB) NewTransaction() (db.Transaction, error) {
	if ldb.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	if ldb.mode == db.ModeRead {
		return nil, errors.Wrapf(db.ErrReadOnly, "leveldb")
	}
	return newTransaction(ldb), nil
}

// Close closes the leveldb instance.
// This method is part of the Database interface.
func (ldb *LevelDB) Close() error {
	if !atomic.CompareAndSwapUint32(&ldb.isClosed, 0, 1) {
		return nil
	}
	return errors.WithStack(ldb.ldb.Close())
}

func (ldb *LevelDB) closed() bool {
	return atomic.LoadUint32(&ldb.isClosed) != 0
}
