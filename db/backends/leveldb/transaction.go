package leveldb

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBTransaction buffers writes in a leveldb batch until Commit.
//
// Commit may be called repeatedly; each call writes what was Put since the
// previous one. Writes are synced to disk.
type LevelDBTransaction struct {
	ldb      *LevelDB
	batch    *leveldb.Batch
	isClosed bool
}

func newTransaction(ldb *LevelDB) *LevelDBTransaction {
	return &LevelDBTransaction{
		ldb:   ldb,
		batch: new(leveldb.Batch),
	}
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
// This method is part of the Transaction interface.
func (tx *LevelDBTransaction) Put(key []byte, value []byte) error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot put into a closed transaction")
	}
	tx.batch.Put(key, value)
	return nil
}

// Commit writes the buffered batch to the database.
// This method is part of the Transaction interface.
func (tx *LevelDBTransaction) Commit() error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot commit a closed transaction")
	}
	if tx.ldb.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	if tx.batch.Len() == 0 {
		return nil
	}
	err := tx.ldb.ldb.Write(tx.batch, syncWrites)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Tracef("Committed %d records", tx.batch.Len())
	tx.batch.Reset()
	return nil
}

// Close discards uncommitted writes.
// This method is part of the Transaction interface.
func (tx *LevelDBTransaction) Close() error {
	if tx.isClosed {
		return nil
	}
	tx.isClosed = true
	tx.batch.Reset()
	return nil
}
