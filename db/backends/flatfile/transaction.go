package flatfile

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// FlatFileTransaction buffers serialized records until Commit appends them.
//
// Commit may be called repeatedly; each call appends and syncs what was Put
// since the previous one.
type FlatFileTransaction struct {
	ffdb     *FlatFileDB
	records  [][]byte
	isClosed bool
}

func newTransaction(ffdb *FlatFileDB) *FlatFileTransaction {
	return &FlatFileTransaction{ffdb: ffdb}
}

// Put appends a record for the given key. Earlier records for the same key
// are kept.
// This method is part of the Transaction interface.
func (tx *FlatFileTransaction) Put(key []byte, value []byte) error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot put into a closed transaction")
	}
	tx.records = append(tx.records, serializeRecord(key, value))
	return nil
}

// Commit appends the buffered records and syncs the data file.
// This method is part of the Transaction interface.
func (tx *FlatFileTransaction) Commit() error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot commit a closed transaction")
	}
	if tx.ffdb.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	err := tx.ffdb.write(tx.records)
	if err != nil {
		return err
	}
	log.Tracef("Committed %d records to %s", len(tx.records), tx.ffdb.basePath)
	tx.records = nil
	return nil
}

// Close discards uncommitted records.
// This method is part of the Transaction interface.
func (tx *FlatFileTransaction) Close() error {
	tx.isClosed = true
	tx.records = nil
	return nil
}
