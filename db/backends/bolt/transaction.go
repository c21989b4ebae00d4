package bolt

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

type keyValue struct {
	key   []byte
	value []byte
}

// boltTransaction buffers puts in memory and writes them in one bbolt
// update. Commit may be called repeatedly; each call writes what was Put
// since the previous one.
type boltTransaction struct {
	b        *BoltDB
	puts     []keyValue
	isClosed bool
}

func newTransaction(b *BoltDB) *boltTransaction {
	return &boltTransaction{b: b}
}

func (tx *boltTransaction) Put(key []byte, value []byte) error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot put into a closed transaction")
	}
	if len(key) == 0 {
		return errors.WithStack(bbolt.ErrKeyRequired)
	}
	tx.puts = append(tx.puts, keyValue{
		key:   db.CopyBytes(key),
		value: db.CopyBytes(value),
	})
	return nil
}

func (tx *boltTransaction) Commit() error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot commit a closed transaction")
	}
	if tx.b.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	if len(tx.puts) == 0 {
		return nil
	}
	err := tx.b.bdb.Update(func(boltTx *bbolt.Tx) error {
		bucket, err := boltTx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for _, put := range tx.puts {
			value := put.value
			if value == nil {
				value = []byte{}
			}
			err := bucket.Put(put.key, value)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}
	log.Tracef("Committed %d records to %s", len(tx.puts), tx.b.bdb.Path())
	tx.puts = nil
	return nil
}

func (tx *boltTransaction) Close() error {
	tx.isClosed = true
	tx.puts = nil
	return nil
}
