package memory

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// memoryTransaction buffers writes in a leveldb batch and replays them into
// the table on Commit. Commit may be called repeatedly.
type memoryTransaction struct {
	m        *MemoryDB
	batch    *leveldb.Batch
	isClosed bool
}

func newTransaction(m *MemoryDB) *memoryTransaction {
	return &memoryTransaction{
		m:     m,
		batch: new(leveldb.Batch),
	}
}

func (tx *memoryTransaction) Put(key []byte, value []byte) error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot put into a closed transaction")
	}
	tx.batch.Put(key, value)
	return nil
}

func (tx *memoryTransaction) Commit() error {
	if tx.isClosed {
		return errors.Wrapf(db.ErrTransactionDone, "cannot commit a closed transaction")
	}
	if tx.m.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	replayer := &tableReplayer{table: tx.m.table}
	err := tx.batch.Replay(replayer)
	if err != nil {
		return errors.WithStack(err)
	}
	if replayer.err != nil {
		return replayer.err
	}
	log.Tracef("Committed %d records to %s", tx.batch.Len(), tx.m.source)
	tx.batch.Reset()
	return nil
}

func (tx *memoryTransaction) Close() error {
	if tx.isClosed {
		return nil
	}
	tx.isClosed = true
	tx.batch.Reset()
	return nil
}

// tableReplayer applies batch records to a memdb table.
type tableReplayer struct {
	table *memdb.DB
	err   error
}

func (r *tableReplayer) Put(key, value []byte) {
	if r.err != nil {
		return
	}
	r.err = errors.WithStack(r.table.Put(key, value))
}

func (r *tableReplayer) Delete(key []byte) {
	if r.err != nil {
		return
	}
	r.err = errors.WithStack(r.table.Delete(key))
}
