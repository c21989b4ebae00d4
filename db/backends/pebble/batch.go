package pebble

import (
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// Batch is a single use transaction. Once committed or closed, every
// further call returns db.ErrTransactionDone.
type Batch struct {
	p     *PebbleDB
	batch *pebble.Batch
	done  atomic.Bool
}

// Put sets the value for key in the batch.
func (b *Batch) Put(key, value []byte) error {
	if b.done.Load() {
		return errors.WithStack(db.ErrTransactionDone)
	}
	return errors.WithStack(b.batch.Set(key, value, nil))
}

// Commit applies the batch with a synced write and releases it.
func (b *Batch) Commit() error {
	if b.done.Load() {
		return errors.WithStack(db.ErrTransactionDone)
	}
	if b.p.isClosed() {
		return errors.WithStack(db.ErrClosed)
	}
	count := b.batch.Count()
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return errors.WithStack(err)
	}
	if !b.done.CompareAndSwap(false, true) {
		return nil
	}
	log.Tracef("Committed %d records", count)
	return errors.WithStack(b.batch.Close())
}

// Close discards the batch if it wasn't committed. Closing twice is a
// no-op.
func (b *Batch) Close() error {
	if !b.done.CompareAndSwap(false, true) {
		return nil
	}
	return errors.WithStack(b.batch.Close())
}
