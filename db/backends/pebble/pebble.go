package pebble

import (
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// DBType is the name this backend is registered under.
const DBType = "pebble"

func init() {
	db.MustRegister(DBType, Open)
}

// PebbleDB is a Database over a pebble directory. Keys are visited in
// bytewise order.
type PebbleDB struct {
	db     *pebble.DB
	mode   db.Mode
	closed bool
	mu     sync.RWMutex
}

func options(mode db.Mode) *pebble.Options {
	return &pebble.Options{
		Cache:            pebble.NewCache(64 * 1024 * 1024), // 64MB
		MemTableSize:     32 * 1024 * 1024,                  // 32MB
		ReadOnly:         mode == db.ModeRead,
		ErrorIfNotExists: mode == db.ModeRead,
		Logger:           pebbleLogger{},
	}
}

// Open opens the pebble directory at source.
//
// ModeRead opens it read-only and fails if it doesn't exist, ModeWrite
// creates it if needed, and ModeNew removes whatever is at source first.
func Open(source string, mode db.Mode) (db.Database, error) {
	return NewPebbleDB(source, mode)
}

// NewPebbleDB is like Open but returns the concrete type.
func NewPebbleDB(source string, mode db.Mode) (*PebbleDB, error) {
	if source == "" {
		return nil, errors.New("pebble source path cannot be empty")
	}
	if !mode.IsValid() {
		return nil, errors.Wrapf(db.ErrInvalidMode, "%s", mode)
	}
	if mode == db.ModeNew {
		err := os.RemoveAll(source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	opts := options(mode)
	pdb, err := pebble.Open(source, opts)
	opts.Cache.Unref()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pebble directory %s", source)
	}
	log.Debugf("Opened pebble directory %s in mode %s", source, mode)
	return &PebbleDB{db: pdb, mode: mode}, nil
}

// NewCursor returns a cursor over the whole key space positioned at the
// first key.
// This method is part of the Database interface.
func (p *PebbleDB) NewCursor() (db.Cursor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, errors.WithStack(db.ErrClosed)
	}
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pebble iterator")
	}
	iter.First()
	return &Cursor{p: p, iter: iter}, nil
}

// NewTransaction returns a single use transaction backed by a pebble batch.
// This method is part of the Database interface.
func (p *PebbleDB) NewTransaction() (db.Transaction, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, errors.WithStack(db.ErrClosed)
	}
	if p.mode == db.ModeRead {
		return nil, errors.Wrapf(db.ErrReadOnly, "pebble")
	}
	return &Batch{p: p, batch: p.db.NewBatch()}, nil
}

// Close closes the pebble instance. Cursors and transactions must be
// closed first.
// This method is part of the Database interface.
func (p *PebbleDB) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return errors.WithStack(p.db.Close())
}

func (p *PebbleDB) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.closed
}
