package memory

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// DBType is the name this backend is registered under.
const DBType = "memory"

const initialCapacity = 4 * 1024

func init() {
	db.MustRegister(DBType, Open)
}

// sources holds every in-memory database of the process, keyed by source.
// Data outlives the Database values opened over it until Drop is called.
var (
	sources     = make(map[string]*memdb.DB)
	sourcesLock sync.Mutex
)

// NewSource returns a source name that no other in-memory database uses.
func NewSource() string {
	return "memory-" + uuid.New().String()
}

// Drop discards the data stored under source. Databases already open over
// it keep working on the dropped data.
func Drop(source string) {
	sourcesLock.Lock()
	defer sourcesLock.Unlock()

	delete(sources, source)
	log.Debugf("Dropped in-memory source %s", source)
}

// MemoryDB is a Database over a process-wide in-memory table. Keys are
// visited in bytewise order.
type MemoryDB struct {
	source   string
	table    *memdb.DB
	mode     db.Mode
	isClosed uint32
}

// Open opens the in-memory database with the given source name.
//
// ModeRead fails if nothing was written under source, ModeWrite creates the
// table if needed, and ModeNew replaces any existing table with an empty one.
func Open(source string, mode db.Mode) (db.Database, error) {
	if source == "" {
		return nil, errors.New("memory source name cannot be empty")
	}

	sourcesLock.Lock()
	defer sourcesLock.Unlock()

	table, exists := sources[source]
	switch mode {
	case db.ModeRead:
		if !exists {
			return nil, errors.Errorf("in-memory source %s does not exist", source)
		}
	case db.ModeWrite:
		if !exists {
			table = memdb.New(comparer.DefaultComparer, initialCapacity)
			sources[source] = table
		}
	case db.ModeNew:
		table = memdb.New(comparer.DefaultComparer, initialCapacity)
		sources[source] = table
	default:
		return nil, errors.Wrapf(db.ErrInvalidMode, "%s", mode)
	}

	return &MemoryDB{
		source: source,
		table:  table,
		mode:   mode,
	}, nil
}

// NewCursor returns a cursor positioned at the first key.
// This method is part of the Database interface.
func (m *MemoryDB) NewCursor() (db.Cursor, error) {
	if m.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	return newCursor(m), nil
}

// NewTransaction returns a transaction that buffers writes until Commit.
// This method is part of the Database interface.
func (m *MemoryDB) NewTransaction() (db.Transaction, error) {
	if m.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	if m.mode == db.ModeRead {
		return nil, errors.Wrapf(db.ErrReadOnly, "memory source %s", m.source)
	}
	return newTransaction(m), nil
}

// Close marks the database closed. The data stays in the process-wide table.
// This method is part of the Database interface.
func (m *MemoryDB) Close() error {
	atomic.StoreUint32(&m.isClosed, 1)
	return nil
}

func (m *MemoryDB) closed() bool {
	return atomic.LoadUint32(&m.isClosed) != 0
}
