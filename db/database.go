package db

// Cursor iterates over the key space of a database, either in key order or
// in insertion order depending on the backend.
//
// Key and Value are only meaningful while Valid returns true. They return
// copies that remain usable after the cursor moves.
type Cursor interface {
	// Seek moves the cursor to the given key, or to the first key
	// greater than it if the key doesn't exist. The cursor becomes
	// invalid if there's no such key. Backends whose SupportsSeek
	// returns false return ErrSeekNotSupported.
	Seek(key []byte) error

	// SupportsSeek returns whether Seek may be called.
	SupportsSeek() bool

	// SeekToFirst moves the cursor to the first record.
	SeekToFirst() error

	// Next moves the cursor to the next record. Moving past the last
	// record makes the cursor invalid.
	Next() error

	// Key returns the key of the current record.
	Key() []byte

	// Value returns the value of the current record.
	Value() []byte

	// Valid returns whether the cursor points at a record.
	Valid() bool

	// Close releases the cursor.
	Close() error
}

// Transaction accumulates writes to a database. Writes are not guaranteed
// to be durable or visible before Commit returns.
//
// Whether Commit may be called more than once is defined by each backend.
// Callers should treat a transaction as single use.
type Transaction interface {
	// Put sets the value for the given key, overwriting any previous
	// value.
	Put(key []byte, value []byte) error

	// Commit applies the writes made through the transaction.
	Commit() error

	// Close discards uncommitted writes and releases the transaction.
	Close() error
}

// Database is an open key-value store created by a registered backend.
//
// A Database doesn't track the cursors and transactions it creates. They are
// owned by the caller and must be closed before the database is.
type Database interface {
	// NewCursor returns a cursor positioned at the first record.
	NewCursor() (Cursor, error)

	// NewTransaction returns a transaction that writes to this
	// database. It returns ErrReadOnly on databases opened with ModeRead.
	NewTransaction() (Transaction, error)

	// Close releases the resources held by the database. Closing an
	// already closed database is a no-op.
	Close() error
}

// CopyBytes returns a copy of the given byte slice, preserving nil. Backends
// use it to hand out keys and values that outlive the underlying iterator.
func CopyBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}

// SeekSupported returns whether cursor is non-nil and can seek.
func SeekSupported(cursor Cursor) bool {
	return cursor != nil && cursor.SupportsSeek()
}
