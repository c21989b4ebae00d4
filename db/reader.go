package db

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

const (
	// MemoryDBType is the db type reported by Readers built around an
	// already open Database.
	MemoryDBType = "<memory-type>"

	// MemorySource is the source reported by Readers built around an
	// already open Database.
	MemorySource = "<memory-source>"
)

// Reader owns one Database and one Cursor over it and hands out records in
// an endless cycle: after the last record, Read starts over from the first.
//
// Read, Seek, SeekToFirst and Descriptor hold the Reader's lock, so a single
// Reader may be shared between goroutines that each consume records from it.
// The traversal position is shared state: every Read moves it for everyone.
//
// A Reader is either open, holding both a database and a cursor, or not
// open, holding neither.
type Reader struct {
	dbType   string
	source   string
	registry *Registry

	database Database
	cursor   Cursor
	lock     sync.Mutex
}

// openError is returned when a Reader can't open its database. It matches
// ErrCannotOpen as well as the underlying cause.
type openError struct {
	dbType string
	source string
	cause  error
}

func (e *openError) Error() string {
	return fmt.Sprintf("cannot open db: %s of type %s: %s", e.source, e.dbType, e.cause)
}

func (e *openError) Unwrap() error {
	return e.cause
}

func (e *openError) Is(target error) bool {
	return target == ErrCannotOpen
}

// NewReader opens a Reader over the database of type dbType at source using
// DefaultRegistry.
func NewReader(dbType, source string) (*Reader, error) {
	return DefaultRegistry.NewReader(dbType, source)
}

// NewReaderFromDescriptor restores a Reader from a descriptor using
// DefaultRegistry. See Registry.NewReaderFromDescriptor.
func NewReaderFromDescriptor(descriptor *ReaderDescriptor) (*Reader, error) {
	return DefaultRegistry.NewReaderFromDescriptor(descriptor)
}

// NewReader opens a Reader over the database of type dbType at source,
// opened with ModeRead through r.
func (r *Registry) NewReader(dbType, source string) (*Reader, error) {
	reader := &Reader{registry: r}
	err := reader.Open(dbType, source)
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// NewReaderFromDescriptor opens a Reader over the database described by
// descriptor. If the descriptor carries a key, the Reader resumes from that
// key, which fails with ErrSeekNotSupported when the backend can't seek.
func (r *Registry) NewReaderFromDescriptor(descriptor *ReaderDescriptor) (*Reader, error) {
	if descriptor == nil {
		return nil, errors.New("cannot create a Reader from a nil descriptor")
	}

	reader := &Reader{registry: r}
	var err error
	if descriptor.HasKey {
		err = reader.OpenAt(descriptor.DBType, descriptor.Source, descriptor.Key)
	} else {
		err = reader.Open(descriptor.DBType, descriptor.Source)
	}
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// NewReaderFromDatabase returns a Reader that takes ownership of an already
// open database. Such a Reader reports MemoryDBType and MemorySource, so its
// descriptor can't be used to reopen it.
func NewReaderFromDatabase(database Database) (*Reader, error) {
	if database == nil {
		return nil, errors.New("passed nil database")
	}
	cursor, err := database.NewCursor()
	if err != nil {
		return nil, err
	}
	return &Reader{
		dbType:   MemoryDBType,
		source:   MemorySource,
		registry: DefaultRegistry,
		database: database,
		cursor:   cursor,
	}, nil
}

// Open closes whatever the Reader currently holds and opens the database of
// type dbType at source in ModeRead. The new cursor points at the first
// record. If opening fails the Reader is left closed, and the returned error
// matches ErrCannotOpen along with the cause, e.g. ErrBackendNotFound.
func (r *Reader) Open(dbType, source string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.open(dbType, source)
}

// OpenAt is like Open, but positions the Reader at key, or at the first key
// greater than it. It fails with ErrSeekNotSupported, leaving the Reader
// closed, if the backend can't seek.
func (r *Reader) OpenAt(dbType, source string, key []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	err := r.open(dbType, source)
	if err != nil {
		return err
	}
	if !r.cursor.SupportsSeek() {
		closeErr := r.close()
		if closeErr != nil {
			log.Warnf("Failed closing db %s of type %s: %s", source, dbType, closeErr)
		}
		return errors.Wrapf(ErrSeekNotSupported,
			"a position was requested for %s but db type %s can't seek", source, dbType)
	}
	err = r.cursor.Seek(key)
	if err != nil {
		closeErr := r.close()
		if closeErr != nil {
			log.Warnf("Failed closing db %s of type %s: %s", source, dbType, closeErr)
		}
		return err
	}
	return nil
}

func (r *Reader) open(dbType, source string) error {
	err := r.close()
	if err != nil {
		return err
	}
	r.dbType = dbType
	r.source = source

	registry := r.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	database, err := registry.Create(dbType, source, ModeRead)
	if err != nil {
		return &openError{dbType: dbType, source: source, cause: err}
	}
	cursor, err := database.NewCursor()
	if err != nil {
		closeErr := database.Close()
		if closeErr != nil {
			log.Warnf("Failed closing db %s of type %s: %s", source, dbType, closeErr)
		}
		return &openError{dbType: dbType, source: source, cause: err}
	}
	r.database = database
	r.cursor = cursor
	log.Debugf("Opened reader over db %s of type %s", source, dbType)
	return nil
}

// Read returns the current record and advances the Reader. After the last
// record it moves back to the first one, so Read never runs out of data.
// It returns ErrNoRecords if the database is empty.
//
// Read is safe for concurrent use. Calling it on a Reader that isn't open
// is a programming error and panics.
func (r *Reader) Read() (key []byte, value []byte, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.mustBeOpen("Read")

	// The cursor may be invalid if the Reader was positioned past the
	// last key, or if the database is empty.
	if !r.cursor.Valid() {
		err := r.cursor.SeekToFirst()
		if err != nil {
			return nil, nil, err
		}
		if !r.cursor.Valid() {
			return nil, nil, errors.Wrapf(ErrNoRecords, "db %s of type %s", r.source, r.dbType)
		}
	}

	key = r.cursor.Key()
	value = r.cursor.Value()
	err = r.cursor.Next()
	if err != nil {
		return nil, nil, err
	}
	if !r.cursor.Valid() {
		err = r.cursor.SeekToFirst()
		if err != nil {
			return nil, nil, err
		}
	}
	return key, value, nil
}

// SeekToFirst moves the Reader back to the first record. It is safe for
// concurrent use and panics if the Reader isn't open.
func (r *Reader) SeekToFirst() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.mustBeOpen("SeekToFirst")
	return r.cursor.SeekToFirst()
}

// Seek moves the Reader to key, or to the first key greater than it. It is
// safe for concurrent use, panics if the Reader isn't open and returns
// ErrSeekNotSupported if the backend can't seek.
func (r *Reader) Seek(key []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.mustBeOpen("Seek")
	if !r.cursor.SupportsSeek() {
		return errors.Wrapf(ErrSeekNotSupported, "db type %s", r.dbType)
	}
	return r.cursor.Seek(key)
}

// Descriptor captures the Reader's type, source and, if the cursor points
// at a record, the key of that record. It panics if the Reader isn't open.
func (r *Reader) Descriptor() *ReaderDescriptor {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.mustBeOpen("Descriptor")
	return r.descriptor()
}

// descriptorIfOpen is like Descriptor, but returns false instead of
// panicking when the Reader isn't open.
func (r *Reader) descriptorIfOpen() (*ReaderDescriptor, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.cursor == nil {
		return nil, false
	}
	return r.descriptor(), true
}

func (r *Reader) descriptor() *ReaderDescriptor {
	descriptor := &ReaderDescriptor{
		DBType: r.dbType,
		Source: r.source,
	}
	if r.cursor.Valid() {
		descriptor.Key = r.cursor.Key()
		descriptor.HasKey = true
	}
	return descriptor
}

// Cursor returns the underlying cursor.
//
// Using the cursor directly bypasses the Reader's lock and is not safe when
// the Reader is shared. Prefer Read.
func (r *Reader) Cursor() Cursor {
	log.Warnf("Usually for a Reader you should use Read() to be " +
		"thread safe. Consider refactoring your code.")
	return r.cursor
}

// DBType returns the type of the database the Reader was opened with.
func (r *Reader) DBType() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dbType
}

// Source returns the source the Reader was opened with.
func (r *Reader) Source() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.source
}

// IsOpen returns whether the Reader holds an open database.
func (r *Reader) IsOpen() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.cursor != nil
}

// Close closes the cursor and then the database. Closing a Reader that
// isn't open is a no-op.
func (r *Reader) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.close()
}

func (r *Reader) close() error {
	if r.cursor == nil {
		return nil
	}
	cursorErr := r.cursor.Close()
	databaseErr := r.database.Close()
	r.cursor = nil
	r.database = nil
	if cursorErr != nil {
		if databaseErr != nil {
			return errors.Wrapf(cursorErr, "err occurred during database close: %s", databaseErr)
		}
		return cursorErr
	}
	return databaseErr
}

func (r *Reader) mustBeOpen(operation string) {
	if r.cursor == nil {
		panic(errors.Errorf("%s called on a Reader that is not open", operation))
	}
}
