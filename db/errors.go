package db

import "github.com/pkg/errors"

var (
	// ErrBackendNotFound denotes that no backend is registered under
	// the requested type name.
	ErrBackendNotFound = errors.New("backend not found")

	// ErrBackendAlreadyRegistered denotes a second registration under
	// an existing type name.
	ErrBackendAlreadyRegistered = errors.New("backend already registered")

	// ErrCannotOpen denotes that a Reader could not open its database.
	ErrCannotOpen = errors.New("cannot open database")

	// ErrSeekNotSupported is returned by Cursor.Seek on backends whose
	// SupportsSeek returns false, and when a Reader is asked to resume
	// from a key on such a backend.
	ErrSeekNotSupported = errors.New("seek is not supported by this database type")

	// ErrReadOnly is returned by NewTransaction on a database opened in
	// ModeRead.
	ErrReadOnly = errors.New("database is opened read-only")

	// ErrClosed is returned by operations on a closed database, cursor
	// or transaction.
	ErrClosed = errors.New("database is closed")

	// ErrTransactionDone is returned by backends whose transactions are
	// single use when they are used after Commit or Close.
	ErrTransactionDone = errors.New("transaction is already committed or closed")

	// ErrNoRecords is returned by Reader.Read when the database holds no
	// records.
	ErrNoRecords = errors.New("database has no records")

	// ErrNotAReader is returned when serializing a blob that doesn't
	// hold a *Reader.
	ErrNotAReader = errors.New("blob does not hold a Reader")

	// ErrReaderNotOpen is returned when serializing a blob holding a
	// Reader that was closed or never opened.
	ErrReaderNotOpen = errors.New("reader is not open")

	// ErrInvalidMode denotes a Mode value outside the defined set.
	ErrInvalidMode = errors.New("invalid mode")
)

// IsBackendNotFoundError checks whether an error is an ErrBackendNotFound.
func IsBackendNotFoundError(err error) bool {
	return errors.Is(err, ErrBackendNotFound)
}

// IsSeekNotSupportedError checks whether an error is an ErrSeekNotSupported.
func IsSeekNotSupportedError(err error) bool {
	return errors.Is(err, ErrSeekNotSupported)
}

// IsClosedError checks whether an error is an ErrClosed.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsCannotOpenError checks whether an error is an ErrCannotOpen.
func IsCannotOpenError(err error) bool {
	return errors.Is(err, ErrCannotOpen)
}

// IsReadOnlyError checks whether an error is an ErrReadOnly.
func IsReadOnlyError(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

// IsTransactionDoneError checks whether an error is an ErrTransactionDone.
func IsTransactionDoneError(err error) bool {
	return errors.Is(err, ErrTransactionDone)
}

// IsNoRecordsError checks whether an error is an ErrNoRecords.
func IsNoRecordsError(err error) bool {
	return errors.Is(err, ErrNoRecords)
}
