package flatfile

import (
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrLocked is returned when another writer, or a reader while opening
// for write, holds the directory lock.
var ErrLocked = errors.New("flatfile database is locked")

// directoryLock is the LOCK file of a flat file database. Readers share it
// and a writer holds it exclusively.
type directoryLock struct {
	fileLock *flock.Flock
}

func lockDirectory(dbPath string, shared bool) (*directoryLock, error) {
	fileLock := flock.New(filepath.Join(dbPath, lockFileName))

	var locked bool
	var err error
	if shared {
		locked, err = fileLock.TryRLock()
	} else {
		locked, err = fileLock.TryLock()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock %s", fileLock.Path())
	}
	if !locked {
		return nil, errors.Wrapf(ErrLocked, "%s is held by another process", fileLock.Path())
	}
	return &directoryLock{fileLock: fileLock}, nil
}

func (l *directoryLock) unlock() error {
	return errors.WithStack(l.fileLock.Unlock())
}
