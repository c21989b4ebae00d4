package flatfile

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// DBType is the name this backend is registered under.
const DBType = "flatfile"

const (
	// storeName is the prefix of every data file in the directory.
	storeName = "data"

	// lockFileName is the name of the file guarding the directory
	// against concurrent writers.
	lockFileName = "LOCK"
)

var (
	// maxFileSize is the maximum size for each file used to store data.
	// A record that doesn't fit in the current file starts a new one.
	//
	// NOTE: offsets are uint32, so this value must be less than
	// 2^32 (4 GiB).
	maxFileSize uint32 = 512 * 1024 * 1024 // 512 MiB

	// byteOrder is the byte order of the length fields.
	byteOrder = binary.LittleEndian

	// crc32ByteOrder is the byte order used for CRC-32 checksums.
	crc32ByteOrder = binary.BigEndian

	// crc32ChecksumLength is the length in bytes of a CRC-32 checksum.
	crc32ChecksumLength = 4

	// dataLengthLength is the length in bytes of the "data length" section
	// of a serialized record.
	dataLengthLength = 4

	// keyLengthLength is the length in bytes of the "key length" section
	// of a serialized record.
	keyLengthLength = 4

	// castagnoli houses the Catagnoli polynomial used for CRC-32 checksums.
	castagnoli = crc32.MakeTable(crc32.Castagnoli)
)

func init() {
	db.MustRegister(DBType, Open)
}

// FlatFileDB is an append-only database stored as a sequence of flat files
// in one directory. Records are visited in the order they were committed,
// and a key that was Put twice is visited twice.
type FlatFileDB struct {
	basePath string
	mode     db.Mode
	lock     *directoryLock

	// writeLock serializes commits. writeCursor is nil until the
	// first commit opens the current file.
	writeLock   sync.Mutex
	writeCursor *writeCursor
	fileNumber  uint32
	fileOffset  uint32

	isClosed uint32
}

// Open opens the flat file database in the directory at source.
//
// ModeRead takes a shared lock and fails if the directory doesn't exist.
// ModeWrite and ModeNew take an exclusive lock, creating the directory as
// needed. ModeNew removes existing data files once the lock is held.
func Open(source string, mode db.Mode) (db.Database, error) {
	return NewFlatFileDB(source, mode)
}

// NewFlatFileDB is like Open but returns the concrete type.
func NewFlatFileDB(source string, mode db.Mode) (*FlatFileDB, error) {
	if source == "" {
		return nil, errors.New("flatfile source path cannot be empty")
	}
	if !mode.IsValid() {
		return nil, errors.Wrapf(db.ErrInvalidMode, "%s", mode)
	}

	if mode == db.ModeRead {
		stat, err := os.Stat(source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !stat.IsDir() {
			return nil, errors.Errorf("flatfile source %s is not a directory", source)
		}
	} else {
		err := os.MkdirAll(source, 0700)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	lock, err := lockDirectory(source, mode == db.ModeRead)
	if err != nil {
		return nil, err
	}

	if mode == db.ModeNew {
		err := removeDataFiles(source)
		if err != nil {
			lock.unlock()
			return nil, err
		}
	}

	fileNumber, fileOffset, err := findCurrentLocation(source, storeName)
	if err != nil {
		lock.unlock()
		return nil, err
	}

	return &FlatFileDB{
		basePath:   source,
		mode:       mode,
		lock:       lock,
		fileNumber: fileNumber,
		fileOffset: fileOffset,
	}, nil
}

// NewCursor returns a cursor positioned at the first committed record.
// This method is part of the Database interface.
func (ffdb *FlatFileDB) NewCursor() (db.Cursor, error) {
	if ffdb.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	cursor := newCursor(ffdb)
	err := cursor.SeekToFirst()
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

// NewTransaction returns a transaction that appends records on Commit.
// This method is part of the Database interface.
func (ffdb *FlatFileDB) NewTransaction() (db.Transaction, error) {
	if ffdb.closed() {
		return nil, errors.WithStack(db.ErrClosed)
	}
	if ffdb.mode == db.ModeRead {
		return nil, errors.Wrapf(db.ErrReadOnly, "flatfile %s", ffdb.basePath)
	}
	return newTransaction(ffdb), nil
}

// Close closes the current data file and releases the directory lock.
// This method is part of the Database interface.
func (ffdb *FlatFileDB) Close() error {
	if !atomic.CompareAndSwapUint32(&ffdb.isClosed, 0, 1) {
		return nil
	}

	ffdb.writeLock.Lock()
	defer ffdb.writeLock.Unlock()

	var closeErr error
	if ffdb.writeCursor != nil {
		closeErr = ffdb.writeCursor.close()
		ffdb.writeCursor = nil
	}
	unlockErr := ffdb.lock.unlock()
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}

func (ffdb *FlatFileDB) closed() bool {
	return atomic.LoadUint32(&ffdb.isClosed) != 0
}

// findCurrentLocation searches the database directory for all flat files for a given
// store to find the end of the most recent file. This position is considered
// the current write cursor.
func findCurrentLocation(dbPath string, storeName string) (fileNumber uint32, fileLength uint32, err error) {
	currentFileNumber := uint32(0)
	currentFileLength := uint32(0)
	for {
		currentFilePath := flatFilePath(dbPath, storeName, currentFileNumber)
		stat, err := os.Stat(currentFilePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return 0, 0, errors.WithStack(err)
			}
			if currentFileNumber > 0 {
				fileNumber = currentFileNumber - 1
			}
			fileLength = currentFileLength
			break
		}
		currentFileLength = uint32(stat.Size())
		currentFileNumber++
	}

	log.Tracef("Scan for store '%s' found latest file #%d with length %d",
		storeName, fileNumber, fileLength)
	return fileNumber, fileLength, nil
}

// removeDataFiles deletes every data file in dbPath, and nothing else.
func removeDataFiles(dbPath string) error {
	paths, err := filepath.Glob(filepath.Join(dbPath, storeName+"-*.fdb"))
	if err != nil {
		return errors.WithStack(err)
	}
	for _, path := range paths {
		err := os.Remove(path)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	log.Debugf("Removed %d data files from %s", len(paths), dbPath)
	return nil
}

// flatFilePath return the file path for the provided store's flat file number.
func flatFilePath(dbPath string, storeName string, fileNumber uint32) string {
	// Choose 9 digits of precision for the filenames. 9 digits provide
	// 10^9 files @ 512MiB each a total of ~476.84PiB.

	fileName := fmt.Sprintf("%s-%09d.fdb", storeName, fileNumber)
	return filepath.Join(dbPath, fileName)
}
