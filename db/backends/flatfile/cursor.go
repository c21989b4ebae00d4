package flatfile

import (
	"bufio"
	"hash/crc32"
	"io"
	"os"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

// ErrCorruptRecord is returned when a record fails its checksum or is cut
// short.
var ErrCorruptRecord = errors.New("corrupt flatfile record")

// FlatFileCursor reads records sequentially across the data files. It can't
// seek.
type FlatFileCursor struct {
	ffdb *FlatFileDB

	fileNumber uint32
	file       *os.File
	reader     *bufio.Reader

	key      []byte
	value    []byte
	isValid  bool
	isClosed bool
}

func newCursor(ffdb *FlatFileDB) *FlatFileCursor {
	return &FlatFileCursor{ffdb: ffdb}
}

// Seek always fails with ErrSeekNotSupported.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Seek(key []byte) error {
	return errors.Wrapf(db.ErrSeekNotSupported, "flatfile")
}

// SupportsSeek returns false.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) SupportsSeek() bool {
	return false
}

// SeekToFirst moves the cursor to the first record of the first file.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) SeekToFirst() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	err := c.openFile(0)
	if err != nil {
		return err
	}
	return c.readRecord()
}

// Next moves the cursor to the following record, crossing into the next
// file when the current one is exhausted.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Next() error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !c.isValid {
		return nil
	}
	return c.readRecord()
}

// Key returns a copy of the current key.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.key)
}

// Value returns a copy of the current value.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	return db.CopyBytes(c.value)
}

// Valid returns whether the cursor points at a record.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Valid() bool {
	return !c.isClosed && c.isValid
}

// Close closes the file being read.
// This method is part of the Cursor interface.
func (c *FlatFileCursor) Close() error {
	if c.isClosed {
		return nil
	}
	c.isClosed = true
	c.isValid = false
	return c.closeFile()
}

func (c *FlatFileCursor) checkOpen() error {
	if c.isClosed || c.ffdb.closed() {
		return errors.WithStack(db.ErrClosed)
	}
	return nil
}

// openFile switches the cursor to the start of the given file. A missing
// file leaves the cursor without a file, which reads as the end of data.
func (c *FlatFileCursor) openFile(fileNumber uint32) error {
	err := c.closeFile()
	if err != nil {
		return err
	}
	c.fileNumber = fileNumber
	file, err := os.Open(flatFilePath(c.ffdb.basePath, storeName, fileNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WithStack(err)
	}
	c.file = file
	c.reader = bufio.NewReader(file)
	return nil
}

func (c *FlatFileCursor) closeFile() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	c.reader = nil
	return errors.WithStack(err)
}

// readRecord reads the record under the file position into key and value.
// It ensures the integrity of the data by comparing the calculated checksum
// against the one stored in the flat file.
func (c *FlatFileCursor) readRecord() error {
	c.isValid = false
	c.key = nil
	c.value = nil

	for {
		if c.reader == nil {
			return nil
		}
		lengthBytes := make([]byte, dataLengthLength)
		_, err := io.ReadFull(c.reader, lengthBytes)
		if err == io.EOF {
			err := c.openFile(c.fileNumber + 1)
			if err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return c.corruptionError(err)
		}

		dataLength := byteOrder.Uint32(lengthBytes)
		if dataLength < uint32(keyLengthLength) || dataLength > maxFileSize {
			return c.corruptionError(errors.Errorf("invalid data length %d", dataLength))
		}
		record := make([]byte, dataLengthLength+int(dataLength)+crc32ChecksumLength)
		copy(record, lengthBytes)
		_, err = io.ReadFull(c.reader, record[dataLengthLength:])
		if err != nil {
			return c.corruptionError(err)
		}

		checksumOffset := len(record) - crc32ChecksumLength
		serializedChecksum := crc32ByteOrder.Uint32(record[checksumOffset:])
		calculatedChecksum := crc32.Checksum(record[:checksumOffset], castagnoli)
		if serializedChecksum != calculatedChecksum {
			return c.corruptionError(errors.Errorf("data does not match "+
				"checksum - got %x, want %x", calculatedChecksum, serializedChecksum))
		}

		keyLength := byteOrder.Uint32(record[dataLengthLength:])
		if keyLength > dataLength-uint32(keyLengthLength) {
			return c.corruptionError(errors.Errorf("invalid key length %d", keyLength))
		}
		keyOffset := dataLengthLength + keyLengthLength
		valueOffset := keyOffset + int(keyLength)
		c.key = record[keyOffset:valueOffset]
		c.value = record[valueOffset:checksumOffset]
		c.isValid = true
		return nil
	}
}

func (c *FlatFileCursor) corruptionError(cause error) error {
	return errors.Wrapf(ErrCorruptRecord, "file %s: %s",
		flatFilePath(c.ffdb.basePath, storeName, c.fileNumber), cause)
}
