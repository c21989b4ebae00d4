package flatfile

import (
	"bufio"
	"hash/crc32"
	"io"
	"os"

	"github.com/pkg/errors"
)

// writeCursor is the file new records are appended to.
type writeCursor struct {
	file   *os.File
	writer *bufio.Writer
}

func openWriteCursor(filePath string, offset uint32) (*writeCursor, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// Anything past the known end is the tail of an interrupted commit.
	err = file.Truncate(int64(offset))
	if err != nil {
		_ = file.Close()
		return nil, errors.WithStack(err)
	}
	_, err = file.Seek(int64(offset), io.SeekStart)
	if err != nil {
		_ = file.Close()
		return nil, errors.WithStack(err)
	}
	return &writeCursor{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// sync flushes buffered records and waits for them to reach the disk.
func (wc *writeCursor) sync() error {
	err := wc.writer.Flush()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(wc.file.Sync())
}

func (wc *writeCursor) close() error {
	err := wc.sync()
	closeErr := wc.file.Close()
	if err != nil {
		return err
	}
	return errors.WithStack(closeErr)
}

// serializeRecord returns the on-disk form of a key/value pair.
//
// Format: <data length><key length><key><value><checksum>
//
// The data length covers the key length, key and value. The checksum
// covers everything before it.
func serializeRecord(key []byte, value []byte) []byte {
	dataLength := keyLengthLength + len(key) + len(value)
	record := make([]byte, dataLengthLength+dataLength+crc32ChecksumLength)

	byteOrder.PutUint32(record, uint32(dataLength))
	byteOrder.PutUint32(record[dataLengthLength:], uint32(len(key)))
	offset := dataLengthLength + keyLengthLength
	offset += copy(record[offset:], key)
	offset += copy(record[offset:], value)
	checksum := crc32.Checksum(record[:offset], castagnoli)
	crc32ByteOrder.PutUint32(record[offset:], checksum)
	return record
}

// write appends the given serialized records and syncs them to disk,
// rolling over to a new file whenever a record doesn't fit in the current
// one.
func (ffdb *FlatFileDB) write(records [][]byte) error {
	ffdb.writeLock.Lock()
	defer ffdb.writeLock.Unlock()

	if ffdb.closed() {
		return errors.New("cannot write to a closed flatfile database")
	}

	for _, record := range records {
		if uint64(len(record)) > uint64(maxFileSize) {
			return errors.Errorf("record of %d bytes exceeds the maximum "+
				"file size of %d bytes", len(record), maxFileSize)
		}

		// A new file is started if the record would exceed the max
		// file size for the current file.
		if ffdb.fileOffset+uint32(len(record)) > maxFileSize ||
			ffdb.fileOffset+uint32(len(record)) < ffdb.fileOffset {
			if ffdb.writeCursor != nil {
				err := ffdb.writeCursor.close()
				ffdb.writeCursor = nil
				if err != nil {
					return err
				}
			}
			ffdb.fileNumber++
			ffdb.fileOffset = 0
			log.Debugf("Rolled %s over to file #%d", ffdb.basePath, ffdb.fileNumber)
		}

		if ffdb.writeCursor == nil {
			filePath := flatFilePath(ffdb.basePath, storeName, ffdb.fileNumber)
			writeCursor, err := openWriteCursor(filePath, ffdb.fileOffset)
			if err != nil {
				return err
			}
			ffdb.writeCursor = writeCursor
		}

		_, err := ffdb.writeCursor.writer.Write(record)
		if err != nil {
			return errors.Wrapf(err, "failed to write record to file %d at offset %d",
				ffdb.fileNumber, ffdb.fileOffset)
		}
		ffdb.fileOffset += uint32(len(record))
	}

	if ffdb.writeCursor == nil {
		return nil
	}
	return ffdb.writeCursor.sync()
}
