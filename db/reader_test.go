package db_test

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/blobdb/blob"
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/db/backends/memory"
	"github.com/pkg/errors"
)

func openReaderForTest(t *testing.T, dbType string, source string, testName string) *db.Reader {
	reader, err := db.NewReader(dbType, source)
	if err != nil {
		t.Fatalf("%s: NewReader unexpectedly failed: %s", testName, err)
	}
	return reader
}

func closeReaderForTest(t *testing.T, reader *db.Reader, testName string) {
	err := reader.Close()
	if err != nil {
		t.Fatalf("%s: Close unexpectedly failed: %s", testName, err)
	}
}

func TestReaderWraparound(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderWraparound", testReaderWraparound)
}

func testReaderWraparound(t *testing.T, dbType string, source string, testName string) {
	const recordCount = 5
	entries := populateDatabaseForTest(t, dbType, source, testName, recordCount)

	reader := openReaderForTest(t, dbType, source, testName)
	defer closeReaderForTest(t, reader, testName)

	for i := 0; i < 3*recordCount+2; i++ {
		key, value, err := reader.Read()
		if err != nil {
			t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
		}
		expected := entries[i%recordCount]
		if !bytes.Equal(key, expected.key) || !bytes.Equal(value, expected.value) {
			t.Fatalf("%s: unexpected record on read #%d. Want: %s=%s, got: %s=%s",
				testName, i, expected.key, expected.value, key, value)
		}
	}

	err := reader.SeekToFirst()
	if err != nil {
		t.Fatalf("%s: SeekToFirst unexpectedly failed: %s", testName, err)
	}
	key, _, err := reader.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(key, entries[0].key) {
		t.Fatalf("%s: unexpected key after SeekToFirst. Want: %s, got: %s",
			testName, entries[0].key, key)
	}
}

func TestReaderConcurrentReads(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderConcurrentReads", testReaderConcurrentReads)
}

func testReaderConcurrentReads(t *testing.T, dbType string, source string, testName string) {
	const (
		recordCount = 10
		workers     = 8
		readsEach   = 50
	)
	entries := populateDatabaseForTest(t, dbType, source, testName, recordCount)
	expectedValues := make(map[string]string, recordCount)
	for _, entry := range entries {
		expectedValues[string(entry.key)] = string(entry.value)
	}

	reader := openReaderForTest(t, dbType, source, testName)
	defer closeReaderForTest(t, reader, testName)

	counts := make(map[string]int)
	var countsLock sync.Mutex
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < readsEach; j++ {
				key, value, err := reader.Read()
				if err != nil {
					errs <- err
					return
				}
				if expectedValues[string(key)] != string(value) {
					errs <- errors.Errorf("key %s was read with value %s", key, value)
					return
				}
				countsLock.Lock()
				counts[string(key)]++
				countsLock.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("%s: concurrent Read unexpectedly failed: %s", testName, err)
	}

	// The total number of reads is a multiple of the number of records,
	// so every record was read the same number of times.
	expectedCount := workers * readsEach / recordCount
	if len(counts) != recordCount {
		t.Fatalf("%s: unexpected number of distinct keys. Want: %d, got: %d",
			testName, recordCount, len(counts))
	}
	for key, count := range counts {
		if count != expectedCount {
			t.Fatalf("%s: key %s was read %d times, expected %d",
				testName, key, count, expectedCount)
		}
	}
}

func TestReaderEmptyDatabase(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderEmptyDatabase", testReaderEmptyDatabase)
}

func testReaderEmptyDatabase(t *testing.T, dbType string, source string, testName string) {
	populateDatabaseForTest(t, dbType, source, testName, 0)

	reader := openReaderForTest(t, dbType, source, testName)

	_, _, err := reader.Read()
	if !db.IsNoRecordsError(err) {
		t.Fatalf("%s: Read returned unexpected error: %v", testName, err)
	}

	// With no record under the cursor, the descriptor carries no key and
	// restoring it works on every backend.
	descriptor := reader.Descriptor()
	if descriptor.HasKey {
		t.Fatalf("%s: descriptor unexpectedly has a key: %s", testName, spew.Sdump(descriptor))
	}
	closeReaderForTest(t, reader, testName)

	deserialized, err := db.DeserializeReaderDescriptor(serializeDescriptorForTest(t, descriptor, testName))
	if err != nil {
		t.Fatalf("%s: DeserializeReaderDescriptor unexpectedly failed: %s", testName, err)
	}
	restored, err := db.NewReaderFromDescriptor(deserialized)
	if err != nil {
		t.Fatalf("%s: NewReaderFromDescriptor unexpectedly failed: %s", testName, err)
	}
	closeReaderForTest(t, restored, testName)
}

func TestReaderDescriptorRoundTrip(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderDescriptorRoundTrip", testReaderDescriptorRoundTrip)
}

func testReaderDescriptorRoundTrip(t *testing.T, dbType string, source string, testName string) {
	const readsBeforeSave = 3
	entries := populateDatabaseForTest(t, dbType, source, testName, 10)

	reader := openReaderForTest(t, dbType, source, testName)
	for i := 0; i < readsBeforeSave; i++ {
		_, _, err := reader.Read()
		if err != nil {
			t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
		}
	}
	descriptor := reader.Descriptor()
	closeReaderForTest(t, reader, testName)

	expectedDescriptor := &db.ReaderDescriptor{
		DBType: dbType,
		Source: source,
		Key:    entries[readsBeforeSave].key,
		HasKey: true,
	}
	if !reflect.DeepEqual(descriptor, expectedDescriptor) {
		t.Fatalf("%s: unexpected descriptor. Want: %s, got: %s",
			testName, spew.Sdump(expectedDescriptor), spew.Sdump(descriptor))
	}

	deserialized, err := db.DeserializeReaderDescriptor(serializeDescriptorForTest(t, descriptor, testName))
	if err != nil {
		t.Fatalf("%s: DeserializeReaderDescriptor unexpectedly failed: %s", testName, err)
	}
	if !reflect.DeepEqual(deserialized, descriptor) {
		t.Fatalf("%s: descriptor changed in a round trip. Want: %s, got: %s",
			testName, spew.Sdump(descriptor), spew.Sdump(deserialized))
	}

	restored, err := db.NewReaderFromDescriptor(deserialized)
	if !seekableTypes[dbType] {
		if !db.IsSeekNotSupportedError(err) {
			t.Fatalf("%s: NewReaderFromDescriptor returned unexpected error: %v", testName, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s: NewReaderFromDescriptor unexpectedly failed: %s", testName, err)
	}
	defer closeReaderForTest(t, restored, testName)

	key, value, err := restored.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	expected := entries[readsBeforeSave]
	if !bytes.Equal(key, expected.key) || !bytes.Equal(value, expected.value) {
		t.Fatalf("%s: restored reader is at the wrong record. Want: %s=%s, got: %s=%s",
			testName, expected.key, expected.value, key, value)
	}
}

func serializeDescriptorForTest(t *testing.T, descriptor *db.ReaderDescriptor, testName string) []byte {
	serialized, err := descriptor.Serialize()
	if err != nil {
		t.Fatalf("%s: Serialize unexpectedly failed: %s", testName, err)
	}
	return serialized
}

func TestReaderDescriptorPastLastRecord(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderDescriptorPastLastRecord", testReaderDescriptorPastLastRecord)
}

func testReaderDescriptorPastLastRecord(t *testing.T, dbType string, source string, testName string) {
	if !seekableTypes[dbType] {
		return
	}
	entries := populateDatabaseForTest(t, dbType, source, testName, 5)

	reader := openReaderForTest(t, dbType, source, testName)
	err := reader.Seek([]byte("zzz"))
	if err != nil {
		t.Fatalf("%s: Seek unexpectedly failed: %s", testName, err)
	}
	descriptor := reader.Descriptor()
	closeReaderForTest(t, reader, testName)

	expectedDescriptor := &db.ReaderDescriptor{DBType: dbType, Source: source}
	if !reflect.DeepEqual(descriptor, expectedDescriptor) {
		t.Fatalf("%s: unexpected descriptor past the last record. Want: %s, got: %s",
			testName, spew.Sdump(expectedDescriptor), spew.Sdump(descriptor))
	}

	deserialized, err := db.DeserializeReaderDescriptor(serializeDescriptorForTest(t, descriptor, testName))
	if err != nil {
		t.Fatalf("%s: DeserializeReaderDescriptor unexpectedly failed: %s", testName, err)
	}
	if deserialized.HasKey {
		t.Fatalf("%s: deserialized descriptor unexpectedly has a key: %s", testName, spew.Sdump(deserialized))
	}

	restored, err := db.NewReaderFromDescriptor(deserialized)
	if err != nil {
		t.Fatalf("%s: NewReaderFromDescriptor unexpectedly failed: %s", testName, err)
	}
	defer closeReaderForTest(t, restored, testName)
	key, value, err := restored.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(key, entries[0].key) || !bytes.Equal(value, entries[0].value) {
		t.Fatalf("%s: restored Reader did not start from the first record. Want: %s, got: %s",
			testName, entries[0].key, key)
	}
}

func TestReaderSeek(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderSeek", testReaderSeek)
}

func testReaderSeek(t *testing.T, dbType string, source string, testName string) {
	populateDatabaseForTest(t, dbType, source, testName, 10)

	reader := openReaderForTest(t, dbType, source, testName)
	defer closeReaderForTest(t, reader, testName)

	err := reader.Seek([]byte("key007"))
	if !seekableTypes[dbType] {
		if !db.IsSeekNotSupportedError(err) {
			t.Fatalf("%s: Seek returned unexpected error: %v", testName, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s: Seek unexpectedly failed: %s", testName, err)
	}
	key, _, err := reader.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	if string(key) != "key007" {
		t.Fatalf("%s: unexpected key after Seek. Want: key007, got: %s", testName, key)
	}

	// Seeking past the last key wraps around on the next Read.
	err = reader.Seek([]byte("zzz"))
	if err != nil {
		t.Fatalf("%s: Seek unexpectedly failed: %s", testName, err)
	}
	key, _, err = reader.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	if string(key) != "key000" {
		t.Fatalf("%s: unexpected key after a Seek past the end. Want: key000, got: %s", testName, key)
	}
}

func TestReaderBlobSerialization(t *testing.T) {
	testForAllDatabaseTypes(t, "TestReaderBlobSerialization", testReaderBlobSerialization)
}

func testReaderBlobSerialization(t *testing.T, dbType string, source string, testName string) {
	entries := populateDatabaseForTest(t, dbType, source, testName, 4)

	reader := openReaderForTest(t, dbType, source, testName)
	_, _, err := reader.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	readerBlob := blob.New(reader)
	serialized, err := blob.SerializeToBytes(readerBlob, "reader")
	if err != nil {
		t.Fatalf("%s: SerializeToBytes unexpectedly failed: %s", testName, err)
	}
	err = readerBlob.Reset()
	if err != nil {
		t.Fatalf("%s: Reset unexpectedly failed: %s", testName, err)
	}
	if reader.IsOpen() {
		t.Fatalf("%s: Reset did not close the reader", testName)
	}

	proto, err := blob.DeserializeBlobProto(serialized)
	if err != nil {
		t.Fatalf("%s: DeserializeBlobProto unexpectedly failed: %s", testName, err)
	}
	if proto.Name != "reader" || proto.Type != db.ReaderBlobTypeName {
		t.Fatalf("%s: unexpected blob proto: %s", testName, spew.Sdump(proto))
	}
	descriptor, err := db.DeserializeReaderDescriptor(proto.Content)
	if err != nil {
		t.Fatalf("%s: DeserializeReaderDescriptor unexpectedly failed: %s", testName, err)
	}
	if descriptor.Name != "reader" || !bytes.Equal(descriptor.Key, entries[1].key) {
		t.Fatalf("%s: unexpected descriptor: %s", testName, spew.Sdump(descriptor))
	}

	restoredBlob := blob.New("previous value")
	err = blob.Deserialize(proto, restoredBlob)
	if !seekableTypes[dbType] {
		if !db.IsSeekNotSupportedError(err) {
			t.Fatalf("%s: Deserialize returned unexpected error: %v", testName, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s: Deserialize unexpectedly failed: %s", testName, err)
	}
	restored, ok := restoredBlob.Get().(*db.Reader)
	if !ok {
		t.Fatalf("%s: restored blob holds %s", testName, restoredBlob.TypeName())
	}
	defer closeReaderForTest(t, restored, testName)

	key, _, err := restored.Read()
	if err != nil {
		t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(key, entries[1].key) {
		t.Fatalf("%s: restored reader is at the wrong record. Want: %s, got: %s",
			testName, entries[1].key, key)
	}
}

func TestReaderSerializerRejectsOtherValues(t *testing.T) {
	err := db.ReaderSerializer{}.Serialize(blob.New("not a reader"), "name",
		func(string, []byte) error { return nil })
	if !errors.Is(err, db.ErrNotAReader) {
		t.Fatalf("TestReaderSerializerRejectsOtherValues: unexpected error: %v", err)
	}
}

func TestReaderSerializerRejectsClosedReader(t *testing.T) {
	testName := "TestReaderSerializerRejectsClosedReader"
	source := memory.NewSource()
	defer memory.Drop(source)
	populateDatabaseForTest(t, memory.DBType, source, testName, 2)

	reader := openReaderForTest(t, memory.DBType, source, testName)
	closeReaderForTest(t, reader, testName)

	accepted := false
	err := db.ReaderSerializer{}.Serialize(blob.New(reader), "reader",
		func(string, []byte) error {
			accepted = true
			return nil
		})
	if !errors.Is(err, db.ErrReaderNotOpen) {
		t.Fatalf("%s: unexpected error: %v", testName, err)
	}
	if accepted {
		t.Fatalf("%s: acceptor was called for a closed Reader", testName)
	}

	_, err = blob.SerializeToBytes(blob.New(&db.Reader{}), "zero")
	if !errors.Is(err, db.ErrReaderNotOpen) {
		t.Fatalf("%s: unexpected error for a zero Reader: %v", testName, err)
	}
}

func TestReaderAccessorsWhileReopening(t *testing.T) {
	testName := "TestReaderAccessorsWhileReopening"
	sources := []string{memory.NewSource(), memory.NewSource()}
	for _, source := range sources {
		defer memory.Drop(source)
		populateDatabaseForTest(t, memory.DBType, source, testName, 2)
	}

	reader := openReaderForTest(t, memory.DBType, sources[0], testName)
	defer closeReaderForTest(t, reader, testName)

	const reopens = 50
	done := make(chan error, 1)
	go func() {
		for i := 0; i < reopens; i++ {
			err := reader.Open(memory.DBType, sources[i%2])
			if err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i := 0; i < reopens; i++ {
		source := reader.Source()
		if source != sources[0] && source != sources[1] {
			t.Fatalf("%s: unexpected source %s", testName, source)
		}
		if reader.DBType() != memory.DBType {
			t.Fatalf("%s: unexpected db type %s", testName, reader.DBType())
		}
	}
	err := <-done
	if err != nil {
		t.Fatalf("%s: Open unexpectedly failed: %s", testName, err)
	}
}

func TestReaderUnknownBackend(t *testing.T) {
	_, err := db.NewReader("no-such-backend", "source")
	if !db.IsCannotOpenError(err) {
		t.Fatalf("TestReaderUnknownBackend: error is not ErrCannotOpen: %v", err)
	}
	if !db.IsBackendNotFoundError(err) {
		t.Fatalf("TestReaderUnknownBackend: error is not ErrBackendNotFound: %v", err)
	}
}

func TestReaderNotOpen(t *testing.T) {
	reader := &db.Reader{}
	if reader.IsOpen() {
		t.Fatalf("TestReaderNotOpen: a zero Reader is open")
	}
	err := reader.Close()
	if err != nil {
		t.Fatalf("TestReaderNotOpen: Close unexpectedly failed: %s", err)
	}

	testName := "TestReaderNotOpen"
	expectPanic(t, testName, "Read", func() { reader.Read() })
	expectPanic(t, testName, "SeekToFirst", func() { reader.SeekToFirst() })
	expectPanic(t, testName, "Seek", func() { reader.Seek([]byte("key")) })
	expectPanic(t, testName, "Descriptor", func() { reader.Descriptor() })
}

func TestReaderFailedOpenLeavesReaderClosed(t *testing.T) {
	testName := "TestReaderFailedOpenLeavesReaderClosed"
	source := memory.NewSource()
	defer memory.Drop(source)
	populateDatabaseForTest(t, memory.DBType, source, testName, 2)

	reader := openReaderForTest(t, memory.DBType, source, testName)
	err := reader.Open(memory.DBType, memory.NewSource())
	if !db.IsCannotOpenError(err) {
		t.Fatalf("%s: Open returned unexpected error: %v", testName, err)
	}
	if reader.IsOpen() {
		t.Fatalf("%s: reader is open after a failed Open", testName)
	}

	err = reader.Open(memory.DBType, source)
	if err != nil {
		t.Fatalf("%s: Open unexpectedly failed: %s", testName, err)
	}
	defer closeReaderForTest(t, reader, testName)
	if reader.DBType() != memory.DBType || reader.Source() != source {
		t.Fatalf("%s: unexpected type and source %s, %s", testName, reader.DBType(), reader.Source())
	}
}

func TestNewReaderFromDatabase(t *testing.T) {
	testName := "TestNewReaderFromDatabase"
	_, err := db.NewReaderFromDatabase(nil)
	if err == nil {
		t.Fatalf("%s: NewReaderFromDatabase unexpectedly accepted a nil database", testName)
	}

	source := memory.NewSource()
	defer memory.Drop(source)
	populateDatabaseForTest(t, memory.DBType, source, testName, 3)

	database, err := db.Create(memory.DBType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly failed: %s", testName, err)
	}
	reader, err := db.NewReaderFromDatabase(database)
	if err != nil {
		t.Fatalf("%s: NewReaderFromDatabase unexpectedly failed: %s", testName, err)
	}
	defer closeReaderForTest(t, reader, testName)

	descriptor := reader.Descriptor()
	if descriptor.DBType != db.MemoryDBType || descriptor.Source != db.MemorySource {
		t.Fatalf("%s: unexpected descriptor: %s", testName, spew.Sdump(descriptor))
	}
	for i := 0; i < 4; i++ {
		key, _, err := reader.Read()
		if err != nil {
			t.Fatalf("%s: Read unexpectedly failed: %s", testName, err)
		}
		expectedKey := fmt.Sprintf("key%03d", i%3)
		if string(key) != expectedKey {
			t.Fatalf("%s: unexpected key. Want: %s, got: %s", testName, expectedKey, key)
		}
	}
}
