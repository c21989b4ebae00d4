package db_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/blobdb/db"
)

func TestCursorIteration(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorIteration", testCursorIteration)
}

func testCursorIteration(t *testing.T, dbType string, source string, testName string) {
	entries := populateDatabaseForTest(t, dbType, source, testName, 10)

	collected := readAllForTest(t, dbType, source, testName)
	if !reflect.DeepEqual(collected, entries) {
		t.Fatalf("%s: unexpected entries. Want: %s, got: %s",
			testName, spew.Sdump(entries), spew.Sdump(collected))
	}
}

func TestCursorSeekToFirst(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorSeekToFirst", testCursorSeekToFirst)
}

func testCursorSeekToFirst(t *testing.T, dbType string, source string, testName string) {
	entries := populateDatabaseForTest(t, dbType, source, testName, 3)

	database, err := db.Create(dbType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	cursor, err := database.NewCursor()
	if err != nil {
		t.Fatalf("%s: NewCursor unexpectedly failed: %s", testName, err)
	}
	defer cursor.Close()

	// Walk past the end, then go back
	collectEntries(t, cursor, testName)
	if cursor.Valid() {
		t.Fatalf("%s: cursor is unexpectedly valid past the end", testName)
	}
	err = cursor.Next()
	if err != nil {
		t.Fatalf("%s: Next past the end unexpectedly failed: %s", testName, err)
	}
	if cursor.Key() != nil || cursor.Value() != nil {
		t.Fatalf("%s: an invalid cursor returned a key or value", testName)
	}

	err = cursor.SeekToFirst()
	if err != nil {
		t.Fatalf("%s: SeekToFirst unexpectedly failed: %s", testName, err)
	}
	if !cursor.Valid() {
		t.Fatalf("%s: cursor is unexpectedly invalid after SeekToFirst", testName)
	}
	if !bytes.Equal(cursor.Key(), entries[0].key) {
		t.Fatalf("%s: unexpected key after SeekToFirst. Want: %s, got: %s",
			testName, entries[0].key, cursor.Key())
	}
}

func TestCursorSeek(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorSeek", testCursorSeek)
}

func testCursorSeek(t *testing.T, dbType string, source string, testName string) {
	populateDatabaseForTest(t, dbType, source, testName, 10)

	database, err := db.Create(dbType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	cursor, err := database.NewCursor()
	if err != nil {
		t.Fatalf("%s: NewCursor unexpectedly failed: %s", testName, err)
	}
	defer cursor.Close()

	if cursor.SupportsSeek() != seekableTypes[dbType] {
		t.Fatalf("%s: unexpected SupportsSeek. Want: %t, got: %t",
			testName, seekableTypes[dbType], cursor.SupportsSeek())
	}
	if db.SeekSupported(cursor) != cursor.SupportsSeek() {
		t.Fatalf("%s: SeekSupported disagrees with SupportsSeek", testName)
	}

	if !cursor.SupportsSeek() {
		err := cursor.Seek([]byte("key005"))
		if !db.IsSeekNotSupportedError(err) {
			t.Fatalf("%s: Seek returned unexpected error: %v", testName, err)
		}
		return
	}

	tests := []struct {
		seekKey     string
		expectedKey string
		valid       bool
	}{
		{seekKey: "key005", expectedKey: "key005", valid: true},
		{seekKey: "key0055", expectedKey: "key006", valid: true},
		{seekKey: "a", expectedKey: "key000", valid: true},
		{seekKey: "key009", expectedKey: "key009", valid: true},
		{seekKey: "key010", valid: false},
		{seekKey: "zzz", valid: false},
	}
	for _, test := range tests {
		err := cursor.Seek([]byte(test.seekKey))
		if err != nil {
			t.Fatalf("%s: Seek(%s) unexpectedly failed: %s", testName, test.seekKey, err)
		}
		if cursor.Valid() != test.valid {
			t.Fatalf("%s: unexpected validity after Seek(%s). Want: %t, got: %t",
				testName, test.seekKey, test.valid, cursor.Valid())
		}
		if test.valid && string(cursor.Key()) != test.expectedKey {
			t.Fatalf("%s: unexpected key after Seek(%s). Want: %s, got: %s",
				testName, test.seekKey, test.expectedKey, cursor.Key())
		}
	}
}

func TestCursorKeyIsCopy(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorKeyIsCopy", testCursorKeyIsCopy)
}

func testCursorKeyIsCopy(t *testing.T, dbType string, source string, testName string) {
	populateDatabaseForTest(t, dbType, source, testName, 2)

	database, err := db.Create(dbType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	cursor, err := database.NewCursor()
	if err != nil {
		t.Fatalf("%s: NewCursor unexpectedly failed: %s", testName, err)
	}
	defer cursor.Close()

	key := cursor.Key()
	key[0] = 'X'
	if cursor.Key()[0] == 'X' {
		t.Fatalf("%s: modifying a returned key modified the cursor", testName)
	}

	value := cursor.Value()
	err = cursor.Next()
	if err != nil {
		t.Fatalf("%s: Next unexpectedly failed: %s", testName, err)
	}
	if string(value) != "value0" {
		t.Fatalf("%s: a returned value changed after Next: %s", testName, value)
	}
}

func TestCursorClosed(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorClosed", testCursorClosed)
}

func testCursorClosed(t *testing.T, dbType string, source string, testName string) {
	populateDatabaseForTest(t, dbType, source, testName, 2)

	database, err := db.Create(dbType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	cursor, err := database.NewCursor()
	if err != nil {
		t.Fatalf("%s: NewCursor unexpectedly failed: %s", testName, err)
	}
	err = cursor.Close()
	if err != nil {
		t.Fatalf("%s: Close unexpectedly failed: %s", testName, err)
	}
	err = cursor.Close()
	if err != nil {
		t.Fatalf("%s: second Close unexpectedly failed: %s", testName, err)
	}
	if cursor.Valid() {
		t.Fatalf("%s: a closed cursor is valid", testName)
	}
	err = cursor.Next()
	if !db.IsClosedError(err) {
		t.Fatalf("%s: Next on a closed cursor returned unexpected error: %v", testName, err)
	}
	err = cursor.SeekToFirst()
	if !db.IsClosedError(err) {
		t.Fatalf("%s: SeekToFirst on a closed cursor returned unexpected error: %v", testName, err)
	}
}
