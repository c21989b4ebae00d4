package db_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kaspanet/blobdb/db"
	_ "github.com/kaspanet/blobdb/db/backends/all"
	"github.com/kaspanet/blobdb/db/backends/memory"
)

type databasePrepareFunc func(t *testing.T, testName string) (dbType string, source string, teardownFunc func())

// databasePrepareFuncs is a set of functions, in which each function
// prepares a source for a separate database type for testing.
// See testForAllDatabaseTypes for further details.
var databasePrepareFuncs = []databasePrepareFunc{
	prepareDirectoryForTest("leveldb"),
	prepareDirectoryForTest("pebble"),
	prepareDirectoryForTest("flatfile"),
	prepareBoltForTest,
	prepareMemoryForTest,
}

// seekableTypes are the database types whose cursors support Seek.
var seekableTypes = map[string]bool{
	"leveldb": true,
	"pebble":  true,
	"bolt":    true,
	"memory":  true,
}

func prepareDirectoryForTest(dbType string) databasePrepareFunc {
	return func(t *testing.T, testName string) (string, string, func()) {
		path, err := os.MkdirTemp("", dbType)
		if err != nil {
			t.Fatalf("%s: MkdirTemp unexpectedly "+
				"failed: %s", testName, err)
		}
		teardownFunc := func() {
			err := os.RemoveAll(path)
			if err != nil {
				t.Fatalf("%s: RemoveAll unexpectedly "+
					"failed: %s", testName, err)
			}
		}
		return dbType, filepath.Join(path, "db"), teardownFunc
	}
}

func prepareBoltForTest(t *testing.T, testName string) (string, string, func()) {
	dbType, path, teardownFunc := prepareDirectoryForTest("bolt")(t, testName)
	return dbType, path + ".bolt", teardownFunc
}

func prepareMemoryForTest(t *testing.T, testName string) (string, string, func()) {
	source := memory.NewSource()
	return "memory", source, func() { memory.Drop(source) }
}

// testForAllDatabaseTypes runs the given testFunc for every database
// type defined in databasePrepareFuncs. This is to make sure that
// all supported database types adhere to the assumptions defined in
// the interfaces in this package.
func testForAllDatabaseTypes(t *testing.T, testName string,
	testFunc func(t *testing.T, dbType string, source string, testName string)) {

	for _, prepareDatabase := range databasePrepareFuncs {
		func() {
			dbType, source, teardownFunc := prepareDatabase(t, testName)
			defer teardownFunc()

			testName := fmt.Sprintf("%s: %s", dbType, testName)
			testFunc(t, dbType, source, testName)
		}()
	}
}

type keyValuePair struct {
	key   []byte
	value []byte
}

// makeEntries returns count key/value pairs whose keys sort in the order
// they are returned, so that sorted and insertion ordered backends visit
// them identically.
func makeEntries(count int) []keyValuePair {
	entries := make([]keyValuePair, count)
	for i := 0; i < count; i++ {
		entries[i] = keyValuePair{
			key:   []byte(fmt.Sprintf("key%03d", i)),
			value: []byte(fmt.Sprintf("value%d", i)),
		}
	}
	return entries
}

// populateDatabaseForTest creates a new database at source holding count
// entries, and closes it.
func populateDatabaseForTest(t *testing.T, dbType string, source string, testName string,
	count int) []keyValuePair {

	entries := makeEntries(count)

	database, err := db.Create(dbType, source, db.ModeNew)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly "+
			"failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	tx, err := database.NewTransaction()
	if err != nil {
		t.Fatalf("%s: NewTransaction unexpectedly "+
			"failed: %s", testName, err)
	}
	for _, entry := range entries {
		err := tx.Put(entry.key, entry.value)
		if err != nil {
			t.Fatalf("%s: Put unexpectedly "+
				"failed: %s", testName, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		t.Fatalf("%s: Commit unexpectedly "+
			"failed: %s", testName, err)
	}
	err = tx.Close()
	if err != nil {
		t.Fatalf("%s: Close unexpectedly "+
			"failed: %s", testName, err)
	}
	return entries
}

func closeDatabaseForTest(t *testing.T, database db.Database, testName string) {
	err := database.Close()
	if err != nil {
		t.Fatalf("%s: Close unexpectedly "+
			"failed: %s", testName, err)
	}
}

// collectEntries walks cursor from its current position to the end.
func collectEntries(t *testing.T, cursor db.Cursor, testName string) []keyValuePair {
	var entries []keyValuePair
	for cursor.Valid() {
		entries = append(entries, keyValuePair{key: cursor.Key(), value: cursor.Value()})
		err := cursor.Next()
		if err != nil {
			t.Fatalf("%s: Next unexpectedly "+
				"failed: %s", testName, err)
		}
	}
	return entries
}

// readAllForTest opens source in ModeRead and returns all its entries.
func readAllForTest(t *testing.T, dbType string, source string, testName string) []keyValuePair {
	database, err := db.Create(dbType, source, db.ModeRead)
	if err != nil {
		t.Fatalf("%s: Create unexpectedly "+
			"failed: %s", testName, err)
	}
	defer closeDatabaseForTest(t, database, testName)

	cursor, err := database.NewCursor()
	if err != nil {
		t.Fatalf("%s: NewCursor unexpectedly "+
			"failed: %s", testName, err)
	}
	defer cursor.Close()

	return collectEntries(t, cursor, testName)
}

func expectPanic(t *testing.T, testName string, operation string, f func()) {
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: %s did not panic", testName, operation)
		}
	}()
	f()
}
