package bolt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

func TestBoltRejectsEmptyKey(t *testing.T) {
	dir, err := os.MkdirTemp("", "TestBoltRejectsEmptyKey")
	if err != nil {
		t.Fatalf("TestBoltRejectsEmptyKey: MkdirTemp unexpectedly failed: %s", err)
	}
	defer os.RemoveAll(dir)

	bdb, err := NewBoltDB(filepath.Join(dir, "nested", "db.bolt"), db.ModeNew)
	if err != nil {
		t.Fatalf("TestBoltRejectsEmptyKey: NewBoltDB unexpectedly failed: %s", err)
	}
	defer bdb.Close()

	tx, err := bdb.NewTransaction()
	if err != nil {
		t.Fatalf("TestBoltRejectsEmptyKey: NewTransaction unexpectedly failed: %s", err)
	}
	defer tx.Close()

	err = tx.Put([]byte{}, []byte("value"))
	if !errors.Is(err, bbolt.ErrKeyRequired) {
		t.Fatalf("TestBoltRejectsEmptyKey: Put returned unexpected error: %v", err)
	}
}

func TestBoltEmptyValue(t *testing.T) {
	dir, err := os.MkdirTemp("", "TestBoltEmptyValue")
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: MkdirTemp unexpectedly failed: %s", err)
	}
	defer os.RemoveAll(dir)
	source := filepath.Join(dir, "db.bolt")

	bdb, err := NewBoltDB(source, db.ModeNew)
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: NewBoltDB unexpectedly failed: %s", err)
	}
	tx, err := bdb.NewTransaction()
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: NewTransaction unexpectedly failed: %s", err)
	}
	err = tx.Put([]byte("key"), nil)
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: Put unexpectedly failed: %s", err)
	}
	err = tx.Commit()
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: Commit unexpectedly failed: %s", err)
	}
	tx.Close()
	err = bdb.Close()
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: Close unexpectedly failed: %s", err)
	}

	bdb, err = NewBoltDB(source, db.ModeRead)
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: NewBoltDB unexpectedly failed: %s", err)
	}
	defer bdb.Close()
	cursor, err := bdb.NewCursor()
	if err != nil {
		t.Fatalf("TestBoltEmptyValue: NewCursor unexpectedly failed: %s", err)
	}
	defer cursor.Close()
	if !cursor.Valid() {
		t.Fatalf("TestBoltEmptyValue: a key with an empty value is not visible")
	}
	if value := cursor.Value(); value == nil || len(value) != 0 {
		t.Fatalf("TestBoltEmptyValue: unexpected value %v", value)
	}
}
