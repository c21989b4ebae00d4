package main

import (
	"bytes"
	"fmt"

	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

func get(conf *getConfig) error {
	database, err := openDatabase(&conf.DatabaseFlags, db.ModeRead)
	if err != nil {
		return err
	}
	cursor, err := database.NewCursor()
	if err != nil {
		closeDatabase(database, nil)
		return err
	}
	defer closeDatabase(database, cursor)

	value, found, err := findKey(cursor, []byte(conf.Key))
	if err != nil {
		return err
	}
	if !found {
		return errors.Errorf("key %s was not found in %s", conf.Key, conf.Path())
	}
	fmt.Println(formatValue(value))
	return nil
}

// findKey seeks to key when cursor supports it, and scans from the first
// record otherwise.
func findKey(cursor db.Cursor, key []byte) (value []byte, found bool, err error) {
	if db.SeekSupported(cursor) {
		err := cursor.Seek(key)
		if err != nil {
			return nil, false, err
		}
		if cursor.Valid() && bytes.Equal(cursor.Key(), key) {
			return cursor.Value(), true, nil
		}
		return nil, false, nil
	}

	// Later records overwrite earlier ones with the same key.
	for cursor.Valid() {
		if bytes.Equal(cursor.Key(), key) {
			value = cursor.Value()
			found = true
		}
		err := cursor.Next()
		if err != nil {
			return nil, false, err
		}
	}
	return value, found, nil
}
