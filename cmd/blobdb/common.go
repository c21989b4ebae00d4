package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/blobdb/blob"
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/infrastructure/config"
	"github.com/pkg/errors"
)

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func openDatabase(databaseFlags *config.DatabaseFlags, mode db.Mode) (db.Database, error) {
	database, err := db.Create(databaseFlags.DBType, databaseFlags.Path(), mode)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s db at %s", databaseFlags.DBType, databaseFlags.Path())
	}
	log.Debugf("Opened %s db at %s in mode %s", databaseFlags.DBType, databaseFlags.Path(), mode)
	return database, nil
}

func closeDatabase(database db.Database, cursor db.Cursor) {
	if cursor != nil {
		err := cursor.Close()
		if err != nil {
			log.Warnf("Error closing cursor: %s", err)
		}
	}
	err := database.Close()
	if err != nil {
		log.Warnf("Error closing database: %s", err)
	}
}

// decodeValue returns the blob stored in value, or nil if value isn't a
// serialized blob of a known type.
func decodeValue(value []byte) *blob.Blob {
	decoded := &blob.Blob{}
	err := blob.DeserializeFromBytes(value, decoded)
	if err != nil {
		return nil
	}
	return decoded
}

func formatValue(value []byte) string {
	decoded := decodeValue(value)
	if decoded == nil {
		return fmt.Sprintf("%x", value)
	}
	return fmt.Sprintf("%v (%s)", decoded.Get(), decoded.TypeName())
}
