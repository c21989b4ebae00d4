package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

func dump(conf *dumpConfig) error {
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

	if conf.Start != "" {
		if !db.SeekSupported(cursor) {
			return errors.Wrapf(db.ErrSeekNotSupported, "--start can't be used with db type %s", conf.DBType)
		}
		err := cursor.Seek([]byte(conf.Start))
		if err != nil {
			return err
		}
	}

	printed := 0
	for cursor.Valid() {
		if conf.Limit > 0 && printed >= conf.Limit {
			break
		}
		if conf.Verbose {
			decoded := decodeValue(cursor.Value())
			if decoded != nil {
				fmt.Printf("%s:\n%s", cursor.Key(), spew.Sdump(decoded.Get()))
			} else {
				fmt.Printf("%s:\n%s", cursor.Key(), spew.Sdump(cursor.Value()))
			}
		} else {
			fmt.Printf("%s: %s\n", cursor.Key(), formatValue(cursor.Value()))
		}
		printed++

		err := cursor.Next()
		if err != nil {
			return err
		}
	}
	log.Debugf("Printed %d records of %s", printed, conf.Path())
	return nil
}
