package main

import (
	"fmt"

	"github.com/kaspanet/blobdb/db"
)

func count(conf *countConfig) error {
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

	records, err := countRecords(cursor)
	if err != nil {
		return err
	}
	fmt.Println(records)
	return nil
}

func countRecords(cursor db.Cursor) (int, error) {
	records := 0
	for cursor.Valid() {
		records++
		err := cursor.Next()
		if err != nil {
			return 0, err
		}
	}
	return records, nil
}
