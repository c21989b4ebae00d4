package main

import (
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/infrastructure/logger"
)

func copyDatabase(conf *copyConfig) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "copyDatabase")
	defer onEnd()

	source, err := openDatabase(&conf.DatabaseFlags, db.ModeRead)
	if err != nil {
		return err
	}
	cursor, err := source.NewCursor()
	if err != nil {
		closeDatabase(source, nil)
		return err
	}
	defer closeDatabase(source, cursor)

	target, err := openDatabase(conf.targetFlags(), db.ModeNew)
	if err != nil {
		return err
	}
	defer closeDatabase(target, nil)

	copied, err := copyRecords(cursor, target)
	if err != nil {
		return err
	}
	targetFlags := conf.targetFlags()
	log.Infof("Copied %d records from %s db %s to %s db %s",
		copied, conf.DBType, conf.Path(), targetFlags.DBType, targetFlags.Path())
	return nil
}

// copyRecords writes every record under cursor to target in a single
// transaction.
func copyRecords(cursor db.Cursor, target db.Database) (int, error) {
	tx, err := target.NewTransaction()
	if err != nil {
		return 0, err
	}
	defer tx.Close()

	copied := 0
	for cursor.Valid() {
		err := tx.Put(cursor.Key(), cursor.Value())
		if err != nil {
			return 0, err
		}
		copied++

		err = cursor.Next()
		if err != nil {
			return 0, err
		}
	}
	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return copied, nil
}
