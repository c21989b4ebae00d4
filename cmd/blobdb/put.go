package main

import (
	"strings"

	"github.com/kaspanet/blobdb/blob"
	"github.com/kaspanet/blobdb/db"
	"github.com/pkg/errors"
)

func put(conf *putConfig) error {
	keys := make([][]byte, 0, len(conf.Args.Records))
	values := make([][]byte, 0, len(conf.Args.Records))
	for _, record := range conf.Args.Records {
		separator := strings.IndexByte(record, '=')
		if separator < 0 {
			return errors.Errorf("record %q is not of the form key=value", record)
		}
		key, value := record[:separator], record[separator+1:]
		serializedValue := []byte(value)
		if !conf.Raw {
			var err error
			serializedValue, err = blob.SerializeToBytes(blob.New(value), key)
			if err != nil {
				return err
			}
		}
		keys = append(keys, []byte(key))
		values = append(values, serializedValue)
	}

	mode := db.ModeWrite
	if conf.New {
		mode = db.ModeNew
	}
	database, err := openDatabase(&conf.DatabaseFlags, mode)
	if err != nil {
		return err
	}
	defer closeDatabase(database, nil)

	tx, err := database.NewTransaction()
	if err != nil {
		return err
	}
	defer tx.Close()

	for i := range keys {
		err := tx.Put(keys[i], values[i])
		if err != nil {
			return errors.Wrapf(err, "error writing key %s", keys[i])
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	log.Infof("Wrote %d records to %s", len(keys), conf.Path())
	return nil
}
