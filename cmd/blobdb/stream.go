package main

import (
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/util/profiling"
)

func stream(conf *streamConfig) error {
	if conf.Profile != "" {
		profiling.Start(conf.Profile, log)
	}

	reader, err := db.NewReader(conf.DBType, conf.Path())
	if err != nil {
		return err
	}
	defer func() {
		err := reader.Close()
		if err != nil {
			log.Warnf("Error closing reader: %s", err)
		}
	}()

	counts, err := readConcurrently(reader, conf.Workers, conf.Reads)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s: %d\n", key, counts[key])
	}

	if conf.Descriptor {
		serialized, err := reader.Descriptor().Serialize()
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(serialized))
	}
	return nil
}

// readConcurrently has workers goroutines each call reader.Read reads times,
// and returns how many times every key was read. It returns the first error
// any worker got.
func readConcurrently(reader *db.Reader, workers int, reads int) (map[string]int, error) {
	counts := make(map[string]int)
	var firstErr error
	var lock sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		spawn(fmt.Sprintf("readConcurrently-worker-%d", i), func() {
			defer wg.Done()
			workerCounts := make(map[string]int)
			for j := 0; j < reads; j++ {
				key, _, err := reader.Read()
				if err != nil {
					lock.Lock()
					if firstErr == nil {
						firstErr = err
					}
					lock.Unlock()
					return
				}
				workerCounts[string(key)]++
			}

			lock.Lock()
			defer lock.Unlock()
			for key, keyCount := range workerCounts {
				counts[key] += keyCount
			}
		})
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	log.Infof("Read %d records from %s with %d workers", workers*reads, reader.Source(), workers)
	return counts, nil
}
