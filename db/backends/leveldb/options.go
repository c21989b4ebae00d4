package leveldb

import "github.com/syndtr/goleveldb/leveldb/opt"

var (
	defaultOptions = opt.Options{
		Compression:            opt.SnappyCompression,
		BlockCacheCapacity:     64 * opt.MiB,
		WriteBuffer:            32 * opt.MiB,
		DisableSeeksCompaction: true,
	}

	// Options is a function that returns a leveldb
	// opt.Options struct for opening a database.
	// It's defined as a variable for the sake of testing.
	Options = func() *opt.Options {
		options := defaultOptions
		return &options
	}

	// syncWrites makes every Commit wait for the write to reach stable
	// storage.
	syncWrites = &opt.WriteOptions{Sync: true}
)
