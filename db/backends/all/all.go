// Package all registers every database backend of this module with the
// default registry.
package all

import (
	// Blank imports register each backend from its init function.
	_ "github.com/kaspanet/blobdb/db/backends/bolt"
	_ "github.com/kaspanet/blobdb/db/backends/flatfile"
	_ "github.com/kaspanet/blobdb/db/backends/leveldb"
	_ "github.com/kaspanet/blobdb/db/backends/memory"
	_ "github.com/kaspanet/blobdb/db/backends/pebble"
)
