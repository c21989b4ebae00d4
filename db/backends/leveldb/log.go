package leveldb

import (
	"github.com/kaspanet/blobdb/infrastructure/logger"
)

var log = logger.RegisterSubSystem("LDBB")
