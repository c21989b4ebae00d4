package blob

import (
	"github.com/kaspanet/blobdb/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BLOB")
