package flatfile

import (
	"github.com/kaspanet/blobdb/infrastructure/logger"
)

var log = logger.RegisterSubSystem("FFDB")
