package main

import (
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/kaspanet/blobdb/util/panics"
)

var log = logger.RegisterSubSystem("CMD_")
var spawn = panics.GoroutineWrapperFunc(log)
