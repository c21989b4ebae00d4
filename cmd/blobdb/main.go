package main

import (
	_ "github.com/kaspanet/blobdb/db/backends/all"
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/pkg/errors"
)

func main() {
	subCmd, config := parseCommandLine()

	var err error
	switch subCmd {
	case putSubCmd:
		err = put(config.(*putConfig))
	case getSubCmd:
		err = get(config.(*getConfig))
	case dumpSubCmd:
		err = dump(config.(*dumpConfig))
	case countSubCmd:
		err = count(config.(*countConfig))
	case copySubCmd:
		err = copyDatabase(config.(*copyConfig))
	case streamSubCmd:
		err = stream(config.(*streamConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}

	logger.BackendLog.Close()
	if err != nil {
		printErrorAndExit(err)
	}
}
