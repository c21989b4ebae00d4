package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/blobdb/infrastructure/config"
	"github.com/kaspanet/blobdb/version"
	"github.com/pkg/errors"
)

const (
	defaultStreamWorkers = 4
	defaultStreamReads   = 100
)

const (
	putSubCmd    = "put"
	getSubCmd    = "get"
	dumpSubCmd   = "dump"
	countSubCmd  = "count"
	copySubCmd   = "copy"
	streamSubCmd = "stream"
)

type configFlags struct {
	config.ConfigFileFlags
	config.LogFlags
}

type putConfig struct {
	config.DatabaseFlags
	New  bool `long:"new" description:"Discard the existing content of the database"`
	Raw  bool `long:"raw" description:"Store values as given instead of as serialized string blobs"`
	Args struct {
		Records []string `positional-arg-name:"key=value" required:"1"`
	} `positional-args:"yes"`
}

type getConfig struct {
	config.DatabaseFlags
	Key string `long:"key" short:"k" description:"Key of the record to print" required:"true"`
}

type dumpConfig struct {
	config.DatabaseFlags
	Start   string `long:"start" description:"Start from this key, or the first key after it"`
	Limit   int    `long:"limit" short:"n" description:"Maximum number of records to print, 0 for all"`
	Verbose bool   `long:"verbose" short:"v" description:"Print decoded values in full"`
}

type countConfig struct {
	config.DatabaseFlags
}

type copyConfig struct {
	config.DatabaseFlags
	ToDBType string `long:"to-dbtype" description:"Database backend of the copy (default: same as --dbtype)"`
	ToDB     string `long:"to-db" description:"Path of the copy, resolved like --db" required:"true"`
}

type streamConfig struct {
	config.DatabaseFlags
	Workers    int    `long:"workers" short:"w" description:"Number of goroutines sharing one reader (default: 4)"`
	Reads      int    `long:"reads" short:"r" description:"Number of records each worker reads (default: 100)"`
	Profile    string `long:"profile" description:"Enable HTTP profiling on given port"`
	Descriptor bool   `long:"descriptor" description:"Print the serialized reader descriptor when done"`
}

func parseCommandLine() (subCommand string, subCommandConfig interface{}) {
	preCfg, err := config.PreParse(os.Args[1:])
	if err != nil {
		printErrorAndExit(err)
	}
	if preCfg.ShowVersion {
		fmt.Println(version.Full())
		os.Exit(0)
	}

	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	putConf := &putConfig{}
	parser.AddCommand(putSubCmd, "Writes records to a database",
		"Writes key=value records to a database in a single transaction", putConf)

	getConf := &getConfig{}
	parser.AddCommand(getSubCmd, "Prints one record",
		"Prints the value stored under a key, decoding it if it's a serialized blob", getConf)

	dumpConf := &dumpConfig{}
	parser.AddCommand(dumpSubCmd, "Prints the records of a database",
		"Prints the records of a database in cursor order", dumpConf)

	countConf := &countConfig{}
	parser.AddCommand(countSubCmd, "Counts the records of a database",
		"Counts the records of a database", countConf)

	copyConf := &copyConfig{}
	parser.AddCommand(copySubCmd, "Copies a database",
		"Copies every record of a database into a new one, possibly of another backend", copyConf)

	streamConf := &streamConfig{}
	parser.AddCommand(streamSubCmd, "Reads a database cyclically from several goroutines",
		"Shares one cyclic reader between several goroutines and reports how often each key was read", streamConf)

	err = config.LoadConfigFile(parser, preCfg.ConfigFile, true)
	if err != nil {
		printErrorAndExit(err)
	}

	_, err = parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
		return "", nil
	}

	err = cfg.InitLog()
	if err != nil {
		printErrorAndExit(err)
	}

	switch parser.Command.Active.Name {
	case putSubCmd:
		subCommandConfig = putConf
		err = putConf.Validate()
	case getSubCmd:
		subCommandConfig = getConf
		err = getConf.Validate()
	case dumpSubCmd:
		subCommandConfig = dumpConf
		err = dumpConf.Validate()
	case countSubCmd:
		subCommandConfig = countConf
		err = countConf.Validate()
	case copySubCmd:
		subCommandConfig = copyConf
		err = copyConf.Validate()
		if err == nil {
			err = copyConf.validateTarget()
		}
	case streamSubCmd:
		subCommandConfig = streamConf
		err = streamConf.Validate()
		if err == nil {
			err = streamConf.applyDefaults()
		}
	}
	if err != nil {
		printErrorAndExit(err)
	}

	return parser.Command.Active.Name, subCommandConfig
}

func (c *streamConfig) applyDefaults() error {
	if c.Workers == 0 {
		c.Workers = defaultStreamWorkers
	}
	if c.Reads == 0 {
		c.Reads = defaultStreamReads
	}
	if c.Workers < 0 || c.Reads < 0 {
		return errors.New("--workers and --reads must be positive")
	}
	return nil
}

func (c *copyConfig) targetFlags() *config.DatabaseFlags {
	dbType := c.ToDBType
	if dbType == "" {
		dbType = c.DBType
	}
	return &config.DatabaseFlags{
		DBType:       dbType,
		DB:           c.ToDB,
		RootFolder:   c.RootFolder,
		AbsolutePath: c.AbsolutePath,
	}
}

func (c *copyConfig) validateTarget() error {
	err := c.targetFlags().Validate()
	if err != nil {
		return err
	}
	target := c.targetFlags()
	if target.Path() == c.Path() && target.DBType == c.DBType {
		return errors.New("--to-db must differ from --db")
	}
	return nil
}
