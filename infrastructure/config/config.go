// Package config holds the command line and configuration file flags shared
// by the blobdb commands.
package config

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/pkg/errors"
)

const (
	defaultDBType   = "leveldb"
	defaultLogLevel = "info"
	logFilename     = "blobdb.log"
	errLogFilename  = "blobdb_err.log"
)

// DatabaseFlags selects the database a command works on.
type DatabaseFlags struct {
	DBType       string `long:"dbtype" description:"Database backend to use (default: leveldb)"`
	DB           string `long:"db" description:"Path of the database, or its name for the memory backend"`
	RootFolder   string `long:"rootfolder" description:"Folder relative database paths are resolved against"`
	AbsolutePath bool   `long:"absolute-path" description:"Use --db as is instead of joining it to --rootfolder"`
}

// Validate checks that a database was given and that its type is
// registered.
func (databaseFlags *DatabaseFlags) Validate() error {
	if databaseFlags.DB == "" {
		return errors.New("--db is required")
	}
	if databaseFlags.DBType == "" {
		databaseFlags.DBType = defaultDBType
	}
	for _, dbType := range db.Types() {
		if dbType == databaseFlags.DBType {
			return nil
		}
	}
	return errors.Wrapf(db.ErrBackendNotFound, "unknown --dbtype %s, supported types are %s",
		databaseFlags.DBType, db.Types())
}

// Path returns the database path, joined to RootFolder unless AbsolutePath
// is set.
func (databaseFlags *DatabaseFlags) Path() string {
	if databaseFlags.AbsolutePath || databaseFlags.RootFolder == "" {
		return databaseFlags.DB
	}
	return filepath.Join(databaseFlags.RootFolder, databaseFlags.DB)
}

// LogFlags configures logging.
type LogFlags struct {
	LogDir   string `long:"logdir" description:"Directory to log output. Logs go to stdout only when empty"`
	LogLevel string `long:"loglevel" short:"d" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems (default: info)"`
}

// InitLog starts the logger backend, writing to files in LogDir if it's set
// and to stdout otherwise, and applies LogLevel.
func (logFlags *LogFlags) InitLog() error {
	if logFlags.LogLevel == "" {
		logFlags.LogLevel = defaultLogLevel
	}
	if logFlags.LogDir != "" {
		logger.InitLog(filepath.Join(logFlags.LogDir, logFilename),
			filepath.Join(logFlags.LogDir, errLogFilename))
	} else {
		logger.InitLogStdout(logger.LevelInfo)
	}
	return logger.ParseAndSetLogLevels(logFlags.LogLevel)
}

// ConfigFileFlags select an optional INI configuration file and the version
// flag, both looked at before the full command line is parsed.
type ConfigFileFlags struct {
	ConfigFile  string `short:"C" long:"configfile" description:"Path to an INI configuration file"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
}

// PreParse reads ConfigFileFlags from args, ignoring everything else.
func PreParse(args []string) (*ConfigFileFlags, error) {
	preCfg := &ConfigFileFlags{}
	preParser := flags.NewParser(preCfg, flags.IgnoreUnknown)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	return preCfg, nil
}

// LoadConfigFile applies the INI file at path to parser. Values given on the
// command line afterwards take precedence. A missing file is an error only
// when required is set.
func LoadConfigFile(parser *flags.Parser, path string, required bool) error {
	if path == "" {
		return nil
	}
	err := flags.NewIniParser(parser).ParseFile(path)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) && !required {
			return nil
		}
		return errors.Wrapf(err, "error parsing config file %s", path)
	}
	return nil
}
