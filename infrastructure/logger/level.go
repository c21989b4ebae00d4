package logger

import "strings"

// Level is the minimum severity a logger writes. Messages below it are
// dropped.
type Level uint32

// Level constants.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

type levelName struct {
	name string
	tag  string
}

// levelNames is indexed by Level. The tag is what appears in log lines.
var levelNames = [...]levelName{
	LevelTrace:    {"trace", "TRC"},
	LevelDebug:    {"debug", "DBG"},
	LevelInfo:     {"info", "INF"},
	LevelWarn:     {"warn", "WRN"},
	LevelError:    {"error", "ERR"},
	LevelCritical: {"critical", "CRT"},
	LevelOff:      {"off", "OFF"},
}

// LevelFromString accepts either the name ("debug") or the tag ("dbg") of a
// level, in any case. Unknown strings return LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	s = strings.ToLower(s)
	for level, names := range levelNames {
		if s == names.name || s == strings.ToLower(names.tag) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

// String returns the tag used in log lines, or "OFF" for levels that
// produce no output.
func (l Level) String() string {
	if l >= LevelOff {
		return levelNames[LevelOff].tag
	}
	return levelNames[l].tag
}
