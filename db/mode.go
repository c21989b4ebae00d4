package db

import "fmt"

// Mode defines how a Database is opened. A Database keeps the mode it was
// opened with for its entire lifetime.
type Mode uint8

const (
	// ModeRead opens an existing database read-only.
	ModeRead Mode = iota

	// ModeWrite opens an existing database for writing, creating it
	// if it doesn't exist. Existing data is kept.
	ModeWrite

	// ModeNew creates a new database, discarding any data that already
	// exists at the source.
	ModeNew
)

var modeStrings = map[Mode]string{
	ModeRead:  "read",
	ModeWrite: "write",
	ModeNew:   "new",
}

func (mode Mode) String() string {
	if modeString, ok := modeStrings[mode]; ok {
		return modeString
	}
	return fmt.Sprintf("Mode(%d)", uint8(mode))
}

// IsValid returns whether mode is one of the defined modes.
func (mode Mode) IsValid() bool {
	_, ok := modeStrings[mode]
	return ok
}
