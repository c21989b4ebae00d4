package ops

import (
	"bytes"
	"sort"
	"strings"

	"github.com/kaspanet/blobdb/blob"
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/kaspanet/blobdb/workspace"
	"github.com/pkg/errors"
)

// LoadConfig configures Load.
type LoadConfig struct {
	// DB and DBType name the database to load from. They are ignored when
	// Input is set.
	DB     string
	DBType string

	// AbsolutePath uses DB as is instead of joining it to the workspace
	// root folder.
	AbsolutePath bool

	// Input optionally names a blob holding a *db.Reader to load from.
	Input string

	// Outputs are the names of the blobs to fill. Each is matched with
	// the database record of the same key.
	Outputs []string
}

// Load fills every output blob from the record whose key is the blob name.
// It fails if a record for an output appears twice or if any output wasn't
// found.
func Load(ws *workspace.Workspace, cfg *LoadConfig) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ops.Load")
	defer onEnd()

	if len(cfg.Outputs) == 0 {
		return errors.New("load requires at least one output")
	}
	wanted := make(map[string]bool, len(cfg.Outputs))
	for _, output := range cfg.Outputs {
		if wanted[output] {
			return errors.Errorf("output %s is listed twice", output)
		}
		wanted[output] = true
	}

	loader := &blobLoader{ws: ws, wanted: wanted, loaded: make(map[string]bool)}
	var source string
	var err error
	if cfg.Input != "" {
		source = "blob " + cfg.Input
		err = loader.loadFromReaderBlob(cfg.Input)
	} else {
		path := ws.ResolvePath(cfg.DB, cfg.AbsolutePath)
		source = path
		err = loader.loadFromDatabase(cfg.DBType, path)
	}
	if err != nil {
		return err
	}

	missing := loader.missing()
	if len(missing) > 0 {
		return errors.Errorf("%d blobs were not found in %s: %s",
			len(missing), source, strings.Join(missing, ", "))
	}
	log.Debugf("Loaded %d blobs from %s", len(loader.loaded), source)
	return nil
}

type blobLoader struct {
	ws     *workspace.Workspace
	wanted map[string]bool
	loaded map[string]bool
}

func (l *blobLoader) done() bool {
	return len(l.loaded) == len(l.wanted)
}

func (l *blobLoader) missing() []string {
	var missing []string
	for name := range l.wanted {
		if !l.loaded[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// accept deserializes value into the output named key, if key is one.
func (l *blobLoader) accept(key []byte, value []byte) error {
	name := string(key)
	if !l.wanted[name] {
		return nil
	}
	if l.loaded[name] {
		return errors.Errorf("blob %s appears more than once in the database", name)
	}
	proto, err := blob.DeserializeBlobProto(value)
	if err != nil {
		return errors.Wrapf(err, "failed to parse record %s", name)
	}
	err = blob.Deserialize(proto, l.ws.CreateBlob(name))
	if err != nil {
		return errors.Wrapf(err, "failed to deserialize blob %s", name)
	}
	l.loaded[name] = true
	log.Tracef("Loaded blob %s of type %s", name, proto.Type)
	return nil
}

func (l *blobLoader) loadFromDatabase(dbType string, path string) error {
	database, err := db.Create(dbType, path, db.ModeRead)
	if err != nil {
		return err
	}
	defer database.Close()

	cursor, err := database.NewCursor()
	if err != nil {
		return err
	}
	defer cursor.Close()

	for cursor.Valid() {
		err := l.accept(cursor.Key(), cursor.Value())
		if err != nil {
			return err
		}
		err = cursor.Next()
		if err != nil {
			return err
		}
	}
	return nil
}

// loadFromReaderBlob reads through the shared Reader until every output was
// loaded or the Reader came back to the first key it returned.
func (l *blobLoader) loadFromReaderBlob(input string) error {
	inputBlob, err := l.ws.GetBlob(input)
	if err != nil {
		return err
	}
	reader, ok := inputBlob.Get().(*db.Reader)
	if !ok {
		return errors.Errorf("input blob %s holds %s, not a *db.Reader", input, inputBlob.TypeName())
	}

	var firstKey []byte
	hasFirstKey := false
	for !l.done() {
		key, value, err := reader.Read()
		if err != nil {
			return err
		}
		if !hasFirstKey {
			firstKey = key
			hasFirstKey = true
		} else if bytes.Equal(key, firstKey) {
			return nil
		}
		err = l.accept(key, value)
		if err != nil {
			return err
		}
	}
	return nil
}
