package ops

import (
	"fmt"

	"github.com/kaspanet/blobdb/blob"
	"github.com/kaspanet/blobdb/db"
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/kaspanet/blobdb/workspace"
	"github.com/pkg/errors"
)

// SaveConfig configures Save.
type SaveConfig struct {
	DB     string
	DBType string

	// AbsolutePath uses DB as is instead of joining it to the workspace
	// root folder.
	AbsolutePath bool

	// Inputs are the names of the blobs to save. Each is stored under
	// its own name.
	Inputs []string
}

// Save writes every input blob into a new database, replacing whatever
// existed at the path, in a single transaction.
func Save(ws *workspace.Workspace, cfg *SaveConfig) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ops.Save")
	defer onEnd()

	if len(cfg.Inputs) == 0 {
		return errors.New("save requires at least one input")
	}
	inputs := make([]*blob.Blob, len(cfg.Inputs))
	for i, name := range cfg.Inputs {
		b, err := ws.GetBlob(name)
		if err != nil {
			return err
		}
		inputs[i] = b
	}

	path := ws.ResolvePath(cfg.DB, cfg.AbsolutePath)
	database, err := db.Create(cfg.DBType, path, db.ModeNew)
	if err != nil {
		return err
	}
	defer database.Close()

	tx, err := database.NewTransaction()
	if err != nil {
		return err
	}
	defer tx.Close()

	acceptor := func(name string, data []byte) error {
		return tx.Put([]byte(name), data)
	}
	for i, b := range inputs {
		err := blob.Serialize(b, cfg.Inputs[i], acceptor)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	log.Debugf("Saved %d blobs to %s", len(inputs), path)
	return nil
}

// SnapshotConfig configures Snapshot.
type SnapshotConfig struct {
	// DB is a fmt template combined with the iteration number, for
	// example "/checkpoints/snapshot_%08d".
	DB     string
	DBType string

	AbsolutePath bool

	// Inputs are the blobs to save. The first one is the iteration
	// counter and must hold an int64.
	Inputs []string

	// Every is how often, in iterations, a snapshot is taken.
	Every int64
}

// Snapshot saves all inputs to fmt.Sprintf(cfg.DB, iteration) when the
// iteration held by the first input is a multiple of cfg.Every. It returns
// whether a snapshot was written.
func Snapshot(ws *workspace.Workspace, cfg *SnapshotConfig) (bool, error) {
	if cfg.Every <= 0 {
		return false, errors.Errorf("snapshot interval must be positive, got %d", cfg.Every)
	}
	if len(cfg.Inputs) == 0 {
		return false, errors.New("snapshot requires the iteration counter as its first input")
	}
	counter, err := ws.GetBlob(cfg.Inputs[0])
	if err != nil {
		return false, err
	}
	iteration, ok := counter.Get().(int64)
	if !ok {
		return false, errors.Errorf("iteration counter %s holds %s, not an int64",
			cfg.Inputs[0], counter.TypeName())
	}
	if iteration%cfg.Every != 0 {
		return false, nil
	}

	path := fmt.Sprintf(cfg.DB, iteration)
	log.Infof("Saving snapshot of iteration %d to %s", iteration, path)
	err = Save(ws, &SaveConfig{
		DB:           path,
		DBType:       cfg.DBType,
		AbsolutePath: cfg.AbsolutePath,
		Inputs:       cfg.Inputs,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
