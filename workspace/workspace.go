// Package workspace holds named blobs and the folder relative database paths
// are resolved against.
package workspace

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/kaspanet/blobdb/blob"
	"github.com/pkg/errors"
)

// ErrBlobNotFound is returned when looking up a blob that doesn't exist.
var ErrBlobNotFound = errors.New("blob not found")

// Workspace is a set of named blobs. It is safe for concurrent use; the
// blobs themselves are not.
type Workspace struct {
	// RootFolder is prepended to database paths that aren't absolute.
	RootFolder string

	blobs map[string]*blob.Blob
	lock  sync.RWMutex
}

// New returns an empty workspace rooted at rootFolder.
func New(rootFolder string) *Workspace {
	return &Workspace{
		RootFolder: rootFolder,
		blobs:      make(map[string]*blob.Blob),
	}
}

// CreateBlob returns the blob with the given name, creating an empty one if
// it doesn't exist yet.
func (ws *Workspace) CreateBlob(name string) *blob.Blob {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	b, ok := ws.blobs[name]
	if !ok {
		b = &blob.Blob{}
		ws.blobs[name] = b
	}
	return b
}

// GetBlob returns the blob with the given name or ErrBlobNotFound.
func (ws *Workspace) GetBlob(name string) (*blob.Blob, error) {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	b, ok := ws.blobs[name]
	if !ok {
		return nil, errors.Wrapf(ErrBlobNotFound, "blob %s", name)
	}
	return b, nil
}

// HasBlob returns whether a blob with the given name exists.
func (ws *Workspace) HasBlob(name string) bool {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	_, ok := ws.blobs[name]
	return ok
}

// BlobNames returns the sorted names of all blobs.
func (ws *Workspace) BlobNames() []string {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	names := make([]string, 0, len(ws.blobs))
	for name := range ws.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveBlob resets and removes the blob with the given name.
func (ws *Workspace) RemoveBlob(name string) error {
	ws.lock.Lock()
	b, ok := ws.blobs[name]
	delete(ws.blobs, name)
	ws.lock.Unlock()

	if !ok {
		return errors.Wrapf(ErrBlobNotFound, "blob %s", name)
	}
	return b.Reset()
}

// ResolvePath returns path joined to RootFolder, or path itself when
// absolutePath is set.
func (ws *Workspace) ResolvePath(path string, absolutePath bool) string {
	if absolutePath || ws.RootFolder == "" {
		return path
	}
	return filepath.Join(ws.RootFolder, path)
}

// Close resets every blob, closing the values that hold resources, and
// empties the workspace. It returns the first error encountered.
func (ws *Workspace) Close() error {
	ws.lock.Lock()
	blobs := ws.blobs
	ws.blobs = make(map[string]*blob.Blob)
	ws.lock.Unlock()

	var firstErr error
	for name, b := range blobs {
		err := b.Reset()
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to reset blob %s", name)
		}
	}
	return firstErr
}
