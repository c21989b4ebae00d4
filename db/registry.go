package db

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Constructor opens a backend database at source in the given mode.
type Constructor func(source string, mode Mode) (Database, error)

// Registry maps backend type names to their constructors.
type Registry struct {
	constructors map[string]Constructor
	lock         sync.RWMutex
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register associates name with constructor. Registering the same name
// twice returns ErrBackendAlreadyRegistered.
func (r *Registry) Register(name string, constructor Constructor) error {
	if name == "" {
		return errors.New("cannot register a backend with an empty name")
	}
	if constructor == nil {
		return errors.Errorf("cannot register backend %s with a nil constructor", name)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.constructors[name]; ok {
		return errors.Wrapf(ErrBackendAlreadyRegistered, "backend %s", name)
	}
	r.constructors[name] = constructor
	return nil
}

// Create opens a database of type name at source. If no backend is
// registered under name, it returns an error for which IsBackendNotFoundError
// returns true and a nil database. It is up to the caller to decide whether
// that is fatal.
func (r *Registry) Create(name string, source string, mode Mode) (Database, error) {
	if !mode.IsValid() {
		return nil, errors.Wrapf(ErrInvalidMode, "%s", mode)
	}

	r.lock.RLock()
	constructor, ok := r.constructors[name]
	r.lock.RUnlock()
	if !ok {
		log.Debugf("not found db %s", name)
		return nil, errors.Wrapf(ErrBackendNotFound, "db type %s", name)
	}
	log.Debugf("found db %s", name)

	database, err := constructor(source, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s db at %s in %s mode", name, source, mode)
	}
	return database, nil
}

// Types returns the sorted names of all registered backends.
func (r *Registry) Types() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	types := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// DefaultRegistry is the process-wide registry. Backends add themselves to
// it from their package init functions, so it is fully populated once
// package initialization is done and main starts.
var DefaultRegistry = NewRegistry()

// Register adds a backend to DefaultRegistry.
func Register(name string, constructor Constructor) error {
	return DefaultRegistry.Register(name, constructor)
}

// MustRegister adds a backend to DefaultRegistry and panics on failure. It
// is meant to be called from backend init functions.
func MustRegister(name string, constructor Constructor) {
	err := Register(name, constructor)
	if err != nil {
		panic(errors.Wrapf(err, "failed to register database backend %s", name))
	}
}

// Create opens a database through DefaultRegistry. See Registry.Create.
func Create(name string, source string, mode Mode) (Database, error) {
	return DefaultRegistry.Create(name, source, mode)
}

// Types returns the backends registered in DefaultRegistry.
func Types() []string {
	return DefaultRegistry.Types()
}
