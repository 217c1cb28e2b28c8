package storage

import (
	"fmt"
	"path/filepath"

	"github.com/vthunder/tock/internal/tasks"
)

// Backend names accepted in configuration.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the persister for backend. file is resolved against
// statePath when relative; an empty file picks the backend default.
// The returned close function is never nil. A database that cannot be
// opened is still returned; its Load reports the failure.
func Open(backend, statePath, file string) (tasks.Persister, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "", BackendJSON:
		if file == "" {
			file = DefaultFilename
		}
		return NewJSONFile(resolve(statePath, file)), noop, nil
	case BackendSQLite:
		if file == "" {
			file = DefaultDBFilename
		}
		db := openSQLite(resolve(statePath, file))
		return db, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendJSON, BackendSQLite)
	}
}

func resolve(statePath, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(statePath, file)
}
