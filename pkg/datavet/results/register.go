package results

import (
	"errors"

	"github.com/datavet/datavet/pkg/datavet/component"
	"github.com/datavet/datavet/pkg/datavet/config"
)

// Registry identifiers for the built-in result store classes.
const (
	// ModuleName is the module the result store classes register under.
	ModuleName = "datavet/results"

	// MemoryClassName identifies the in-memory backend.
	MemoryClassName = "MemoryResultStore"

	// SQLiteClassName identifies the SQLite backend.
	SQLiteClassName = "SQLiteResultStore"
)

// ErrMissingDatabasePath indicates the SQLite class was instantiated
// without a database_path argument.
var ErrMissingDatabasePath = errors.New("database_path is required")

// Register installs the built-in result store classes into a registry
// under ModuleName. Instantiated stores are wrapped with
// InstrumentedStore using the given options, so a builder-constructed
// store reports under its backend label out of the box.
//
// Example:
//
//	reg := component.NewRegistry()
//	if err := results.Register(reg, results.WithLogger(logger)); err != nil {
//	    return err
//	}
//	builder := component.NewBuilder(reg)
//	store, err := builder.Instantiate(map[string]any{
//	    "class_name":    results.SQLiteClassName,
//	    "database_path": "./results.db",
//	}, nil, map[string]any{"module_name": results.ModuleName})
func Register(reg *component.Registry, opts ...Option) error {
	memory := component.Class{
		Name: MemoryClassName,
		Factory: func(cfg config.Config) (any, error) {
			return NewInstrumentedStore("memory", NewMemoryStore(), opts...), nil
		},
	}
	if err := reg.Register(ModuleName, memory); err != nil {
		return err
	}

	sqlite := component.Class{
		Name:       SQLiteClassName,
		Parameters: []string{"database_path"},
		Factory: func(cfg config.Config) (any, error) {
			path := cfg.String("database_path", "")
			if path == "" {
				return nil, ErrMissingDatabasePath
			}
			store, err := NewSQLiteStore(path)
			if err != nil {
				return nil, err
			}
			return NewInstrumentedStore("sqlite", store, opts...), nil
		},
	}
	return reg.Register(ModuleName, sqlite)
}
