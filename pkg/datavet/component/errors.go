package component

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for registry and builder misuse.
var (
	// ErrAlreadyRegistered indicates a (module, class) pair was registered twice.
	ErrAlreadyRegistered = errors.New("class already registered")

	// ErrNilFactory indicates a class was registered without a factory.
	ErrNilFactory = errors.New("class factory cannot be nil")

	// ErrNilLoader indicates a Builder was created without a loader.
	ErrNilLoader = errors.New("loader cannot be nil")
)

// MissingNameError indicates that neither the config mapping nor the
// defaults mapping supplied a required name entry.
type MissingNameError struct {
	// Key is the missing entry, "module_name" or "class_name".
	Key string
}

// Error implements the error interface.
func (e *MissingNameError) Error() string {
	return fmt.Sprintf("neither config nor defaults contains a %s", e.Key)
}

// UnknownModuleError indicates the loader has no module under the
// requested name.
type UnknownModuleError struct {
	// Module is the module name that failed to load.
	Module string
}

// Error implements the error interface.
func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("no module registered under name %s", e.Module)
}

// UnknownClassError indicates a module does not contain the requested
// class.
type UnknownClassError struct {
	// Module is the module that was searched.
	Module string
	// Class is the class name that was not found.
	Class string
}

// Error implements the error interface.
func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("module %s has no class %s", e.Module, e.Class)
}

// ConstructionError wraps a factory failure with the class name and the
// argument set the factory rejected.
type ConstructionError struct {
	// Class is the class whose factory failed.
	Class string
	// Args is the merged argument set passed to the factory.
	Args map[string]any
	// Err is the factory's original error.
	Err error
}

// Error implements the error interface. The message includes a dump of
// the attempted arguments, one tab-separated key/value pair per line.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("couldn't instantiate class %s with config:\n\t%s\n%v",
		e.Class, formatArgs(e.Args), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// formatArgs renders an argument mapping for error messages. Keys are
// sorted so the dump is stable.
func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s\t\t%v", k, args[k]))
	}
	return strings.Join(pairs, "\n\t")
}
