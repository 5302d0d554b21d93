package component

import (
	"fmt"
	"sort"
	"sync"
)

// Loader resolves module and class names to registry entries. It is the
// collaborator a Builder consults during instantiation; Registry is the
// standard implementation.
type Loader interface {
	// VerifyModule checks that a module can be loaded.
	// Returns an *UnknownModuleError if it cannot.
	VerifyModule(moduleName string) error

	// LoadClass resolves a class within a module.
	// Returns an *UnknownModuleError if the module is unknown and an
	// *UnknownClassError if the module has no such class.
	LoadClass(moduleName, className string) (Class, error)
}

// Registry is a thread-safe class registry grouped by module name.
// It uses sync.RWMutex for read-heavy lookup workloads.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]Class
}

// Compile-time interface check.
var _ Loader = (*Registry)(nil)

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]map[string]Class),
	}
}

// Register adds a class under a module name.
// Returns ErrNilFactory if the class has no factory and
// ErrAlreadyRegistered if the (module, class) pair already exists.
func (r *Registry) Register(moduleName string, class Class) error {
	if class.Factory == nil {
		return fmt.Errorf("registering %s.%s: %w", moduleName, class.Name, ErrNilFactory)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	classes, ok := r.modules[moduleName]
	if !ok {
		classes = make(map[string]Class)
		r.modules[moduleName] = classes
	}
	if _, exists := classes[class.Name]; exists {
		return fmt.Errorf("registering %s.%s: %w", moduleName, class.Name, ErrAlreadyRegistered)
	}
	classes[class.Name] = class
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for registering built-in classes at startup.
func (r *Registry) MustRegister(moduleName string, class Class) {
	if err := r.Register(moduleName, class); err != nil {
		panic(err)
	}
}

// VerifyModule checks that a module is registered.
func (r *Registry) VerifyModule(moduleName string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.modules[moduleName]; !ok {
		return &UnknownModuleError{Module: moduleName}
	}
	return nil
}

// LoadClass resolves a class within a module.
func (r *Registry) LoadClass(moduleName, className string) (Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes, ok := r.modules[moduleName]
	if !ok {
		return Class{}, &UnknownModuleError{Module: moduleName}
	}
	class, ok := classes[className]
	if !ok {
		return Class{}, &UnknownClassError{Module: moduleName, Class: className}
	}
	return class, nil
}

// Modules returns the registered module names, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classes returns the class names registered under a module, sorted.
// Returns nil for an unknown module.
func (r *Registry) Classes(moduleName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes, ok := r.modules[moduleName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of registered classes across all modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, classes := range r.modules {
		n += len(classes)
	}
	return n
}
