// Package component builds components from layered configuration
// mappings through a registry of named factories.
//
// A component description is a plain mapping carrying module_name and
// class_name entries plus the constructor's keyword arguments. The
// Builder resolves both names (falling back to a defaults mapping),
// loads the class from a Loader, merges defaults under config, injects
// runtime values for declared-but-unresolved parameters, and calls the
// class factory.
//
// # Registering Classes
//
// A Registry groups classes by module name. Each Class pairs a factory
// with the parameter names its constructor declares:
//
//	reg := component.NewRegistry()
//	err := reg.Register("acme/stores", component.Class{
//	    Name:       "FileStore",
//	    Parameters: []string{"base_path", "read_only"},
//	    Factory: func(cfg config.Config) (any, error) {
//	        return NewFileStore(cfg.String("base_path", ""), cfg.Bool("read_only", false))
//	    },
//	})
//
// # Instantiating
//
// The Builder layers three mappings: config (wins on collisions),
// defaults (consumed destructively), and an optional runtime
// environment consulted only for declared parameters the other two
// leave unresolved:
//
//	builder := component.NewBuilder(reg)
//	store, err := builder.Instantiate(
//	    map[string]any{"class_name": "FileStore", "base_path": "/data"},
//	    map[string]any{"read_only": true},
//	    map[string]any{"module_name": "acme/stores"},
//	)
//
// A constructor that declares a parameter literally named
// runtime_environment receives the entire runtime mapping under that
// key.
//
// # Thread Safety
//
// Registry is safe for concurrent use. A Builder is safe for concurrent
// use when its Loader is.
package component
