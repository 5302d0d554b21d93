package component

import (
	"github.com/datavet/datavet/pkg/datavet/config"
)

// Factory constructs a component instance from its merged keyword
// arguments. Factories validate their own arguments and return an error
// when the argument set cannot produce a working instance.
type Factory func(cfg config.Config) (any, error)

// Class describes one instantiable component: the name it is looked up
// by, the parameter names its constructor declares, and the factory
// that builds it.
//
// Parameters drives runtime-environment injection: a declared parameter
// left unresolved by config and defaults may be filled from the
// runtime-environment mapping (see Builder.Instantiate).
type Class struct {
	// Name is the class name within its module.
	Name string

	// Parameters lists the constructor's declared parameter names.
	Parameters []string

	// Factory builds the component from the merged arguments.
	Factory Factory
}
