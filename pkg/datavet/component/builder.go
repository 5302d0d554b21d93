package component

import (
	"context"
	"log/slog"
	"time"

	"github.com/datavet/datavet/pkg/datavet/config"
	"github.com/datavet/datavet/pkg/datavet/observability"
)

// Builder instantiates components from layered configuration mappings.
//
// A Builder resolves module_name and class_name from the config mapping
// (falling back to a defaults mapping), loads the class through its
// Loader, merges the remaining entries into one argument set, injects
// runtime values for declared-but-unresolved constructor parameters,
// and calls the class factory.
//
// Create with NewBuilder. A Builder is safe for concurrent use when its
// loader is; Registry is.
type Builder struct {
	loader  Loader
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// NewBuilder creates a Builder around a class loader.
//
// Default configuration:
//   - logger: slog.Default()
//   - metrics: no-op
//   - tracing: no-op
//
// Example:
//
//	reg := component.NewRegistry()
//	if err := results.Register(reg); err != nil {
//	    return err
//	}
//	builder := component.NewBuilder(reg, component.WithLogger(logger))
func NewBuilder(loader Loader, opts ...Option) *Builder {
	b := &Builder{
		loader:  loader,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Instantiate builds a component from a config mapping layered over a
// defaults mapping. It is shorthand for InstantiateContext with
// context.Background().
func (b *Builder) Instantiate(cfg, runtimeEnv, defaults map[string]any) (any, error) {
	return b.InstantiateContext(context.Background(), cfg, runtimeEnv, defaults)
}

// InstantiateContext builds a component from layered configuration.
//
// Resolution rules:
//   - module_name and class_name come from cfg when present, falling
//     back to defaults. Both mappings lose the entries either way, so
//     neither name leaks into the factory arguments. A present but
//     non-string name counts as missing. When cfg omits class_name a
//     warning is logged before the defaults fallback.
//   - The remaining defaults entries seed the argument set and the
//     remaining cfg entries overlay them (cfg wins on collisions).
//   - If runtimeEnv is non-nil, any declared constructor parameter
//     still unresolved after the merge is filled from runtimeEnv when
//     it has an entry of that name. A parameter literally named
//     runtime_environment receives the whole mapping.
//
// cfg is deep-copied and never mutated. defaults is consumed in place:
// after a successful name resolution the caller's map no longer has
// module_name or class_name entries. runtimeEnv values are injected
// without copying.
//
// Errors: *MissingNameError when neither mapping names the module or
// class, *UnknownModuleError / *UnknownClassError from the loader, and
// *ConstructionError wrapping any factory failure.
func (b *Builder) InstantiateContext(ctx context.Context, cfg, runtimeEnv, defaults map[string]any) (instance any, err error) {
	if b.loader == nil {
		return nil, ErrNilLoader
	}

	start := time.Now()
	moduleName := ""
	className := ""
	defer func() {
		b.metrics.RecordInstantiation(ctx, moduleName, className, time.Since(start), err)
	}()

	// The caller's config mapping is never mutated; all pops below work
	// on a deep copy. The defaults mapping is consumed in place.
	cfg = config.CloneMap(cfg)

	var ok bool
	moduleName, ok = popString(cfg, "module_name")
	if !ok {
		moduleName, ok = popString(defaults, "module_name")
		if !ok {
			return nil, &MissingNameError{Key: "module_name"}
		}
	} else {
		// Drop the defaults entry without using it so it cannot leak
		// into the factory arguments.
		delete(defaults, "module_name")
	}

	if err = b.loader.VerifyModule(moduleName); err != nil {
		return nil, err
	}

	className, ok = popString(cfg, "class_name")
	if !ok {
		observability.LogMissingClassName(b.logger, cfg["name"])
		className, ok = popString(defaults, "class_name")
		if !ok {
			return nil, &MissingNameError{Key: "class_name"}
		}
	} else {
		delete(defaults, "class_name")
	}

	class, err := b.loader.LoadClass(moduleName, className)
	if err != nil {
		return nil, err
	}

	// Merged arguments: a deep copy of the depleted defaults, overlaid
	// with every remaining config entry.
	merged := config.CloneMap(defaults)
	if merged == nil {
		merged = make(map[string]any, len(cfg))
	}
	for k, v := range cfg {
		merged[k] = v
	}

	if runtimeEnv != nil {
		// Parameters the constructor declares but the merge left
		// unresolved, captured before any injection.
		missing := make(map[string]bool, len(class.Parameters))
		for _, param := range class.Parameters {
			if _, present := merged[param]; !present {
				missing[param] = true
			}
		}
		for param := range missing {
			if v, found := runtimeEnv[param]; found {
				merged[param] = v
			}
		}
		// A constructor asking for runtime_environment receives the
		// whole mapping, even when the loop above matched an entry of
		// that name.
		if missing["runtime_environment"] {
			merged["runtime_environment"] = runtimeEnv
		}
	}

	ctx, span := b.spans.StartInstantiationSpan(ctx, moduleName, className)
	defer func() {
		b.spans.EndSpanWithError(span, err)
	}()

	instance, err = class.Factory(config.New(merged))
	if err != nil {
		err = &ConstructionError{Class: className, Args: merged, Err: err}
		return nil, err
	}

	observability.LogInstantiation(b.logger, moduleName, className,
		float64(time.Since(start).Milliseconds()))
	return instance, nil
}

// popString removes key from m and returns its value when it is a
// string. A present but non-string value is still removed but reported
// as missing: names must be strings.
func popString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	delete(m, key)
	s, isString := v.(string)
	if !isString {
		return "", false
	}
	return s, true
}
