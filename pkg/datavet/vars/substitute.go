package vars

import (
	"errors"
	"fmt"
	"os"
)

// DefaultMaxExpansions is the default cap on splices per call. A store
// whose values reference each other in a cycle would otherwise expand
// forever.
const DefaultMaxExpansions = 100

// ErrExpansionLimit is returned when a single call performs more splices
// than the configured maximum, which almost always means the variable
// store contains a circular reference.
var ErrExpansionLimit = errors.New("variable expansion limit exceeded")

// MissingVariableError is returned when a placeholder's name resolves in
// neither the environment nor the variable store.
type MissingVariableError struct {
	// Name is the unresolved clean variable name.
	Name string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing config variable: %s", e.Name)
}

// UnsupportedValueError is returned when a variable holds a non-string
// value but the placeholder is not the entire template string. Non-string
// values cannot be spliced into surrounding text.
type UnsupportedValueError struct {
	// Name is the clean variable name whose value could not be used.
	Name string
}

// Error implements the error interface.
func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported substitution for variable %s: a non-string value requires the placeholder to be the entire string", e.Name)
}

// Flattener is implemented by structured configuration values that can
// render themselves as a plain nested mapping. SubstituteAll flattens
// such values before walking them.
type Flattener interface {
	Flatten() map[string]any
}

// Substituter resolves ${name} and $name placeholders against the
// process environment first and a caller-supplied variable store second.
//
// Create with NewSubstituter() and configure with Option functions.
// Substituter is safe for concurrent use after construction.
type Substituter struct {
	lookupEnv     func(string) string
	maxExpansions int
}

// NewSubstituter creates a new Substituter with the given options.
//
// Default configuration:
//   - environment lookup: os.Getenv (an empty value means unset)
//   - expansion cap: DefaultMaxExpansions
//
// Example:
//
//	sub := vars.NewSubstituter(
//	    vars.WithEnvLookup(fakeEnv),
//	    vars.WithMaxExpansions(10),
//	)
func NewSubstituter(opts ...Option) *Substituter {
	s := &Substituter{
		lookupEnv:     os.Getenv,
		maxExpansions: DefaultMaxExpansions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Substitute resolves the placeholders in value.
//
// Non-string values, including nil, pass through unchanged. For a string
// template the environment is consulted first for each placeholder (an
// environment variable set to the empty string counts as unset), then the
// variable store. A variable holding a non-string value is returned as-is
// when its placeholder spans the whole template, preserving the value's
// type; anywhere else it is an UnsupportedValueError. Values spliced in
// from the store are re-scanned, so a variable may expand to further
// placeholders. An unresolvable name is a MissingVariableError.
//
// Example:
//
//	out, err := vars.Substitute("${PORT}", map[string]any{"PORT": 5432})
//	// out: 5432 (int)
func (s *Substituter) Substitute(value any, variables map[string]any) (any, error) {
	template, ok := value.(string)
	if !ok {
		return value, nil
	}
	return s.substituteString(template, variables)
}

// substituteString runs the scan/resolve/splice loop over one template.
func (s *Substituter) substituteString(template string, variables map[string]any) (any, error) {
	expansions := 0
	for {
		candidates := FindCandidates(template)
		switch {
		case len(candidates) == 0:
			return template, nil

		case len(candidates) == 1:
			c := candidates[0]
			if env := s.lookupEnv(c.Name); env != "" {
				// Environment splices are final: they are never
				// re-scanned for further placeholders.
				return spliceString(template, c, env), nil
			}
			value, ok := variables[c.Name]
			if !ok {
				return nil, &MissingVariableError{Name: c.Name}
			}
			str, isString := value.(string)
			if !isString {
				if c.Start == 0 && c.End == len(template) {
					return value, nil
				}
				return nil, &UnsupportedValueError{Name: c.Name}
			}
			expansions++
			if expansions > s.maxExpansions {
				return nil, fmt.Errorf("expanding variable %q: %w", c.Name, ErrExpansionLimit)
			}
			template = spliceString(template, c, str)
			// Store splice: loop around and re-scan the result.

		default:
			return s.substituteQueue(template, candidates, variables, expansions)
		}
	}
}

// substituteQueue consumes a multi-candidate template left to right.
// Environment splices keep the remaining queue and shift its offsets by
// the length delta; store splices re-scan the whole string so spliced-in
// values can expand further. Non-string store values are never supported
// here: with more than one candidate no placeholder can span the whole
// template.
func (s *Substituter) substituteQueue(template string, queue []Candidate, variables map[string]any, expansions int) (any, error) {
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if env := s.lookupEnv(c.Name); env != "" {
			template = spliceString(template, c, env)
			shiftSpans(queue, len(env)-(c.End-c.Start))
			continue
		}

		value, ok := variables[c.Name]
		if !ok {
			return nil, &MissingVariableError{Name: c.Name}
		}
		str, isString := value.(string)
		if !isString {
			return nil, &UnsupportedValueError{Name: c.Name}
		}
		expansions++
		if expansions > s.maxExpansions {
			return nil, fmt.Errorf("expanding variable %q: %w", c.Name, ErrExpansionLimit)
		}
		template = spliceString(template, c, str)
		queue = FindCandidates(template)
	}
	return template, nil
}

// SubstituteAll walks an arbitrarily nested structure and passes every
// leaf through Substitute, returning a freshly built structure of the
// same shape. Mappings keep their keys, sequences keep their length and
// order, and non-string leaves pass through unchanged. A value
// implementing Flattener is flattened to its plain mapping form before
// the walk begins.
//
// Example:
//
//	out, err := vars.SubstituteAll(map[string]any{
//	    "url":  "https://${HOST}/api",
//	    "port": 8080,
//	}, variables)
func (s *Substituter) SubstituteAll(data any, variables map[string]any) (any, error) {
	if f, ok := data.(Flattener); ok {
		data = f.Flatten()
	}
	return s.substituteValue(data, variables)
}

// substituteValue recurses over mappings and sequences and substitutes
// leaves.
func (s *Substituter) substituteValue(v any, variables map[string]any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			sub, err := s.substituteValue(item, variables)
			if err != nil {
				return nil, err
			}
			out[k] = sub
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			sub, err := s.substituteValue(item, variables)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return s.Substitute(val, variables)
	}
}

// spliceString replaces the candidate's span in template with value.
func spliceString(template string, c Candidate, value string) string {
	return template[:c.Start] + value + template[c.End:]
}

// shiftSpans moves queued candidate offsets by delta. Valid because the
// queue is strictly left to right: every queued candidate sits to the
// right of the splice that produced the delta.
func shiftSpans(queue []Candidate, delta int) {
	if delta == 0 {
		return
	}
	for i := range queue {
		queue[i].Start += delta
		queue[i].End += delta
	}
}

// defaultSubstituter is the package-level substituter with default settings.
var defaultSubstituter = NewSubstituter()

// Substitute resolves the placeholders in value using the default
// substituter.
//
// Example:
//
//	out, err := vars.Substitute("${HOST}:5432", variables)
func Substitute(value any, variables map[string]any) (any, error) {
	return defaultSubstituter.Substitute(value, variables)
}

// SubstituteAll substitutes every leaf of a nested structure using the
// default substituter.
//
// Example:
//
//	out, err := vars.SubstituteAll(cfg, variables)
func SubstituteAll(data any, variables map[string]any) (any, error) {
	return defaultSubstituter.SubstituteAll(data, variables)
}
