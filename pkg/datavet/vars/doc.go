/*
Package vars resolves configuration variable placeholders.

# Overview

vars finds ${name} and $name placeholders in strings and replaces them,
consulting the process environment first and a caller-supplied variable
store second. It is the substitution half of the datavet configuration
core: config files reference secrets and machine-specific values as
placeholders, and this package resolves them just before the config is
used.

Resolution fails loudly. An unresolvable name is an error, never a
silently kept or emptied placeholder.

# Basic Usage

Substitute a single value using the package-level function:

	out, err := vars.Substitute("${HOST}:${PORT}", map[string]any{
	    "HOST": "db.internal",
	    "PORT": "5432",
	})
	// out: "db.internal:5432"

Or an entire nested configuration structure:

	out, err := vars.SubstituteAll(map[string]any{
	    "datasource": map[string]any{
	        "url": "postgres://${DB_USER}@${DB_HOST}/app",
	    },
	}, variables)

# Placeholder Patterns

Two patterns are recognized:

  - ${name} - Brace style. Non-greedy up to the next closing brace, with
    no validation of what sits between the braces.
  - $name - Bare style. The name must be an identifier: a letter or
    underscore followed by letters, digits or underscores. "$1abc" is
    not a placeholder.

The clean name is the matched text with every $, { and } removed.

# Resolution Order

Each placeholder resolves against the environment first: a set,
non-empty environment variable wins over the variable store, and an
environment variable set to the empty string counts as unset. Only then
is the variable store consulted.

A store value that is itself a string is spliced into the template and
the result re-scanned, so variables may expand to further placeholders:

	store := map[string]any{"A": "${B}", "B": "final"}
	out, _ := vars.Substitute("${A}", store)
	// out: "final"

A store value of any other type is returned as-is, preserving its type,
but only when the placeholder is the entire template:

	store := map[string]any{"PORT": 5432}
	out, _ := vars.Substitute("${PORT}", store)   // 5432 (int)
	_, err := vars.Substitute("p-${PORT}", store) // UnsupportedValueError

# Errors

Unresolvable names fail with MissingVariableError, misplaced non-string
values with UnsupportedValueError, and runaway recursive expansion with
ErrExpansionLimit once the splice cap is hit.

# Thread Safety

Substituter is safe for concurrent use after construction.
Package-level functions use a shared default substituter.
*/
package vars
