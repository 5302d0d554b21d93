/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that
handle missing keys and type mismatches gracefully by returning default
values. Component factories receive their merged keyword arguments as a
Config, so they can read values from YAML/JSON-shaped structures without
verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "timeout": "30s",
	    "retries": 3,
	    "enabled": true,
	})

	timeout := cfg.Duration("timeout", 10*time.Second) // 30s
	retries := cfg.Int("retries", 5)                   // 3
	enabled := cfg.Bool("enabled", false)              // true
	missing := cfg.String("missing", "default")        // "default"

# Type Coercion

Duration handles multiple input types:
  - string: parsed with time.ParseDuration ("30s", "1h30m")
  - int/float64: interpreted as seconds
  - time.Duration: used directly

Numeric types handle reasonable conversions:
  - int from float64 (only without a fractional part)
  - float64 from int

All methods return the default value if the key is missing, the value
cannot be converted to the requested type, or the conversion would lose
precision.

# Parsing

Parse configuration from YAML or JSON bytes:

	cfg, err := config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

File discovery and loading are deliberately out of scope; callers read
the bytes themselves. RelativeToFile helps resolve sibling paths when
they do.

# Substitution

Flatten renders a Config as a plain nested mapping (a deep copy), which
is the form the vars substitution engine traverses:

	resolved, err := vars.SubstituteAll(cfg, variables)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
