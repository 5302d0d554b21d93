package config

import "path/filepath"

// RelativeToFile resolves a path relative to the directory containing
// file. Useful when a source or config file references a sibling by
// relative path and the result must not depend on the process working
// directory.
//
// Example:
//
//	path := config.RelativeToFile("/etc/datavet/datavet.yml", "variables.yml")
//	// path: "/etc/datavet/variables.yml"
func RelativeToFile(file, relative string) string {
	return filepath.Join(filepath.Dir(file), relative)
}
