// Package config holds process-wide switches and constants shared across the
// compiler pipeline.
package config

// Version is the current novac core version.
var Version = "0.1.0"

// SourceFileExt is the canonical Nova source extension.
const SourceFileExt = ".nova"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".nova", ".nv"}

// HasSourceExt returns true if path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// StrictMode promotes warnings to errors in the analyzer. It is a single
// process-wide switch; the warnings it promotes are enumerated in
// semantic.StrictWarnings.
var StrictMode = false

// MaxInterpolationDepth bounds nested string interpolation in the lexer
const MaxInterpolationDepth = 16

// IsTestMode indicates the process is running under `go test` acceptance
// harnesses that want deterministic, unbuffered diagnostic ordering.
var IsTestMode = false
