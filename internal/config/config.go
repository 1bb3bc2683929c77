// Package config holds the generator's launch options as a plain value
// threaded through builders and emitters, rather than a process-wide
// singleton read by name from anywhere in the tree.
package config

import "github.com/dekarrin/lrgen/internal/variant"

// Options is the fully-resolved, immutable set of launch options for one
// generator run. Callers build one Options from parsed flags and pass it
// by value into every constructor that needs it.
type Options struct {
	// Variant selects which of the four parser variants to build.
	Variant variant.Variant

	// GrammarPath is the grammar file to read.
	GrammarPath string

	// OutputDir is where NFA.gv, DFA.gv, and steps.py are written.
	OutputDir string

	// Separator is the token separating a rule's head from its body.
	Separator string

	// Strict makes the grammar reader reject tokens that begin with a digit
	// and read quoted literals as single tokens; test input is not affected.
	Strict bool

	// NoTest stops the run after building the parse table.
	NoTest bool

	// NoLabel emits compact (id-only) automaton labels.
	NoLabel bool

	// Step drives the recognizer interactively, one token at a time.
	Step bool

	// Debug raises log verbosity.
	Debug bool
}

// Default returns the Options a bare invocation with no flags would use.
func Default() Options {
	return Options{
		Variant:     variant.SLR,
		GrammarPath: "grammar.txt",
		OutputDir:   ".",
		Separator:   "->",
	}
}
