// Package lrerrors provides the generator's error vocabulary: each kind
// named by the error-handling design carries both a technical Error()
// message and a short human-facing summary suitable for CLI output.
package lrerrors

import "fmt"

// Kind distinguishes the fatal-to-the-run error categories the generator
// can produce. Table conflicts are deliberately not a Kind here: they are
// collected, not raised, and are reported through parsetable.Conflict
// values gathered by the parse-table assembler instead of an error return.
type Kind int

const (
	// KindGrammarSyntax is a malformed grammar file, located by line.
	KindGrammarSyntax Kind = iota
	// KindUnresolvedSymbol is a symbol referenced but never declared.
	KindUnresolvedSymbol
	// KindRecognizer is a failure encountered while driving the recognizer.
	KindRecognizer
	// KindConfig is a bad flag or configuration value, caught before any
	// grammar is read.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindGrammarSyntax:
		return "grammar syntax error"
	case KindUnresolvedSymbol:
		return "unresolved symbol"
	case KindRecognizer:
		return "recognizer error"
	case KindConfig:
		return "configuration error"
	default:
		return "error"
	}
}

// genError is the concrete type behind every error this package produces.
type genError struct {
	kind  Kind
	msg   string
	human string
	wrap  error
}

func (e *genError) Error() string {
	return e.msg
}

// Unwrap gives the error that the genError wraps, if it wraps one.
func (e *genError) Unwrap() error {
	return e.wrap
}

// Kind reports which error category e belongs to.
func (e *genError) Kind() Kind {
	return e.kind
}

func newErr(kind Kind, human, technical string, wrap error) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s", kind, human)
	}
	return &genError{kind: kind, msg: technical, human: human, wrap: wrap}
}

// GrammarSyntax returns a grammar-syntax error already carrying a
// human-readable description (typically including line context).
func GrammarSyntax(human string) error {
	return newErr(KindGrammarSyntax, human, "", nil)
}

// GrammarSyntaxf is GrammarSyntax with fmt.Sprintf-style formatting.
func GrammarSyntaxf(format string, a ...interface{}) error {
	return GrammarSyntax(fmt.Sprintf(format, a...))
}

// WrapGrammarSyntax wraps an underlying error (e.g. an io error from the
// grammar reader) in a grammar-syntax error.
func WrapGrammarSyntax(wrapped error, human string) error {
	return newErr(KindGrammarSyntax, human, "", wrapped)
}

// UnresolvedSymbol reports a symbol used but never declared, citing the
// name and the line it was first seen on.
func UnresolvedSymbol(name string, line int) error {
	human := fmt.Sprintf("symbol %q was used but never declared (first seen on line %d)", name, line)
	return newErr(KindUnresolvedSymbol, human, "", nil)
}

// Recognizer returns a recognizer-driver error with a human message.
func Recognizer(human string) error {
	return newErr(KindRecognizer, human, "", nil)
}

// Recognizerf is Recognizer with fmt.Sprintf-style formatting.
func Recognizerf(format string, a ...interface{}) error {
	return Recognizer(fmt.Sprintf(format, a...))
}

// Config returns a configuration/flag error with a human message.
func Config(human string) error {
	return newErr(KindConfig, human, "", nil)
}

// Configf is Config with fmt.Sprintf-style formatting.
func Configf(format string, a ...interface{}) error {
	return Config(fmt.Sprintf(format, a...))
}

// HumanMessage gets the message to show an operator for the given error.
// If err is one of the kinds defined in this package, the short human
// summary is returned; otherwise err.Error() is returned unchanged.
func HumanMessage(err error) string {
	if ge, ok := err.(*genError); ok {
		return ge.human
	}
	return err.Error()
}

// As reports whether err (or anything it wraps) is an lrerrors error of
// kind k.
func As(err error, k Kind) bool {
	for err != nil {
		if ge, ok := err.(*genError); ok {
			if ge.kind == k {
				return true
			}
			err = ge.wrap
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
