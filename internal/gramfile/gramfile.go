// Package gramfile reads the line-oriented grammar file format: one rule
// per paragraph, a configurable head/body separator, "|" alternatives, a
// blank line terminating a multi-line rule body, "%" line comments, and an
// exclusive epsilon symbol. Every symbol seen as a rule head is entered as
// Nonterminal; every symbol seen only in a rule body is entered as a
// tentative Terminal, which PutSymbol upgrades to Nonterminal automatically
// if it later turns out to head a rule of its own.
package gramfile

import (
	"unicode"

	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/lrerrors"
	"github.com/dekarrin/lrgen/internal/trace"
)

// Options controls how the reader tokenizes a grammar file.
type Options struct {
	// Sep is the token separating a rule's head from its body, default "->".
	Sep string
	// Strict rejects tokens that start with a digit and reads a quoted
	// literal as one token. No other identifier rule is checked.
	Strict bool
}

// DefaultOptions returns the reader's defaults: "->" as separator, strict
// mode off.
func DefaultOptions() Options {
	return Options{Sep: "->"}
}

type reader struct {
	src  []rune
	pos  int
	line int
	opts Options

	hasPending bool
	pending    string
	pendingLn  int
}

func isCommentStart(r rune) bool { return r == '%' }

// Parse reads a complete grammar file and returns the resulting grammar
// with every rule installed. Epsilon-exclusivity and redundant-input
// checks are applied during the read; attribute solving (nullable, FIRST,
// FOLLOW) is the caller's responsibility, not this package's. Every symbol
// and production the reader installs is reported to sink.
func Parse(text string, opts Options, sink trace.Sink) (g *grammar.Grammar, err error) {
	if opts.Sep == "" {
		opts.Sep = "->"
	}
	r := &reader{src: []rune(text), line: 1, opts: opts}
	g = grammar.New(sink)
	startFound := false

	for {
		head, headLine, ok, terr := r.token()
		if terr != nil {
			return nil, r.wrap(terr)
		}
		if !ok {
			break
		}
		headID := g.PutSymbol(sink, head, grammar.Nonterminal, headLine)
		if !startFound {
			if serr := g.SetStart(sink, head, headLine); serr != nil {
				return nil, r.wrap(serr)
			}
			startFound = true
		}

		if err := r.expectLiteral(r.opts.Sep); err != nil {
			return nil, r.wrap(err)
		}

		for {
			body, berr := r.readProductionBody(g, sink)
			if berr != nil {
				return nil, r.wrap(berr)
			}
			g.AddProduction(sink, headID, body)

			if !r.expectRune('|') {
				break
			}
		}
	}

	if rest, ok := r.remainder(); ok {
		return nil, r.wrap(lrerrors.GrammarSyntaxf("redundant input: %q", rest))
	}

	if verr := g.Validate(); verr != nil {
		return nil, r.wrap(verr)
	}
	return g, nil
}

// readProductionBody reads one alternative's symbols, stopping at "|", the
// start of the next rule (signaled by a blank source line between this
// token and the last), or EOF.
func (r *reader) readProductionBody(g *grammar.Grammar, sink trace.Sink) ([]int, error) {
	var body []int
	hasEpsilon := false
	first := true
	lastLine := r.line

	for {
		tok, tokLine, ok, err := r.token()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if !first && lastLine+1 < tokLine {
			r.unread(tok, tokLine)
			break
		}
		if tok == "|" {
			r.unread(tok, tokLine)
			break
		}

		id := g.PutSymbol(sink, tok, grammar.Terminal, tokLine)
		body = append(body, id)
		if id == g.EpsilonID() {
			hasEpsilon = true
		}
		first = false
		lastLine = tokLine
	}

	if len(body) == 0 {
		return nil, lrerrors.GrammarSyntax("no token found in right side of the rule; use the epsilon symbol explicitly for an empty production")
	}
	if hasEpsilon && len(body) > 1 {
		return nil, lrerrors.GrammarSyntax("epsilon cannot be used alongside other symbols in the same rule")
	}
	if hasEpsilon {
		return nil, nil
	}
	return body, nil
}

// unread pushes a single token back for the next call to token(). Only
// one token of lookahead is ever needed by this grammar's own structure.
func (r *reader) unread(tok string, line int) {
	r.hasPending = true
	r.pending = tok
	r.pendingLn = line
}

// skipSpacesAndComments advances past whitespace and "%" line comments,
// fetching new lines as needed. It reports whether any non-space input
// remains.
func (r *reader) skipSpacesAndComments() bool {
	for {
		for r.pos < len(r.src) && unicode.IsSpace(r.src[r.pos]) {
			if r.src[r.pos] == '\n' {
				r.line++
			}
			r.pos++
		}
		if r.pos >= len(r.src) {
			return false
		}
		if isCommentStart(r.src[r.pos]) {
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		return true
	}
}

// token reads the next token, returning ok=false at EOF.
func (r *reader) token() (string, int, bool, error) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, r.pendingLn, true, nil
	}

	if !r.skipSpacesAndComments() {
		return "", 0, false, nil
	}
	startLine := r.line

	if r.opts.Strict {
		ch := r.src[r.pos]
		if unicode.IsDigit(ch) {
			return "", 0, false, lrerrors.GrammarSyntax("a token cannot begin with a digit")
		}
		if ch == '\'' || ch == '"' {
			quote := ch
			j := r.pos + 1
			for j < len(r.src) && r.src[j] != quote {
				if r.src[j] == '\n' {
					r.line++
				}
				j++
			}
			if j >= len(r.src) {
				return "", 0, false, lrerrors.GrammarSyntax("no matching closing quote")
			}
			tok := string(r.src[r.pos+1 : j])
			r.pos = j + 1
			return tok, startLine, true, nil
		}
	}

	start := r.pos
	for r.pos < len(r.src) {
		ch := r.src[r.pos]
		if unicode.IsSpace(ch) || ch == '|' || isCommentStart(ch) {
			break
		}
		r.pos++
	}
	if r.pos == start {
		// a lone "|" or similar single-char token not covered above
		r.pos++
		return string(r.src[start:r.pos]), startLine, true, nil
	}
	return string(r.src[start:r.pos]), startLine, true, nil
}

// expectLiteral consumes exactly the given literal (after skipping
// whitespace/comments), or returns an error naming what was expected.
func (r *reader) expectLiteral(lit string) error {
	if !r.skipSpacesAndComments() {
		return lrerrors.GrammarSyntaxf("rule is incomplete: expecting %q", lit)
	}
	litRunes := []rune(lit)
	if r.pos+len(litRunes) > len(r.src) {
		return lrerrors.GrammarSyntaxf("expecting %q", lit)
	}
	for i, want := range litRunes {
		if r.src[r.pos+i] != want {
			return lrerrors.GrammarSyntaxf("expecting %q", lit)
		}
	}
	r.pos += len(litRunes)
	return nil
}

// expectRune consumes the next token if it is exactly the single rune ch.
func (r *reader) expectRune(ch rune) bool {
	tok, line, ok, err := r.token()
	if err != nil || !ok {
		return false
	}
	if tok == string(ch) {
		return true
	}
	r.unread(tok, line)
	return false
}

// remainder reports any non-space, non-comment content left after the
// last rule was parsed, which indicates trailing garbage in the file.
func (r *reader) remainder() (string, bool) {
	if r.hasPending {
		return r.pending, true
	}
	if !r.skipSpacesAndComments() {
		return "", false
	}
	return string(r.src[r.pos:]), true
}

func (r *reader) wrap(err error) error {
	return lrerrors.WrapGrammarSyntax(err, "line "+itoa(r.line)+": "+lrerrors.HumanMessage(err))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
