/*
Lrgen builds an LR-family parser from a grammar file: it reads the
grammar, solves its attributes, builds the requested variant's item
automaton and parse table, reports any conflicts, and (unless --no-test)
drives the resulting table against input read from stdin.

Usage:

	lrgen [flags]

The flags are:

	-t {lr0|slr|lalr|lr1}
		Parser variant to build. Defaults to slr.

	-g PATH
		Grammar file to read. Defaults to grammar.txt.

	-o DIR
		Output directory for NFA.gv, DFA.gv, and steps.py. Defaults to the
		current directory.

	--sep STR
		Production separator used in the grammar file. Defaults to "->".

	--strict
		In the grammar file, reject tokens that begin with a digit and read
		quoted literals as single tokens. Test input is not affected.

	--no-test
		Stop after building the parse table; do not read test input.

	--no-label
		Emit compact (id-only) automaton node labels.

	--step
		Read test input incrementally through an interactive readline
		session, one token at a time, instead of all at once from stdin.

	--debug
		Raise log verbosity to debug.

	--config FILE
		Load default flag values from a TOML file; any flag given
		explicitly on the command line still overrides it.

	-h, --help
		Usage text, then exit successfully.
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/dekarrin/lrgen/internal/arena"
	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/config"
	"github.com/dekarrin/lrgen/internal/graphviz"
	"github.com/dekarrin/lrgen/internal/gramfile"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/lrerrors"
	"github.com/dekarrin/lrgen/internal/parsetable"
	"github.com/dekarrin/lrgen/internal/recognizer"
	"github.com/dekarrin/lrgen/internal/trace"
	"github.com/dekarrin/lrgen/internal/variant"
)

const (
	// ExitSuccess indicates a successful run.
	ExitSuccess = iota

	// ExitConfigError indicates a bad flag or combination of flags.
	ExitConfigError

	// ExitGrammarError indicates a malformed grammar file.
	ExitGrammarError

	// ExitTableError indicates any other failure while building the
	// automata and table or writing their output files (for example, an
	// output file that cannot be created). Table conflicts are reported as
	// warnings and do not set this code.
	ExitTableError

	// ExitRecognizerError indicates the test-input drive failed.
	ExitRecognizerError

	// ExitInternalError indicates a panic reached main; recovered rather
	// than crashing with a Go stack trace.
	ExitInternalError
)

var (
	returnCode = ExitSuccess

	flagVariant = pflag.StringP("type", "t", "slr", "Parser variant to build: lr0, slr, lalr, or lr1")
	flagGrammar = pflag.StringP("grammar", "g", "grammar.txt", "Grammar file to read")
	flagOutDir  = pflag.StringP("out", "o", ".", "Output directory for NFA.gv, DFA.gv, and steps.py")
	flagSep     = pflag.String("sep", "->", "Production separator used in the grammar file")
	flagStrict  = pflag.Bool("strict", false, "In the grammar file, reject tokens starting with a digit and read quoted literals")
	flagNoTest  = pflag.Bool("no-test", false, "Stop after building the parse table")
	flagNoLabel = pflag.Bool("no-label", false, "Emit compact (id-only) automaton node labels")
	flagStep    = pflag.Bool("step", false, "Drive the recognizer interactively, one token at a time")
	flagDebug   = pflag.Bool("debug", false, "Raise log verbosity to debug")
	flagConfig  = pflag.String("config", "", "TOML file of default flag values, overridden by any flag given explicitly")
)

// fileConfig mirrors config.Options for TOML decoding; a --config file may
// set any subset of these keys as defaults for flags not given explicitly
// on the command line.
type fileConfig struct {
	Type    string `toml:"type"`
	Grammar string `toml:"grammar"`
	Out     string `toml:"out"`
	Sep     string `toml:"sep"`
	Strict  bool   `toml:"strict"`
	NoTest  bool   `toml:"no-test"`
	NoLabel bool   `toml:"no-label"`
	Step    bool   `toml:"step"`
	Debug   bool   `toml:"debug"`
}

func applyFileConfig(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return lrerrors.Configf("cannot read config file %q: %v", path, err)
	}
	if !pflag.Lookup("type").Changed && fc.Type != "" {
		*flagVariant = fc.Type
	}
	if !pflag.Lookup("grammar").Changed && fc.Grammar != "" {
		*flagGrammar = fc.Grammar
	}
	if !pflag.Lookup("out").Changed && fc.Out != "" {
		*flagOutDir = fc.Out
	}
	if !pflag.Lookup("sep").Changed && fc.Sep != "" {
		*flagSep = fc.Sep
	}
	if !pflag.Lookup("strict").Changed && fc.Strict {
		*flagStrict = true
	}
	if !pflag.Lookup("no-test").Changed && fc.NoTest {
		*flagNoTest = true
	}
	if !pflag.Lookup("no-label").Changed && fc.NoLabel {
		*flagNoLabel = true
	}
	if !pflag.Lookup("step").Changed && fc.Step {
		*flagStep = true
	}
	if !pflag.Lookup("debug").Changed && fc.Debug {
		*flagDebug = true
	}
	return nil
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			pterm.Error.Printfln("internal error: %v", panicErr)
			os.Exit(ExitInternalError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagConfig != "" {
		if err := applyFileConfig(*flagConfig); err != nil {
			pterm.Error.Println(lrerrors.HumanMessage(err))
			returnCode = ExitConfigError
			return
		}
	}

	if *flagDebug {
		pterm.EnableDebugMessages()
	}

	opts, err := optionsFromFlags()
	if err != nil {
		pterm.Error.Println(lrerrors.HumanMessage(err))
		returnCode = ExitConfigError
		return
	}

	if err := run(opts); err != nil {
		pterm.Error.Println(lrerrors.HumanMessage(err))
		switch {
		case lrerrors.As(err, lrerrors.KindGrammarSyntax), lrerrors.As(err, lrerrors.KindUnresolvedSymbol):
			returnCode = ExitGrammarError
		case lrerrors.As(err, lrerrors.KindRecognizer):
			returnCode = ExitRecognizerError
		default:
			returnCode = ExitTableError
		}
		return
	}
}

func optionsFromFlags() (config.Options, error) {
	v, err := variant.Parse(strings.ToLower(*flagVariant))
	if err != nil {
		return config.Options{}, lrerrors.Config(err.Error())
	}
	if strings.ContainsAny(*flagSep, " \t\n") {
		return config.Options{}, lrerrors.Configf("--sep value %q may not contain whitespace", *flagSep)
	}
	return config.Options{
		Variant:     v,
		GrammarPath: *flagGrammar,
		OutputDir:   *flagOutDir,
		Separator:   *flagSep,
		Strict:      *flagStrict,
		NoTest:      *flagNoTest,
		NoLabel:     *flagNoLabel,
		Step:        *flagStep,
		Debug:       *flagDebug,
	}, nil
}

func run(opts config.Options) error {
	pterm.DefaultSection.Println("reading grammar")
	raw, err := os.ReadFile(opts.GrammarPath)
	if err != nil {
		return lrerrors.WrapGrammarSyntax(err, fmt.Sprintf("cannot read grammar file %q", opts.GrammarPath))
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return lrerrors.Configf("cannot create output directory %q: %v", opts.OutputDir, err)
	}
	stepsFile, err := os.Create(filepath.Join(opts.OutputDir, "steps.py"))
	if err != nil {
		return lrerrors.Configf("cannot create steps.py: %v", err)
	}
	defer stepsFile.Close()
	sink := trace.NewFileSink(stepsFile)
	defer sink.Flush()

	g, err := gramfile.Parse(string(raw), gramfile.Options{Sep: opts.Separator, Strict: opts.Strict}, sink)
	if err != nil {
		return err
	}
	grammar.SolveAttributes(g, sink)
	pterm.Success.Printfln("loaded %d symbols, %d productions", g.NumSymbols(), g.NumProductions())

	labeler := grammar.NewLabeler(g)
	gvOpts := graphviz.Options{NoLabel: opts.NoLabel}

	pterm.DefaultSection.Println("building automaton: " + opts.Variant.String())

	policy := automaton.PolicyFor(opts.Variant, g)
	nfa := automaton.BuildNFA(g, policy, sink)

	if err := writeGraph(opts, "NFA.gv", func(f *os.File) error {
		return graphviz.WriteNFA(f, g, labeler, nfa, gvOpts)
	}); err != nil {
		return err
	}

	var dfa *automaton.DFA
	if opts.Variant.UsesLALRBuilder() {
		lr0Policy := automaton.PolicyFor(variant.LR0, g)
		lr0NFA := automaton.BuildNFA(g, lr0Policy, trace.Nop{})
		pool := arena.NewConstraintPool()
		dfa, err = automaton.BuildLALRDFA(g, lr0NFA, pool, sink)
		if err != nil {
			return err
		}
	} else {
		dfa = automaton.BuildDFA(nfa, sink)
	}

	if err := writeGraph(opts, "DFA.gv", func(f *os.File) error {
		return graphviz.WriteDFA(f, g, labeler, dfa, gvOpts)
	}); err != nil {
		return err
	}

	pterm.DefaultSection.Println("assembling parse table")
	table := parsetable.Build(g, dfa, sink)
	fmt.Println(parsetable.Render(g, table, dfa))

	if conflicts := table.Conflicts(); len(conflicts) > 0 {
		pterm.Warning.Printfln("%d cell conflicts", len(conflicts))
		for _, c := range conflicts {
			pterm.Warning.Printfln("  state %d, symbol %q: %s", c.State, g.Symbol(c.Symbol).Name, describeConflict(c))
		}
	} else {
		pterm.Success.Println("no conflicts")
	}

	if opts.NoTest {
		return nil
	}

	if opts.Step {
		return runStepSession(g, table, dfa, sink)
	}
	return runBatchSession(g, table, dfa, sink)
}

func describeConflict(c parsetable.Conflict) string {
	parts := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, " vs ")
}

func writeGraph(opts config.Options, name string, write func(*os.File) error) error {
	f, err := os.Create(filepath.Join(opts.OutputDir, name))
	if err != nil {
		return lrerrors.Configf("cannot create %s: %v", name, err)
	}
	defer f.Close()
	return write(f)
}

func runBatchSession(g *grammar.Grammar, table *parsetable.Table, dfa *automaton.DFA, sink trace.Sink) error {
	pterm.DefaultSection.Println("running test input (batch)")
	input, err := readInputLine(os.Stdin, g)
	if err != nil {
		return err
	}
	d := recognizer.New(g, table, dfa.Start(), input, sink)
	ok, err := d.Run()
	if err != nil {
		return lrerrors.Recognizerf("rejected: %v", err)
	}
	if ok {
		pterm.Success.Println("accepted")
	} else {
		pterm.Error.Println("rejected")
	}
	return nil
}

func runStepSession(g *grammar.Grammar, table *parsetable.Table, dfa *automaton.DFA, sink trace.Sink) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "token> "})
	if err != nil {
		return lrerrors.Recognizerf("cannot start interactive session: %v", err)
	}
	defer rl.Close()

	var input []int
	for {
		line, rlErr := rl.Readline()
		if rlErr != nil {
			break
		}
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		id, ok := g.Lookup(name)
		if !ok || !g.IsTerminal(id) {
			pterm.Warning.Printfln("unknown terminal %q", name)
			continue
		}
		input = append(input, id)
		if id == g.EndOfInputID() {
			break
		}
	}
	if len(input) == 0 || input[len(input)-1] != g.EndOfInputID() {
		input = append(input, g.EndOfInputID())
	}

	d := recognizer.New(g, table, dfa.Start(), input, sink)
	for !d.Done() {
		desc, stepErr := d.Step()
		if stepErr != nil {
			pterm.Error.Println(stepErr.Error())
			return lrerrors.Recognizerf("rejected: %v", stepErr)
		}
		pterm.Info.Println(desc)
	}
	if d.Accepted() {
		pterm.Success.Println("accepted")
	} else {
		pterm.Error.Println("rejected")
	}
	return nil
}

func readInputLine(r *os.File, g *grammar.Grammar) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var names []string
	for scanner.Scan() {
		names = append(names, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, lrerrors.Recognizerf("cannot read test input: %v", err)
	}

	ids := make([]int, 0, len(names)+1)
	for _, n := range names {
		id, ok := g.Lookup(n)
		if !ok || !g.IsTerminal(id) {
			return nil, lrerrors.Recognizerf("unknown terminal %q in test input", n)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 || ids[len(ids)-1] != g.EndOfInputID() {
		ids = append(ids, g.EndOfInputID())
	}
	return ids, nil
}
