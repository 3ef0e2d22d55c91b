// Command tastydump is the illustrative "enclosing framer" spec.md §6
// leaves to the host: it reads a name-table section followed by an ASTs
// section from a file, drives internal/unpickler over it against the
// internal/hoststub reference host, and prints how many symbols the run
// created.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tastyread/tasty/internal/config"
	"github.com/tastyread/tasty/internal/diag"
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/hoststub"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/unpickler"
)

var (
	debugTasty    = flag.Bool("debug-tasty", false, "echo the unpickler's debug messages (value-class extension scheduling)")
	noAnnotations = flag.Bool("no-annotations", false, "drop annotation thunks at modifier-read time")
	configDir     = flag.String("config-dir", ".", "directory to search upward from for tastyread.toml")
	emitCBOR      = flag.String("emit-cbor", "", "write a CBOR run snapshot to this path")
	verbosity     = flag.Int("verbosity", 1, "commonlog verbosity")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tastydump [options] <file.tasty>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(args[0]))
}

func run(path string) int {
	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return 1
	}
	var debugFlag, noAnnFlag *bool
	if isFlagSet("debug-tasty") {
		debugFlag = debugTasty
	}
	if isFlagSet("no-annotations") {
		noAnnFlag = noAnnotations
	}
	cfg.Override(debugFlag, noAnnFlag)

	diag.Configure(*verbosity)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	cur := tastybits.NewCursor(data)
	table, err := names.ReadTable(cur)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading name table: %v\n", err)
		return 1
	}
	asts := data[cur.CurrentAddr():]

	host := hoststub.New()
	reporter := diag.NewReporter("tastydump")
	counted := &countingSymbols{SymbolFactory: host.Symbols}

	env := &unpickler.Env{
		Symbols:       counted,
		Types:         host.Types,
		Scopes:        host.Scopes,
		Mirror:        host.Mirror,
		Phases:        host.Phases,
		Escaper:       host.Escaper,
		Report:        reporter,
		Names:         table,
		NoAnnotations: cfg.Unpickler.NoAnnotations,
		DebugTasty:    cfg.Unpickler.DebugTasty,
	}

	classRoot := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("<root>"), 0)
	moduleRoot := host.Symbols.NewSymbol(nil, hostapi.KindModuleVal, names.NewSimple("<root>$"), 0)
	host.Scopes.NewScope(classRoot)

	u := unpickler.New(env, asts)
	if err := u.Unpickle(classRoot, moduleRoot); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("symbols created: %d\n", counted.created)

	if *emitCBOR != "" {
		snap := &diag.Snapshot{
			SymbolsCreated:      counted.created,
			UnsupportedRefusals: reporter.UnsupportedMessages(),
		}
		out, err := diag.MarshalSnapshot(snap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: marshaling snapshot: %v\n", err)
			return 1
		}
		if err := os.WriteFile(*emitCBOR, out, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing snapshot: %v\n", err)
			return 1
		}
	}

	return 0
}

func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// countingSymbols decorates a hostapi.SymbolFactory to track how many
// symbols this run allocated, for the -emit-cbor snapshot.
type countingSymbols struct {
	hostapi.SymbolFactory
	created int
}

func (c *countingSymbols) NewSymbol(owner hostapi.Symbol, kind hostapi.SymbolKind, name names.Name, flags hostapi.FlagSet) hostapi.Symbol {
	c.created++
	return c.SymbolFactory.NewSymbol(owner, kind, name, flags)
}
