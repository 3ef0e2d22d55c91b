package hoststub

import (
	"fmt"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// stubReporter collects diagnostics in memory instead of printing them,
// so tests can assert on what would have reached the host's reporter
// (spec.md §7 "reported to the host but does not abort the whole run").
type stubReporter struct {
	Unsupported []string
	Echoed      []string
}

func (r *stubReporter) ReportUnsupported(owner hostapi.Symbol, msg string) {
	loc := "<root>"
	if s := asSymbol(owner); s != nil {
		loc = names.Source(s.name)
	}
	r.Unsupported = append(r.Unsupported, fmt.Sprintf("%s: %s", loc, msg))
}

func (r *stubReporter) Echo(msg string) {
	r.Echoed = append(r.Echoed, msg)
}
