// Package diag wires the unpickler's diagnostic sink (hostapi.Reporter) to
// commonlog, the same logging library chazu-maggie/server/lsp.go uses, and
// gives cmd/tastydump a CBOR-encoded run snapshot it can write alongside a
// dump for later inspection.
package diag

import (
	"fmt"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// Configure points commonlog's simple backend at stderr with the given
// verbosity, the same one-line setup a CLI entry point performs before
// anything is logged (mirroring the blank import of commonlog/simple that
// registers the backend in lsp.go).
func Configure(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// Reporter implements hostapi.Reporter over a named commonlog.Logger: every
// unsupported-feature refusal logs at Warning level tagged with the owning
// symbol's name and is kept for later snapshotting, and every debug-tasty
// echo logs at Info level.
type Reporter struct {
	log         commonlog.Logger
	unsupported []string
}

// NewReporter returns a Reporter logging under name, the same logger-naming
// convention commonlog.GetLogger callers use to namespace a subsystem's
// messages from the rest of the process's log output.
func NewReporter(name string) *Reporter {
	return &Reporter{log: commonlog.GetLogger(name)}
}

func (r *Reporter) ReportUnsupported(owner hostapi.Symbol, msg string) {
	full := fmt.Sprintf("%s: %s", ownerLabel(owner), msg)
	r.unsupported = append(r.unsupported, full)
	r.log.Warning(full)
}

func (r *Reporter) Echo(msg string) {
	r.log.Info(msg)
}

// UnsupportedMessages returns every message ReportUnsupported has logged so
// far, for a caller building a Snapshot after a run finishes.
func (r *Reporter) UnsupportedMessages() []string {
	return r.unsupported
}

// ownerLabel narrows owner down to a printable name the same way
// unpickler.symbolLabel does, independently, for its own error locations —
// diag has no access to that unexported helper and doesn't need anything
// beyond a name for a log line.
func ownerLabel(owner hostapi.Symbol) string {
	if owner == nil {
		return "<none>"
	}
	if named, ok := owner.(interface{ Name() names.Name }); ok {
		return names.Source(named.Name())
	}
	return "<symbol>"
}
