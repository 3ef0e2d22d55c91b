package diag

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode mirrors vm/dist/wire.go's canonical encoding setup: one
// package-level EncMode built once, rather than re-deriving encoding
// options on every call.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("diag: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is a small run-level summary a debug-tasty-enabled run can emit
// alongside its ordinary output: counts of the major decisions
// internal/unpickler makes, for a CLI consumer to diff between two runs of
// the same TASTy-like stream without re-parsing the echoed log lines.
type Snapshot struct {
	SymbolsCreated      int      `cbor:"symbols_created"`
	SymbolsCompleted    int      `cbor:"symbols_completed"`
	ModuleClassesMade   int      `cbor:"module_classes_made"`
	UnsupportedRefusals []string `cbor:"unsupported_refusals"`
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("diag: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
