package diag

import "testing"

func TestSnapshotCBORRoundTrip(t *testing.T) {
	s := &Snapshot{
		SymbolsCreated:      12,
		SymbolsCompleted:    12,
		ModuleClassesMade:   2,
		UnsupportedRefusals: []string{"union type", "type lambda tree"},
	}

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}

	if got.SymbolsCreated != s.SymbolsCreated {
		t.Errorf("SymbolsCreated: got %d, want %d", got.SymbolsCreated, s.SymbolsCreated)
	}
	if got.SymbolsCompleted != s.SymbolsCompleted {
		t.Errorf("SymbolsCompleted: got %d, want %d", got.SymbolsCompleted, s.SymbolsCompleted)
	}
	if got.ModuleClassesMade != s.ModuleClassesMade {
		t.Errorf("ModuleClassesMade: got %d, want %d", got.ModuleClassesMade, s.ModuleClassesMade)
	}
	if len(got.UnsupportedRefusals) != 2 || got.UnsupportedRefusals[0] != "union type" {
		t.Errorf("UnsupportedRefusals mismatch: got %v", got.UnsupportedRefusals)
	}
}

func TestSnapshotCBORRoundTripEmpty(t *testing.T) {
	data, err := MarshalSnapshot(&Snapshot{})
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if got.SymbolsCreated != 0 || len(got.UnsupportedRefusals) != 0 {
		t.Errorf("expected a zero-value snapshot to round-trip cleanly, got %+v", got)
	}
}
