package hoststub

import "github.com/tastyread/tasty/internal/hostapi"

// Known phases, in the order the pickler/extension-methods synthesis of
// spec.md §4.6.5 step 4 relies on.
const (
	PhasePickler hostapi.Phase = iota
	PhaseExtensionMethods
)

// stubPhaseControl runs everything immediately: the stub has no real
// phase pipeline to stage work against, so "not later than X" degenerates
// to "now", which is a valid (if maximally eager) implementation of the
// contract spec.md §6 describes.
type stubPhaseControl struct{}

func (stubPhaseControl) RunAtPhaseNotLaterThan(p hostapi.Phase, f func()) { f() }
