// Package tastybits implements the low-level wire substrate of a TASTy
// artifact: byte offsets, the variable-length integer encodings, and the
// dense tag enum that partitions every construct into one of four wire
// shapes.
package tastybits

import "fmt"

// Addr is a monotonic byte offset into a TASTy ASTs section. It is opaque
// outside this package except for ordering and equality.
type Addr int32

// NoAddr denotes "absent". It compares less than every valid address, so
// accidental use in place of a real address tends to fail loudly rather
// than silently pass containment checks.
const NoAddr Addr = -1

// IsValid reports whether a is a real address rather than NoAddr.
func (a Addr) IsValid() bool { return a >= 0 }

// Before reports whether a occurs strictly before b in the byte stream.
func (a Addr) Before(b Addr) bool { return a < b }

// Index returns a as a plain int, for slicing the underlying buffer.
func (a Addr) Index() int { return int(a) }

func (a Addr) String() string {
	if a == NoAddr {
		return "<noaddr>"
	}
	return fmt.Sprintf("0x%x", int32(a))
}
