package hoststub

import "strings"

// symbolicEscape maps punctuation characters the host identifier grammar
// cannot contain onto the fixed, order-sensitive operator-name fragments
// spec.md §4.2/§6 calls the "symbolic-character escape". There is no
// reference table in the corpus for this; the mapping is authored
// directly from the escape/encode requirement spec.md's Name facilities
// section describes, keeping the same flat, ordered table shape
// internal/types/basic.go uses for its own predeclared-type table.
var symbolicEscape = map[rune]string{
	'~': "$tilde", '=': "$eq", '<': "$less", '>': "$greater",
	'!': "$bang", '#': "$hash", '%': "$percent", '^': "$up",
	'&': "$amp", '|': "$bar", '*': "$times", '/': "$div",
	'+': "$plus", '-': "$minus", ':': "$colon", '\\': "$bslash",
	'?': "$qmark", '@': "$at",
}

// stubEscaper implements hostapi.NameEscaper by replacing every
// symbolic-escape character in a fragment, leaving ordinary identifier
// characters untouched. The constructor-default prefix
// ("$lessinit$greater$default$") is exactly the result of this table
// applied to "<init>" followed by the literal "$default$" suffix from
// names.HostIdentifier, which is why Default.qual == Constructor gets a
// dedicated branch there rather than relying on per-character escaping of
// "<" and ">" alone to reproduce it.
type stubEscaper struct{}

func (stubEscaper) Escape(fragment string) string {
	var b strings.Builder
	for _, r := range fragment {
		if esc, ok := symbolicEscape[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
