package names

import (
	"fmt"
	"strings"
)

// EscapeFunc escapes a single raw identifier fragment into the host
// compiler's symbolic-character form (spec.md §6 "Name facilities"). The
// unpickler never hardcodes an escape table itself; it is supplied by
// whatever implements hostapi.NameEscaper.
type EscapeFunc func(string) string

// identity is used by Source and Debug, which never escape.
func identity(s string) string { return s }

// Source renders n the way a human would write it in source: parts
// composed with their separators, Default rendered as
// "<source(qual)>$default$<n+1>", TypeView and Module transparent, Signed
// dropping its signature.
func Source(n Name) string {
	return render(n, identity, false)
}

// HostIdentifier renders n identically to Source for inner pieces, but
// applies escape to every Simple leaf and emits the constructor-default
// prefix when a Default's qual is the Constructor name (spec.md §4.2).
func HostIdentifier(n Name, escape EscapeFunc) string {
	return render(n, escape, true)
}

func render(n Name, escape EscapeFunc, hostForm bool) string {
	switch x := n.(type) {
	case Simple:
		return escape(x.Text)
	case Qualified:
		return render(x.Qual, escape, hostForm) + render(x.Sep, escape, hostForm) + render(x.Selector, escape, hostForm)
	case Module:
		return render(x.Base, escape, hostForm)
	case TypeView:
		return render(x.Base, escape, hostForm)
	case Signed:
		// The erased method signature disambiguates overloads on the wire
		// only; it never appears in a rendered name.
		return render(x.Qual, escape, hostForm)
	case Unique:
		return fmt.Sprintf("%s%s%d", render(x.Qual, escape, hostForm), x.Sep, x.N)
	case Default:
		if hostForm && Equal(x.Qual, Constructor) {
			return fmt.Sprintf("$lessinit$greater$default$%d", x.N+1)
		}
		return fmt.Sprintf("%s$default$%d", render(x.Qual, escape, hostForm), x.N+1)
	case Prefix:
		return render(x.PrefixName, escape, hostForm) + render(x.Qual, escape, hostForm)
	default:
		return "<?>"
	}
}

// Debug renders n in a self-describing, bracket-nested form intended only
// for diagnostics — never round-tripped, never compared against.
func Debug(n Name) string {
	switch x := n.(type) {
	case Simple:
		return fmt.Sprintf("Simple(%q)", x.Text)
	case Qualified:
		return fmt.Sprintf("Qualified(%s, %s, %s)", Debug(x.Qual), Debug(x.Sep), Debug(x.Selector))
	case Module:
		return fmt.Sprintf("Module(%s)", Debug(x.Base))
	case TypeView:
		return fmt.Sprintf("Type(%s)", Debug(x.Base))
	case Signed:
		parts := make([]string, len(x.Sig.ParamTypes))
		for i, p := range x.Sig.ParamTypes {
			parts[i] = fmt.Sprintf("#%d", p)
		}
		return fmt.Sprintf("Signed(%s, (%s)#%d)", Debug(x.Qual), strings.Join(parts, ", "), x.Sig.Result)
	case Unique:
		return fmt.Sprintf("Unique(%s, %q, %d)", Debug(x.Qual), x.Sep, x.N)
	case Default:
		return fmt.Sprintf("Default(%s, %d)", Debug(x.Qual), x.N)
	case Prefix:
		return fmt.Sprintf("Prefix(%s, %s)", Debug(x.PrefixName), Debug(x.Qual))
	default:
		return "<?>"
	}
}
