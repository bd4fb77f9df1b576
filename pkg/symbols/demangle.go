package symbols

import (
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// DemangleSymbolName demangles Itanium C++ names, keeping any reserved alias
// suffix intact. Names that are not mangled are returned unchanged.
func DemangleSymbolName(name string) string {
	if name == "" {
		return name
	}
	core, suffix := StripAliasSuffix(name, DefaultAliasSuffixes)
	// PE toolchains for 32-bit x86 prepend an extra underscore
	if strings.HasPrefix(core, "__Z") {
		core = core[1:]
	}
	if !strings.HasPrefix(core, "_Z") {
		return name
	}
	out, err := demangle.ToString(core, demangle.NoClones)
	if err != nil {
		return name
	}
	return out + suffix
}

// FormatSymbol returns a display-friendly version of name.
func FormatSymbol(name string, doDemangle bool) string {
	if !doDemangle {
		return name
	}
	return DemangleSymbolName(name)
}
