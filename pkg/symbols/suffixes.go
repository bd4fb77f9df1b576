package symbols

import "strings"

// Reserved suffixes compilers append to local aliases of global symbols.
const (
	SuffixLocalAlias = ".localalias"
)

// DefaultAliasSuffixes lists the suffixes whose symbols are never emitted.
var DefaultAliasSuffixes = []string{
	SuffixLocalAlias,
}

// HasAliasSuffix reports whether name ends with one of suffixes.
func HasAliasSuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// StripAliasSuffix removes the first matching suffix from name, returning the
// bare name and the suffix that was removed.
func StripAliasSuffix(name string, suffixes []string) (core, suffix string) {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s), s
		}
	}
	return name, ""
}
