package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingStringTableEntry is returned when a long name offset has no string.
	ErrMissingStringTableEntry = errors.New("missing string table entry")
	// ErrInvalidSectionIndex is returned when an entry names a section that does not exist.
	ErrInvalidSectionIndex = errors.New("invalid section index")
	// ErrSizeUnderflow is returned when a symbol starts past the end of its section.
	ErrSizeUnderflow = errors.New("symbol lies beyond the end of its section")
)

// DuplicateError reports two distinct definitions at the same virtual address.
type DuplicateError struct {
	Existing *Symbol
	Conflict *Symbol
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate symbol: %s <-> %s", e.Existing, e.Conflict)
}
