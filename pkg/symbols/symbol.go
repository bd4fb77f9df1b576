// Package symbols reconciles a COFF symbol table into a flat, de-duplicated,
// size-annotated list of symbols suitable for registration with a debugger.
package symbols

import "fmt"

// Section is the view of an image section the resolver needs.
type Section struct {
	Name string
	Base uint32 // virtual address
	Size uint32 // virtual size
}

// End returns the first virtual address past the section.
func (s Section) End() uint64 {
	return uint64(s.Base) + uint64(s.Size)
}

// Flag classifies a raw symbol table entry.
type Flag uint8

const (
	FlagSectionDefinition Flag = 1 << iota
	FlagFile
	FlagWeakExternal
)

func (f Flag) String() string {
	switch {
	case f&FlagSectionDefinition != 0:
		return "section"
	case f&FlagFile != 0:
		return "file"
	case f&FlagWeakExternal != 0:
		return "weak"
	default:
		return "symbol"
	}
}

// Entry is one record of the object's symbol table.
type Entry struct {
	Index        int    // position in the symbol table (aux records included)
	Name         string // inline short name, empty when NameOffset must be used
	NameOffset   uint32 // string table offset for long names
	Value        uint32 // offset within the owning section
	SectionIndex int    // 1-based, anything < 1 does not name a section
	Flags        Flag
}

func (e Entry) IsSectionDefinition() bool { return e.Flags&FlagSectionDefinition != 0 }
func (e Entry) IsFile() bool              { return e.Flags&FlagFile != 0 }
func (e Entry) IsWeakExternal() bool      { return e.Flags&FlagWeakExternal != 0 }

// HasInlineName reports whether the name is stored in the entry itself.
func (e Entry) HasInlineName() bool { return len(e.Name) > 0 }

// StringTable resolves long symbol names.
type StringTable interface {
	Lookup(offset uint32) (string, bool)
}

// Kind is how a debugger should treat a symbol.
type Kind uint8

const (
	KindObject Kind = iota
	KindFunction
)

func (k Kind) String() string {
	if k == KindFunction {
		return "function"
	}
	return "object"
}

// Symbol is a resolved, address-bearing symbol.
type Symbol struct {
	Name        string
	Section     string
	SectionBase uint32
	SectionSize uint32
	Offset      uint32
	Size        uint32

	weak bool
}

// VirtualAddress returns globalBase + section base + offset.
func (s *Symbol) VirtualAddress(globalBase uint32) uint64 {
	return uint64(globalBase) + uint64(s.SectionBase) + uint64(s.Offset)
}

// SectionEnd returns the (unbased) first address past the owning section.
func (s *Symbol) SectionEnd() uint64 {
	return uint64(s.SectionBase) + uint64(s.SectionSize)
}

// Promoted reports whether the symbol came from a weak external that had no
// primary definition at its address.
func (s *Symbol) Promoted() bool { return s.weak }

// Kind classifies the symbol by its owning section.
func (s *Symbol) Kind(textSection string) Kind {
	if s.Section == textSection {
		return KindFunction
	}
	return KindObject
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s (%s+%#x @ %#08x, size %#x)", s.Name, s.Section, s.Offset, s.VirtualAddress(0), s.Size)
}
