package symbols

import (
	"cmp"
	"fmt"

	"github.com/apex/log"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Stats counts what happened to the entries of one Resolve call.
type Stats struct {
	Entries  int // entries examined
	Skipped  int // section definitions, file records and zero values
	Aliases  int // names carrying a reserved alias suffix
	Shadowed int // weak externals that matched a primary definition
	Orphans  int // weak externals promoted to primary symbols
	Resolved int // symbols in the final list
}

// Resolver reconciles raw symbol table entries into a sorted, sized and
// address-unique list of symbols.
type Resolver struct {
	Sections      []Section
	Strings       StringTable
	AliasSuffixes []string

	Stats Stats
}

// NewResolver returns a Resolver using the default alias suffixes.
func NewResolver(sections []Section, strs StringTable) *Resolver {
	return &Resolver{
		Sections:      sections,
		Strings:       strs,
		AliasSuffixes: DefaultAliasSuffixes,
	}
}

type candidate struct {
	entry Entry
	sym   *Symbol
}

func (c candidate) weak() bool { return c.entry.IsWeakExternal() }

// Resolve runs the whole reconciliation: naming and filtering, weak external
// matching, duplicate detection and size inference. The returned symbols are
// sorted by virtual address. Any error aborts the whole resolution.
func (r *Resolver) Resolve(entries []Entry) ([]*Symbol, error) {
	r.Stats = Stats{}

	cands, err := r.candidates(entries)
	if err != nil {
		return nil, err
	}

	set := newSymbolSet(len(cands))

	// every primary definition has to be in the set before the first weak
	// external is matched against it
	for _, c := range lo.Filter(cands, func(c candidate, _ int) bool { return !c.weak() }) {
		if err := set.insert(c.sym); err != nil {
			return nil, err
		}
	}
	for _, c := range lo.Filter(cands, func(c candidate, _ int) bool { return c.weak() }) {
		if exist, ok := set.lookup(c.sym.VirtualAddress(0)); ok {
			log.WithFields(log.Fields{
				"weak":    c.sym.Name,
				"primary": exist.Name,
				"addr":    fmt.Sprintf("%#08x", c.sym.VirtualAddress(0)),
			}).Debug("Weak external shadows primary symbol")
			r.Stats.Shadowed++
			continue
		}
		log.WithFields(log.Fields{
			"name":    c.sym.Name,
			"section": c.sym.Section,
			"addr":    fmt.Sprintf("%#08x", c.sym.VirtualAddress(0)),
		}).Warn("Missing primary symbol for weak external")
		c.sym.weak = true
		if err := set.insert(c.sym); err != nil {
			return nil, err
		}
		r.Stats.Orphans++
	}

	syms := set.sorted()
	if err := AssignSizes(syms); err != nil {
		return nil, err
	}
	r.Stats.Resolved = len(syms)

	return syms, nil
}

// candidates names every entry, drops the ones that never describe an
// address-bearing definition and attaches the owning section to the rest.
// Table order is preserved.
func (r *Resolver) candidates(entries []Entry) ([]candidate, error) {
	var cands []candidate

	for _, e := range entries {
		r.Stats.Entries++

		name, err := r.Name(e)
		if err != nil {
			return nil, err
		}

		switch r.SkipReason(e, name) {
		case SkipSection, SkipFile:
			r.Stats.Skipped++
			continue
		case SkipZeroValue:
			log.WithFields(log.Fields{
				"index":   e.Index,
				"name":    name,
				"section": e.SectionIndex,
				"class":   e.Flags,
			}).Debug("Skipping symbol with zero value")
			r.Stats.Skipped++
			continue
		case SkipAlias:
			log.WithField("name", name).Debug("Ignoring local alias")
			r.Stats.Aliases++
			continue
		}

		sec, err := r.Section(e)
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", name, err)
		}

		cands = append(cands, candidate{
			entry: e,
			sym: &Symbol{
				Name:        name,
				Section:     sec.Name,
				SectionBase: sec.Base,
				SectionSize: sec.Size,
				Offset:      e.Value,
			},
		})
	}

	return cands, nil
}

// Skip is the reason an entry never becomes a resolution candidate.
type Skip uint8

const (
	SkipNone Skip = iota
	SkipSection
	SkipFile
	SkipZeroValue
	SkipAlias
)

func (s Skip) String() string {
	switch s {
	case SkipSection:
		return "section definition"
	case SkipFile:
		return "file record"
	case SkipZeroValue:
		return "zero value"
	case SkipAlias:
		return "local alias"
	default:
		return ""
	}
}

// SkipReason reports why e, named name, is dropped before matching.
func (r *Resolver) SkipReason(e Entry, name string) Skip {
	switch {
	case e.IsSectionDefinition():
		return SkipSection
	case e.IsFile():
		return SkipFile
	case e.Value == 0:
		return SkipZeroValue
	case HasAliasSuffix(name, r.AliasSuffixes):
		return SkipAlias
	}
	return SkipNone
}

// Name returns the entry's inline name or looks it up in the string table.
func (r *Resolver) Name(e Entry) (string, error) {
	if e.HasInlineName() {
		return e.Name, nil
	}
	if r.Strings != nil {
		if name, ok := r.Strings.Lookup(e.NameOffset); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: offset %#x (symbol index %d)", ErrMissingStringTableEntry, e.NameOffset, e.Index)
}

// Section returns the section named by the entry's 1-based section index.
func (r *Resolver) Section(e Entry) (Section, error) {
	if e.SectionIndex < 1 || e.SectionIndex > len(r.Sections) {
		return Section{}, fmt.Errorf("%w: %d (image has %d sections)", ErrInvalidSectionIndex, e.SectionIndex, len(r.Sections))
	}
	return r.Sections[e.SectionIndex-1], nil
}

// symbolSet is the working set of resolved symbols, unique by address.
type symbolSet struct {
	syms   []*Symbol
	byAddr map[uint64]*Symbol
}

func newSymbolSet(capacity int) *symbolSet {
	return &symbolSet{
		syms:   make([]*Symbol, 0, capacity),
		byAddr: make(map[uint64]*Symbol, capacity),
	}
}

func (s *symbolSet) lookup(addr uint64) (*Symbol, bool) {
	sym, ok := s.byAddr[addr]
	return sym, ok
}

func (s *symbolSet) insert(sym *Symbol) error {
	addr := sym.VirtualAddress(0)
	if exist, ok := s.byAddr[addr]; ok {
		return &DuplicateError{Existing: exist, Conflict: sym}
	}
	s.byAddr[addr] = sym
	s.syms = append(s.syms, sym)
	return nil
}

func (s *symbolSet) sorted() []*Symbol {
	out := slices.Clone(s.syms)
	slices.SortFunc(out, func(a, b *Symbol) int {
		return cmp.Compare(a.VirtualAddress(0), b.VirtualAddress(0))
	})
	return out
}
