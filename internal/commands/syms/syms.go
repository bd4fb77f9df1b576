package syms

import (
	"fmt"

	"github.com/blacktop/pesyms/pkg/coff"
	"github.com/blacktop/pesyms/pkg/mdb"
	"github.com/blacktop/pesyms/pkg/symbols"
)

type Config struct {
	Path          string
	TextSection   string
	AliasSuffixes []string
	Demangle      bool
	All           bool
}

// Row is one symbol table entry as seen by the resolver.
type Row struct {
	Index   int
	Name    string
	Value   uint32
	Section string
	Kind    symbols.Kind
	Class   coff.StorageClass
	Flags   symbols.Flag
	Skip    symbols.Skip
}

// List returns the entries of conf.Path's symbol table in table order. Unless
// conf.All is set, entries the resolver drops before matching are left out.
func List(conf *Config) ([]Row, error) {
	f, err := coff.Open(conf.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := symbols.NewResolver(f.Sections, f)
	if conf.AliasSuffixes != nil {
		r.AliasSuffixes = conf.AliasSuffixes
	}

	textSection := conf.TextSection
	if textSection == "" {
		textSection = mdb.DefaultTextSection
	}

	var rows []Row
	for _, e := range f.Entries {
		name, err := r.Name(e)
		if err != nil {
			return nil, err
		}
		skip := r.SkipReason(e, name)
		if skip != symbols.SkipNone && !conf.All {
			continue
		}
		var class coff.StorageClass
		if sym := f.Symbol(e); sym != nil {
			class = coff.StorageClass(sym.StorageClass)
		}
		section := sectionName(r, e)
		kind := symbols.KindObject
		if section == textSection {
			kind = symbols.KindFunction
		}
		rows = append(rows, Row{
			Index:   e.Index,
			Name:    symbols.FormatSymbol(name, conf.Demangle),
			Value:   e.Value,
			Section: section,
			Kind:    kind,
			Class:   class,
			Flags:   e.Flags,
			Skip:    skip,
		})
	}

	return rows, nil
}

func sectionName(r *symbols.Resolver, e symbols.Entry) string {
	switch int16(e.SectionIndex) {
	case coff.SectionUndefined:
		return "UNDEF"
	case coff.SectionAbsolute:
		return "ABS"
	case coff.SectionDebug:
		return "DEBUG"
	}
	sec, err := r.Section(e)
	if err != nil {
		return fmt.Sprintf("#%d", e.SectionIndex)
	}
	return sec.Name
}
