package nmadd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/blacktop/pesyms/internal/utils"
	"github.com/blacktop/pesyms/pkg/coff"
	"github.com/blacktop/pesyms/pkg/mdb"
	"github.com/blacktop/pesyms/pkg/symbols"
	"github.com/dustin/go-humanize"
)

type Config struct {
	Path          string
	Base          uint32
	TextSection   string
	AliasSuffixes []string
	JSON          bool
}

// Resolve loads conf.Path and reconciles its COFF symbol table.
func Resolve(conf *Config) ([]*symbols.Symbol, *symbols.Stats, error) {
	f, err := coff.Open(conf.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	log.WithFields(log.Fields{
		"path": conf.Path,
		"size": humanize.Bytes(uint64(f.Size())),
	}).Info("Read loader image")
	utils.Indent(log.Debug, 2)(fmt.Sprintf("parsed %d sections, %d symbol table records", len(f.Sections), f.NumberOfSymbols()))

	if len(f.Entries) == 0 {
		log.Warn("Image has no COFF symbol table")
	}

	r := symbols.NewResolver(f.Sections, f)
	if conf.AliasSuffixes != nil {
		r.AliasSuffixes = conf.AliasSuffixes
	}

	syms, err := r.Resolve(f.Entries)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve symbols of %s: %w", conf.Path, err)
	}

	return syms, &r.Stats, nil
}

// Emit writes syms to w as ::nmadd commands, or as JSON when conf.JSON is set.
func Emit(w io.Writer, syms []*symbols.Symbol, conf *Config) error {
	mw := mdb.NewWriter(w, conf.Base, conf.TextSection)
	if !conf.JSON {
		return mw.WriteAll(syms)
	}

	recs := make([]mdb.Record, 0, len(syms))
	for _, sym := range syms {
		recs = append(recs, mw.Record(sym))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// Run resolves every symbol first and only then writes them, so a fatal
// resolution error never leaves partial output behind.
func Run(w io.Writer, conf *Config) (*symbols.Stats, error) {
	syms, stats, err := Resolve(conf)
	if err != nil {
		return nil, err
	}
	if err := Emit(w, syms, conf); err != nil {
		return nil, fmt.Errorf("failed to write symbols: %w", err)
	}
	return stats, nil
}
