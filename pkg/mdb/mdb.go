// Package mdb formats resolved symbols as commands for the modular debugger.
package mdb

import (
	"bufio"
	"fmt"
	"io"

	"github.com/blacktop/pesyms/pkg/symbols"
)

// DefaultTextSection is the section whose symbols are registered as functions.
const DefaultTextSection = ".text"

// KindFlag returns the ::nmadd flag for kind.
func KindFlag(kind symbols.Kind) string {
	if kind == symbols.KindFunction {
		return "-f"
	}
	return "-o"
}

// Record is one emitted symbol.
type Record struct {
	Address uint64 `json:"addr"`
	Size    uint32 `json:"size"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
}

// Writer writes one ::nmadd command per symbol.
type Writer struct {
	w           *bufio.Writer
	base        uint32
	textSection string
}

// NewWriter returns a Writer that relocates every symbol by base.
func NewWriter(w io.Writer, base uint32, textSection string) *Writer {
	if textSection == "" {
		textSection = DefaultTextSection
	}
	return &Writer{
		w:           bufio.NewWriter(w),
		base:        base,
		textSection: textSection,
	}
}

// Record returns the emitted form of sym.
func (w *Writer) Record(sym *symbols.Symbol) Record {
	return Record{
		Address: sym.VirtualAddress(w.base),
		Size:    sym.Size,
		Kind:    sym.Kind(w.textSection).String(),
		Name:    sym.Name,
	}
}

// Write emits sym, e.g.
//
//	0x00001000::nmadd -f -s 0x00000010 foo
func (w *Writer) Write(sym *symbols.Symbol) error {
	_, err := fmt.Fprintf(w.w, "0x%08x::nmadd %s -s 0x%08x %s\n",
		sym.VirtualAddress(w.base),
		KindFlag(sym.Kind(w.textSection)),
		sym.Size,
		sym.Name)
	return err
}

// WriteAll emits syms in order and flushes.
func (w *Writer) WriteAll(syms []*symbols.Symbol) error {
	for _, sym := range syms {
		if err := w.Write(sym); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered commands to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
