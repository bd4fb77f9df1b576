// Package coff exposes the sections, symbol table and string table of a
// PE image or COFF object in the form the symbol resolver consumes.
package coff

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"io"
	"os"

	"github.com/blacktop/pesyms/pkg/symbols"
	"github.com/pkg/errors"
)

// File is a parsed PE/COFF file.
type File struct {
	Sections []symbols.Section
	Entries  []symbols.Entry

	pe   *pe.File
	size int64
}

// Open reads the named file into memory and parses it.
func Open(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	f, err := NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", name)
	}
	f.size = int64(len(data))
	return f, nil
}

// NewFile parses a PE image or COFF object from r.
func NewFile(r io.ReaderAt) (*File, error) {
	pf, err := pe.NewFile(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PE/COFF headers")
	}

	f := &File{pe: pf}

	for _, s := range pf.Sections {
		f.Sections = append(f.Sections, symbols.Section{
			Name: s.Name,
			Base: s.VirtualAddress,
			Size: s.VirtualSize,
		})
	}

	for i := 0; i < len(pf.COFFSymbols); i++ {
		sym := &pf.COFFSymbols[i]
		f.Entries = append(f.Entries, newEntry(i, sym))
		// auxiliary records carry no symbol of their own
		i += int(sym.NumberOfAuxSymbols)
	}

	return f, nil
}

func newEntry(idx int, sym *pe.COFFSymbol) symbols.Entry {
	e := symbols.Entry{
		Index:        idx,
		Value:        sym.Value,
		SectionIndex: int(sym.SectionNumber),
		Flags:        Classify(sym),
	}
	if sym.Name[0] == 0 && sym.Name[1] == 0 && sym.Name[2] == 0 && sym.Name[3] == 0 {
		e.NameOffset = binary.LittleEndian.Uint32(sym.Name[4:])
	} else {
		e.Name = cstring(sym.Name[:])
	}
	return e
}

// Classify maps a raw COFF symbol to the resolver's classification flags.
func Classify(sym *pe.COFFSymbol) symbols.Flag {
	var flags symbols.Flag
	switch StorageClass(sym.StorageClass) {
	case ClassFile:
		flags |= symbols.FlagFile
	case ClassSection:
		flags |= symbols.FlagSectionDefinition
	case ClassStatic:
		// section definitions carry an aux record and are never functions
		if sym.NumberOfAuxSymbols > 0 && sym.Type&0xf0 != typeFunction {
			flags |= symbols.FlagSectionDefinition
		}
	case ClassWeakExternal:
		flags |= symbols.FlagWeakExternal
	}
	return flags
}

// Lookup returns the string at offset in the COFF string table.
func (f *File) Lookup(offset uint32) (string, bool) {
	if f.pe.StringTable == nil {
		return "", false
	}
	s, err := f.pe.StringTable.String(offset)
	if err != nil {
		return "", false
	}
	return s, true
}

// Symbol returns the raw COFF record behind e.
func (f *File) Symbol(e symbols.Entry) *pe.COFFSymbol {
	if e.Index < 0 || e.Index >= len(f.pe.COFFSymbols) {
		return nil
	}
	return &f.pe.COFFSymbols[e.Index]
}

// Machine returns the IMAGE_FILE_MACHINE_* value of the file header.
func (f *File) Machine() uint16 {
	return f.pe.FileHeader.Machine
}

// NumberOfSymbols returns the number of symbol table records, aux records included.
func (f *File) NumberOfSymbols() int {
	return len(f.pe.COFFSymbols)
}

// ImageBase returns the preferred load address of a PE image. It returns
// false for COFF objects, which have no optional header.
func (f *File) ImageBase() (uint64, bool) {
	switch oh := f.pe.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		return uint64(oh.ImageBase), true
	case *pe.OptionalHeader64:
		return oh.ImageBase, true
	}
	return 0, false
}

// Size returns the number of bytes read by Open.
func (f *File) Size() int64 {
	return f.size
}

// Close releases the underlying PE file.
func (f *File) Close() error {
	return f.pe.Close()
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
