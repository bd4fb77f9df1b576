package coff

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
)

type TestSection struct {
	Name string
	Base uint32
	Size uint32
}

type TestSym struct {
	Name    string
	Value   uint32
	Section int16
	Type    uint16
	Class   StorageClass
	Aux     uint8
	// string table offset to store instead of Name, for broken tables
	BadOffset uint32
}

// BuildTestFile lays out a minimal PE image (image == true) or COFF object:
// headers, section table, symbol table and string table. Sections carry no
// raw data.
func BuildTestFile(image bool, sections []TestSection, syms []TestSym) ([]byte, error) {
	var out bytes.Buffer
	var err error
	w := func(v any) {
		if err == nil {
			err = binary.Write(&out, binary.LittleEndian, v)
		}
	}

	var optSize int
	if image {
		dos := make([]byte, 0x40)
		dos[0], dos[1] = 'M', 'Z'
		binary.LittleEndian.PutUint32(dos[0x3c:], 0x40)
		out.Write(dos)
		out.WriteString("PE\x00\x00")
		optSize = binary.Size(pe.OptionalHeader32{})
	}

	nrec := 0
	for _, s := range syms {
		nrec += 1 + int(s.Aux)
	}
	symtab := out.Len() + binary.Size(pe.FileHeader{}) + optSize + len(sections)*binary.Size(pe.SectionHeader32{})

	w(pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_I386,
		NumberOfSections:     uint16(len(sections)),
		PointerToSymbolTable: uint32(symtab),
		NumberOfSymbols:      uint32(nrec),
		SizeOfOptionalHeader: uint16(optSize),
	})
	if image {
		w(pe.OptionalHeader32{
			Magic:               0x10b,
			ImageBase:           0x400000,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			NumberOfRvaAndSizes: 16,
		})
	}

	for _, s := range sections {
		var sh pe.SectionHeader32
		copy(sh.Name[:], s.Name)
		sh.VirtualAddress = s.Base
		sh.VirtualSize = s.Size
		w(sh)
	}

	var strs bytes.Buffer
	for _, s := range syms {
		var sym pe.COFFSymbol
		switch {
		case s.BadOffset != 0:
			binary.LittleEndian.PutUint32(sym.Name[4:], s.BadOffset)
		case len(s.Name) > len(sym.Name):
			binary.LittleEndian.PutUint32(sym.Name[4:], uint32(4+strs.Len()))
			strs.WriteString(s.Name)
			strs.WriteByte(0)
		default:
			copy(sym.Name[:], s.Name)
		}
		sym.Value = s.Value
		sym.SectionNumber = s.Section
		sym.Type = s.Type
		sym.StorageClass = uint8(s.Class)
		sym.NumberOfAuxSymbols = s.Aux
		w(sym)
		out.Write(make([]byte, int(s.Aux)*pe.COFFSymbolSize))
	}

	w(uint32(4 + strs.Len()))
	out.Write(strs.Bytes())
	// debug/pe always reads a full DOS header worth of bytes
	out.Write(make([]byte, 96))

	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
