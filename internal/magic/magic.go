package magic

import (
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type Magic uint16

const (
	MagicDOS Magic = 0x5a4d // MZ

	MagicI386  Magic = 0x014c
	MagicAMD64 Magic = 0x8664
	MagicARM64 Magic = 0xaa64
	MagicARMNT Magic = 0x01c4
	MagicRISCV Magic = 0x5064
)

func (m Magic) String() string {
	switch m {
	case MagicDOS:
		return "MZ"
	case MagicI386:
		return "i386"
	case MagicAMD64:
		return "amd64"
	case MagicARM64:
		return "arm64"
	case MagicARMNT:
		return "armv7"
	case MagicRISCV:
		return "riscv64"
	default:
		return fmt.Sprintf("%#04x", uint16(m))
	}
}

const peSignature = "PE\x00\x00"

// coffMachines are the IMAGE_FILE_MACHINE_* values a bare COFF object may start with.
var coffMachines = map[Magic]bool{
	pe.IMAGE_FILE_MACHINE_AM33:        true,
	pe.IMAGE_FILE_MACHINE_AMD64:       true,
	pe.IMAGE_FILE_MACHINE_ARM:         true,
	pe.IMAGE_FILE_MACHINE_ARMNT:       true,
	pe.IMAGE_FILE_MACHINE_ARM64:       true,
	pe.IMAGE_FILE_MACHINE_EBC:         true,
	pe.IMAGE_FILE_MACHINE_I386:        true,
	pe.IMAGE_FILE_MACHINE_IA64:        true,
	pe.IMAGE_FILE_MACHINE_LOONGARCH32: true,
	pe.IMAGE_FILE_MACHINE_LOONGARCH64: true,
	pe.IMAGE_FILE_MACHINE_M32R:        true,
	pe.IMAGE_FILE_MACHINE_MIPS16:      true,
	pe.IMAGE_FILE_MACHINE_MIPSFPU:     true,
	pe.IMAGE_FILE_MACHINE_MIPSFPU16:   true,
	pe.IMAGE_FILE_MACHINE_POWERPC:     true,
	pe.IMAGE_FILE_MACHINE_POWERPCFP:   true,
	pe.IMAGE_FILE_MACHINE_R4000:       true,
	pe.IMAGE_FILE_MACHINE_RISCV32:     true,
	pe.IMAGE_FILE_MACHINE_RISCV64:     true,
	pe.IMAGE_FILE_MACHINE_RISCV128:    true,
	pe.IMAGE_FILE_MACHINE_SH3:         true,
	pe.IMAGE_FILE_MACHINE_SH3DSP:      true,
	pe.IMAGE_FILE_MACHINE_SH4:         true,
	pe.IMAGE_FILE_MACHINE_SH5:         true,
	pe.IMAGE_FILE_MACHINE_THUMB:       true,
	pe.IMAGE_FILE_MACHINE_WCEMIPSV2:   true,
}

// isUnknownMachineCOFF reports whether r holds a COFF object header with
// IMAGE_FILE_MACHINE_UNKNOWN that still looks like it carries a symbol table.
func isUnknownMachineCOFF(r io.ReaderAt) bool {
	var hdr pe.FileHeader
	if err := binary.Read(io.NewSectionReader(r, 0, int64(binary.Size(hdr))), binary.LittleEndian, &hdr); err != nil {
		return false
	}
	return hdr.SizeOfOptionalHeader == 0 &&
		hdr.PointerToSymbolTable != 0 &&
		hdr.NumberOfSymbols != 0
}

// IsPE reports whether filePath looks like a PE image or a bare COFF object.
func IsPE(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer f.Close()

	return isPE(f)
}

func isPE(r io.ReaderAt) (bool, error) {
	var magic [2]byte
	if _, err := r.ReadAt(magic[:], 0); err != nil {
		return false, fmt.Errorf("failed to read magic: %w", err)
	}

	m := Magic(binary.LittleEndian.Uint16(magic[:]))
	switch m {
	case MagicDOS:
		var off [4]byte
		if _, err := r.ReadAt(off[:], 0x3c); err != nil {
			return false, fmt.Errorf("failed to read PE header offset: %w", err)
		}
		var sig [4]byte
		if _, err := r.ReadAt(sig[:], int64(binary.LittleEndian.Uint32(off[:]))); err != nil {
			return false, fmt.Errorf("failed to read PE signature: %w", err)
		}
		if string(sig[:]) != peSignature {
			return false, fmt.Errorf("DOS executable without a PE header")
		}
		return true, nil
	case pe.IMAGE_FILE_MACHINE_UNKNOWN:
		if isUnknownMachineCOFF(r) {
			return true, nil
		}
	default:
		if coffMachines[m] {
			return true, nil
		}
	}

	var elf [4]byte
	if _, err := r.ReadAt(elf[:], 0); err == nil && string(elf[:]) == "\x7fELF" {
		return false, fmt.Errorf("ELF file detected (only PE/COFF is supported)")
	}

	return false, fmt.Errorf("not a PE/COFF file")
}
