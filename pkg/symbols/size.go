package symbols

import "fmt"

// AssignSizes gives every symbol the bytes up to the next symbol of the same
// section, and the last symbol of a section the bytes up to the section end.
// syms must be sorted by address and free of duplicates.
func AssignSizes(syms []*Symbol) error {
	for i, sym := range syms {
		addr := sym.VirtualAddress(0)

		var end uint64
		if i == len(syms)-1 || syms[i+1].Section != sym.Section {
			end = sym.SectionEnd()
			if addr > end {
				return fmt.Errorf("%w: %s, section ends at %#08x", ErrSizeUnderflow, sym, end)
			}
		} else {
			end = syms[i+1].VirtualAddress(0)
		}

		sym.Size = uint32(end - addr)
	}
	return nil
}
