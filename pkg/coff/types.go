package coff

import "strconv"

// A StorageClass is a COFF symbol storage class (IMAGE_SYM_CLASS_*).
type StorageClass uint8

const (
	ClassNull         StorageClass = 0
	ClassAutomatic    StorageClass = 1
	ClassExternal     StorageClass = 2
	ClassStatic       StorageClass = 3
	ClassLabel        StorageClass = 6
	ClassFunction     StorageClass = 101
	ClassFile         StorageClass = 103
	ClassSection      StorageClass = 104
	ClassWeakExternal StorageClass = 105
	ClassCLRToken     StorageClass = 107
)

var classStrings = []intName{
	{uint32(ClassNull), "Null"},
	{uint32(ClassAutomatic), "Automatic"},
	{uint32(ClassExternal), "External"},
	{uint32(ClassStatic), "Static"},
	{uint32(ClassLabel), "Label"},
	{uint32(ClassFunction), "Function"},
	{uint32(ClassFile), "File"},
	{uint32(ClassSection), "Section"},
	{uint32(ClassWeakExternal), "WeakExternal"},
	{uint32(ClassCLRToken), "CLRToken"},
}

func (c StorageClass) String() string   { return stringName(uint32(c), classStrings, false) }
func (c StorageClass) GoString() string { return stringName(uint32(c), classStrings, true) }

// Special section numbers.
const (
	SectionUndefined int16 = 0
	SectionAbsolute  int16 = -1
	SectionDebug     int16 = -2
)

// complex type of a function symbol (IMAGE_SYM_DTYPE_FUNCTION << 4)
const typeFunction = 0x20

type intName struct {
	i uint32
	s string
}

func stringName(i uint32, names []intName, goSyntax bool) string {
	for _, n := range names {
		if n.i == i {
			if goSyntax {
				return "coff." + n.s
			}
			return n.s
		}
	}
	return strconv.FormatUint(uint64(i), 10)
}
