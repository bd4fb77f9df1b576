package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringTable map[uint32]string

func (st stringTable) Lookup(offset uint32) (string, bool) {
	s, ok := st[offset]
	return s, ok
}

var testSections = []Section{
	{Name: ".text", Base: 0x1000, Size: 0x100},
	{Name: ".data", Base: 0x2000, Size: 0x80},
	{Name: ".bss", Base: 0x3000, Size: 0x40},
}

type nameSize struct {
	name string
	addr uint64
	size uint32
}

func summarize(syms []*Symbol) []nameSize {
	var out []nameSize
	for _, s := range syms {
		out = append(out, nameSize{s.Name, s.VirtualAddress(0), s.Size})
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		strs    stringTable
		want    []nameSize
	}{
		{
			name: "two symbols in one section",
			entries: []Entry{
				{Name: "foo", Value: 0x0, SectionIndex: 1},
				{Name: "bar", Value: 0x10, SectionIndex: 1},
			},
			// a zero value is never an address-bearing definition
			want: []nameSize{
				{"bar", 0x1010, 0xf0},
			},
		},
		{
			name: "sizes reach the next symbol and the end of the section",
			entries: []Entry{
				{Name: "c", Value: 0x40, SectionIndex: 1},
				{Name: "a", Value: 0x4, SectionIndex: 1},
				{Name: "b", Value: 0x10, SectionIndex: 1},
				{Name: "d", Value: 0x8, SectionIndex: 2},
				{Name: "e", Value: 0x20, SectionIndex: 3},
			},
			want: []nameSize{
				{"a", 0x1004, 0xc},
				{"b", 0x1010, 0x30},
				{"c", 0x1040, 0xc0},
				{"d", 0x2008, 0x78},
				{"e", 0x3020, 0x20},
			},
		},
		{
			name: "long names come from the string table",
			entries: []Entry{
				{NameOffset: 4, Value: 0x20, SectionIndex: 1},
				{Name: "short", Value: 0x30, SectionIndex: 1},
			},
			strs: stringTable{4: "a_rather_long_function_name"},
			want: []nameSize{
				{"a_rather_long_function_name", 0x1020, 0x10},
				{"short", 0x1030, 0xd0},
			},
		},
		{
			name: "section definitions, file records and local aliases are dropped",
			entries: []Entry{
				{Name: ".file", Value: 0x1, SectionIndex: -2, Flags: FlagFile},
				{Name: ".text", Value: 0x1, SectionIndex: 1, Flags: FlagSectionDefinition},
				{Name: "foo.localalias", Value: 0x8, SectionIndex: 1},
				{Name: "foo", Value: 0x4, SectionIndex: 1},
			},
			want: []nameSize{
				{"foo", 0x1004, 0xfc},
			},
		},
		{
			name: "weak external after its primary is dropped",
			entries: []Entry{
				{Name: "foo", Value: 0x8, SectionIndex: 1},
				{Name: "foo_weak", Value: 0x8, SectionIndex: 1, Flags: FlagWeakExternal},
			},
			want: []nameSize{
				{"foo", 0x1008, 0xf8},
			},
		},
		{
			name: "weak external before its primary is dropped",
			entries: []Entry{
				{Name: "foo_weak", Value: 0x8, SectionIndex: 1, Flags: FlagWeakExternal},
				{Name: "foo", Value: 0x8, SectionIndex: 1},
			},
			want: []nameSize{
				{"foo", 0x1008, 0xf8},
			},
		},
		{
			name: "orphan weak external is kept under its own name",
			entries: []Entry{
				{Name: "foo", Value: 0x8, SectionIndex: 1},
				{Name: "lonely", Value: 0x20, SectionIndex: 1, Flags: FlagWeakExternal},
			},
			want: []nameSize{
				{"foo", 0x1008, 0x18},
				{"lonely", 0x1020, 0xe0},
			},
		},
		{
			name: "symbol at the very end of its section has zero size",
			entries: []Entry{
				{Name: "end", Value: 0x80, SectionIndex: 2},
			},
			want: []nameSize{
				{"end", 0x2080, 0},
			},
		},
		{
			name:    "empty table",
			entries: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testSections, tt.strs)
			got, err := r.Resolve(tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summarize(got))
		})
	}
}

func TestResolveDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{
			name: "two primaries at the same offset",
			entries: []Entry{
				{Name: "foo", Value: 0x10, SectionIndex: 1},
				{Name: "bar", Value: 0x10, SectionIndex: 1},
			},
		},
		{
			name: "collision after weak externals are mixed in",
			entries: []Entry{
				{Name: "foo_weak", Value: 0x10, SectionIndex: 1, Flags: FlagWeakExternal},
				{Name: "foo", Value: 0x10, SectionIndex: 1},
				{Name: "baz", Value: 0x20, SectionIndex: 1},
				{Name: "qux", Value: 0x20, SectionIndex: 1},
			},
		},
		{
			name: "different sections overlapping the same address",
			entries: []Entry{
				{Name: "foo", Value: 0x1010, SectionIndex: 1},
				{Name: "bar", Value: 0x10, SectionIndex: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver(testSections, nil).Resolve(tt.entries)
			require.Error(t, err)
			assert.Nil(t, got)

			var dup *DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, dup.Existing.VirtualAddress(0), dup.Conflict.VirtualAddress(0))
			assert.Contains(t, err.Error(), "duplicate symbol")
		})
	}
}

func TestResolveWeakMatchesPromotedWeak(t *testing.T) {
	// w2 is promoted first, so w3 at the same address is its alias
	entries := []Entry{
		{Name: "w1", Value: 0x10, SectionIndex: 1, Flags: FlagWeakExternal},
		{Name: "w2", Value: 0x20, SectionIndex: 1, Flags: FlagWeakExternal},
		{Name: "w3", Value: 0x20, SectionIndex: 1, Flags: FlagWeakExternal},
	}
	r := NewResolver(testSections, nil)
	syms, err := r.Resolve(entries)
	require.NoError(t, err)
	assert.Equal(t, []nameSize{
		{"w1", 0x1010, 0x10},
		{"w2", 0x1020, 0xe0},
	}, summarize(syms))
	assert.Equal(t, 2, r.Stats.Orphans)
	assert.Equal(t, 1, r.Stats.Shadowed)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{
			name: "missing string table entry",
			entries: []Entry{
				{NameOffset: 99, Value: 0x10, SectionIndex: 1},
			},
			wantErr: ErrMissingStringTableEntry,
		},
		{
			name: "missing string for a record that would be skipped",
			entries: []Entry{
				{NameOffset: 99, Value: 0, SectionIndex: 1},
			},
			wantErr: ErrMissingStringTableEntry,
		},
		{
			name: "section index past the end",
			entries: []Entry{
				{Name: "foo", Value: 0x10, SectionIndex: 4},
			},
			wantErr: ErrInvalidSectionIndex,
		},
		{
			name: "absolute symbol",
			entries: []Entry{
				{Name: "foo", Value: 0x10, SectionIndex: -1},
			},
			wantErr: ErrInvalidSectionIndex,
		},
		{
			name: "offset past the end of the section",
			entries: []Entry{
				{Name: "foo", Value: 0x200, SectionIndex: 3},
			},
			wantErr: ErrSizeUnderflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver(testSections, stringTable{4: "x"}).Resolve(tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestResolveStats(t *testing.T) {
	entries := []Entry{
		{Name: ".file", Flags: FlagFile},
		{Name: ".text", SectionIndex: 1, Flags: FlagSectionDefinition},
		{Name: "zero", Value: 0, SectionIndex: 1},
		{Name: "foo", Value: 0x10, SectionIndex: 1},
		{Name: "foo.localalias", Value: 0x10, SectionIndex: 1},
		{Name: "foo_weak", Value: 0x10, SectionIndex: 1, Flags: FlagWeakExternal},
		{Name: "orphan", Value: 0x30, SectionIndex: 1, Flags: FlagWeakExternal},
	}

	r := NewResolver(testSections, nil)
	syms, err := r.Resolve(entries)
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.False(t, syms[0].Promoted())
	assert.True(t, syms[1].Promoted())

	assert.Equal(t, Stats{
		Entries:  7,
		Skipped:  3,
		Aliases:  1,
		Shadowed: 1,
		Orphans:  1,
		Resolved: 2,
	}, r.Stats)
}

func TestResolveCustomAliasSuffixes(t *testing.T) {
	r := NewResolver(testSections, nil)
	r.AliasSuffixes = []string{".part", ".cold"}

	syms, err := r.Resolve([]Entry{
		{Name: "foo.localalias", Value: 0x4, SectionIndex: 1},
		{Name: "foo.cold", Value: 0x8, SectionIndex: 1},
	})
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "foo.localalias", syms[0].Name)
}

func TestSymbolKind(t *testing.T) {
	text := &Symbol{Name: "f", Section: ".text"}
	data := &Symbol{Name: "d", Section: ".data"}
	assert.Equal(t, KindFunction, text.Kind(".text"))
	assert.Equal(t, KindObject, data.Kind(".text"))
	assert.Equal(t, KindFunction, data.Kind(".data"))
	assert.Equal(t, "function", KindFunction.String())
	assert.Equal(t, "object", KindObject.String())
}

func TestVirtualAddress(t *testing.T) {
	s := &Symbol{SectionBase: 0x1000, Offset: 0x10}
	assert.EqualValues(t, 0x1010, s.VirtualAddress(0))
	assert.EqualValues(t, 0x401010, s.VirtualAddress(0x400000))
	// no wrap around 32 bits
	assert.EqualValues(t, uint64(0x1_0000_1010), s.VirtualAddress(0xffffffff)+1)
}

func TestSkipReason(t *testing.T) {
	r := NewResolver(testSections, nil)
	tests := []struct {
		entry Entry
		want  Skip
	}{
		{Entry{Name: ".text", Value: 0x1, SectionIndex: 1, Flags: FlagSectionDefinition}, SkipSection},
		{Entry{Name: ".file", SectionIndex: -2, Flags: FlagFile}, SkipFile},
		{Entry{Name: "zero", SectionIndex: 1}, SkipZeroValue},
		{Entry{Name: "zero.localalias", SectionIndex: 1}, SkipZeroValue},
		{Entry{Name: "foo.localalias", Value: 0x4, SectionIndex: 1}, SkipAlias},
		{Entry{Name: "foo", Value: 0x4, SectionIndex: 1}, SkipNone},
		{Entry{Name: "foo", Value: 0x4, SectionIndex: 1, Flags: FlagWeakExternal}, SkipNone},
	}
	for _, tt := range tests {
		t.Run(tt.entry.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SkipReason(tt.entry, tt.entry.Name))
		})
	}
	assert.Equal(t, "local alias", SkipAlias.String())
	assert.Empty(t, SkipNone.String())
}
