package object

import (
	"math/bits"
	"slices"
)

// RelocTargetKind classifies what a relocation's final value refers to. Only
// symbol targets are resolved for symbolic display.
type RelocTargetKind int

const (
	TargetOther RelocTargetKind = iota
	TargetSymbol
	TargetSection
)

// Relocation is a fixup recorded at a specific address within a section.
// Index is meaningful only when Kind is TargetSymbol: it is the native
// symbol-table index of the target.
type Relocation struct {
	Kind  RelocTargetKind
	Index uint32
}

// Section is a contiguous loaded region shared by every symbol it contains.
// Immutable after construction.
type Section struct {
	Name string
	Addr uint64
	Data []byte

	relocs map[uint64]Relocation

	// addrs is the strictly ascending list of code-symbol addresses inside
	// this section, consulted only via binary search.
	addrs []uint64
}

// NewSection builds a frozen section. symbolAddrs may arrive in any order; it
// is sorted here, before any extent estimation can observe it.
func NewSection(name string, addr uint64, data []byte, relocs map[uint64]Relocation, symbolAddrs []uint64) *Section {
	addrs := slices.Clone(symbolAddrs)
	slices.Sort(addrs)
	if relocs == nil {
		relocs = map[uint64]Relocation{}
	}
	return &Section{
		Name:   name,
		Addr:   addr,
		Data:   data,
		relocs: relocs,
		addrs:  addrs,
	}
}

// RelocAt reports the relocation recorded at exactly addr, if any.
func (s *Section) RelocAt(addr uint64) (Relocation, bool) {
	r, ok := s.relocs[addr]
	return r, ok
}

// SymbolAddrs returns a copy of the sorted code-symbol address list, so a
// caller can never disturb the order extent estimation depends on.
func (s *Section) SymbolAddrs() []uint64 {
	return slices.Clone(s.addrs)
}

// end is the checked one-past-the-last address of the section.
func (s *Section) end() (uint64, bool) {
	return addChecked(s.Addr, uint64(len(s.Data)))
}

func addChecked(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

func subChecked(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}
