package object

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
)

func matchPE(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	if data[0] == 'M' && data[1] == 'Z' {
		return true
	}
	// Bare COFF objects start with the machine type.
	switch binary.LittleEndian.Uint16(data) {
	case pe.IMAGE_FILE_MACHINE_AMD64, pe.IMAGE_FILE_MACHINE_I386:
		return true
	}
	return false
}

func parsePE(data []byte, name, path string) (*Container, bool) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	}

	// Section numbers in the COFF symbol table are 1-based.
	builders := make(map[int]*sectionBuilder)
	var order []int
	for i, s := range f.Sections {
		content, err := s.Data()
		if err != nil {
			continue
		}
		base, ok := addChecked(imageBase, uint64(s.VirtualAddress))
		if !ok {
			continue
		}
		b := &sectionBuilder{
			name:   lossyName(s.Name),
			addr:   base,
			data:   content,
			relocs: make(map[uint64]Relocation),
		}
		peRelocations(data, s, base, b)
		builders[i+1] = b
		order = append(order, i+1)
	}

	for _, entry := range coffSymbols(f) {
		if !peCodeSymbol(f, entry.sym) {
			continue
		}
		if b, ok := builders[int(entry.sym.SectionNumber)]; ok {
			b.symbolAddrs = append(b.symbolAddrs, b.addr+uint64(entry.sym.Value))
		}
	}

	frozen := make(map[int]*Section, len(builders))
	sections := make([]*Section, 0, len(order))
	for _, i := range order {
		sec := builders[i].freeze()
		frozen[i] = sec
		sections = append(sections, sec)
	}

	symbols := make(map[uint32]*Symbol)
	for _, entry := range coffSymbols(f) {
		if !peCodeSymbol(f, entry.sym) {
			continue
		}
		rawName, err := entry.sym.FullName(f.StringTable)
		if err != nil {
			rawName = ""
		}
		raw := lossyName(rawName)
		sec := frozen[int(entry.sym.SectionNumber)]
		addr := uint64(entry.sym.Value)
		if sec != nil {
			addr += sec.Addr
		}
		symbols[entry.index] = &Symbol{
			Name:      raw,
			Demangled: Demangle(raw),
			Addr:      addr,
			Section:   sec,
		}
	}

	return NewContainer(name, path, FormatPE, symbols, sections), true
}

// coffEntry pairs a COFF symbol with its table index. Relocations index the
// raw table, where auxiliary records occupy slots, so the index is tracked
// while skipping them.
type coffEntry struct {
	index uint32
	sym   pe.COFFSymbol
}

func coffSymbols(f *pe.File) []coffEntry {
	var out []coffEntry
	for i := 0; i < len(f.COFFSymbols); {
		sym := f.COFFSymbols[i]
		out = append(out, coffEntry{index: uint32(i), sym: sym})
		i += 1 + int(sym.NumberOfAuxSymbols)
	}
	return out
}

// peCodeSymbol reports whether sym is defined in a code-bearing section.
func peCodeSymbol(f *pe.File, sym pe.COFFSymbol) bool {
	i := int(sym.SectionNumber) - 1
	if i < 0 || i >= len(f.Sections) {
		return false
	}
	return f.Sections[i].Characteristics&pe.IMAGE_SCN_CNT_CODE != 0
}

// peRelocations reads the 10-byte COFF relocation records referenced by the
// section header. debug/pe does not surface these, so they are decoded from
// the raw buffer.
func peRelocations(data []byte, s *pe.Section, base uint64, b *sectionBuilder) {
	const recordSize = 10
	off := int64(s.PointerToRelocations)
	count := int(s.NumberOfRelocations)
	if off <= 0 || count == 0 {
		return
	}
	end := off + int64(count)*recordSize
	if end > int64(len(data)) {
		return
	}
	for i := 0; i < count; i++ {
		rec := data[off+int64(i)*recordSize:]
		rva := binary.LittleEndian.Uint32(rec)
		symIdx := binary.LittleEndian.Uint32(rec[4:])

		rel, ok := subChecked(uint64(rva), uint64(s.VirtualAddress))
		if !ok {
			continue
		}
		addr, ok := addChecked(base, rel)
		if !ok {
			continue
		}
		b.relocs[addr] = Relocation{Kind: TargetSymbol, Index: symIdx}
	}
}
