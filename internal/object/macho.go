package object

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
)

// Mach-O nlist type bits and section attributes not exported by debug/macho.
const (
	machoNStab = 0xe0
	machoNType = 0x0e
	machoNSect = 0x0e

	machoAttrPureInstructions = 0x80000000
	machoAttrSomeInstructions = 0x00000400
)

func matchMachO(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	magic := binary.LittleEndian.Uint32(data)
	switch magic {
	case macho.Magic32, macho.Magic64,
		0xcefaedfe, 0xcffaedfe: // big-endian byte order
		return true
	}
	return false
}

func parseMachO(data []byte, name, path string) (*Container, bool) {
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	// Section numbers in the symbol table are 1-based over the load-command
	// section order.
	builders := make(map[int]*sectionBuilder)
	var order []int
	for i, s := range f.Sections {
		content, err := s.Data()
		if err != nil {
			continue
		}
		builders[i+1] = &sectionBuilder{
			name:   lossyName(s.Seg + "," + s.Name),
			addr:   s.Addr,
			data:   content,
			relocs: make(map[uint64]Relocation),
		}
		order = append(order, i+1)

		for _, r := range s.Relocs {
			addr, ok := addChecked(s.Addr, uint64(r.Addr))
			if !ok {
				continue
			}
			rel := Relocation{Kind: TargetOther}
			switch {
			case r.Scattered:
				// scattered entries carry a raw value, not a reference
			case r.Extern:
				rel = Relocation{Kind: TargetSymbol, Index: r.Value}
			default:
				rel = Relocation{Kind: TargetSection, Index: r.Value}
			}
			builders[i+1].relocs[addr] = rel
		}
	}

	if f.Symtab == nil {
		return nil, false
	}

	for _, sym := range f.Symtab.Syms {
		if !machoCodeSymbol(f, sym) {
			continue
		}
		if b, ok := builders[int(sym.Sect)]; ok {
			b.symbolAddrs = append(b.symbolAddrs, sym.Value)
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
	for i, sym := range f.Symtab.Syms {
		if !machoCodeSymbol(f, sym) {
			continue
		}
		raw := lossyName(sym.Name)
		symbols[uint32(i)] = &Symbol{
			Name:      raw,
			Demangled: Demangle(raw),
			Addr:      sym.Value,
			Section:   frozen[int(sym.Sect)],
		}
	}

	return NewContainer(name, path, FormatMachO, symbols, sections), true
}

// machoCodeSymbol reports whether sym is a defined symbol in an
// instruction-bearing section. Debug (stab) entries are excluded outright.
func machoCodeSymbol(f *macho.File, sym macho.Symbol) bool {
	if sym.Type&machoNStab != 0 || sym.Type&machoNType != machoNSect {
		return false
	}
	i := int(sym.Sect) - 1
	if i < 0 || i >= len(f.Sections) {
		return false
	}
	s := f.Sections[i]
	if s.Flags&(machoAttrPureInstructions|machoAttrSomeInstructions) != 0 {
		return true
	}
	return s.Seg == "__TEXT" && s.Name == "__text"
}
