package object

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

func matchELF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(elf.ELFMAG))
}

func parseELF(data []byte, name, path string) (*Container, bool) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	// Loadable sections, keyed by native section index. A section whose
	// content cannot be read is dropped, not a file-level error.
	builders := make(map[int]*sectionBuilder)
	var order []int
	for i, s := range f.Sections {
		if s.Type == elf.SHT_NULL || s.Type == elf.SHT_NOBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		content, err := s.Data() // decompresses SHF_COMPRESSED sections
		if err != nil {
			continue
		}
		builders[i] = &sectionBuilder{
			name:   lossyName(s.Name),
			addr:   s.Addr,
			data:   content,
			relocs: make(map[uint64]Relocation),
		}
		order = append(order, i)
	}

	syms := elfSymbols(f)

	// First pass: attribute code symbol addresses to their sections so the
	// per-section address lists are complete before freezing.
	for _, sym := range syms {
		if !elfCodeSymbol(f, sym) {
			continue
		}
		if b, ok := builders[elfSectionIndex(sym)]; ok {
			b.symbolAddrs = append(b.symbolAddrs, sym.Value)
		}
	}

	elfRelocations(f, builders)

	frozen := make(map[int]*Section, len(builders))
	sections := make([]*Section, 0, len(order))
	for _, i := range order {
		sec := builders[i].freeze()
		frozen[i] = sec
		sections = append(sections, sec)
	}

	// Second pass: build the retained symbols against the frozen sections.
	// Symbol-table index 0 is the reserved null entry, so the native index of
	// syms[i] is i+1.
	symbols := make(map[uint32]*Symbol)
	for i, sym := range syms {
		if !elfCodeSymbol(f, sym) {
			continue
		}
		raw := lossyName(sym.Name)
		symbols[uint32(i+1)] = &Symbol{
			Name:      raw,
			Demangled: Demangle(raw),
			Addr:      sym.Value,
			Section:   frozen[elfSectionIndex(sym)],
			Size:      sym.Size,
		}
	}

	return NewContainer(name, path, FormatELF, symbols, sections), true
}

// elfSymbols prefers the static symbol table and falls back to the dynamic
// one for stripped binaries. Native indexes (and relocation targets) are
// relative to whichever table was used.
func elfSymbols(f *elf.File) []elf.Symbol {
	if syms, err := f.Symbols(); err == nil && len(syms) > 0 {
		return syms
	}
	syms, err := f.DynamicSymbols()
	if err != nil {
		return nil
	}
	return syms
}

// elfCodeSymbol reports whether sym is an executable-code symbol: STT_FUNC
// (defined or undefined), or an untyped symbol defined in an executable
// section, which is how assembler-local labels surface.
func elfCodeSymbol(f *elf.File, sym elf.Symbol) bool {
	switch elf.ST_TYPE(sym.Info) {
	case elf.STT_FUNC:
		return true
	case elf.STT_NOTYPE:
		i := elfSectionIndex(sym)
		return i > 0 && i < len(f.Sections) && f.Sections[i].Flags&elf.SHF_EXECINSTR != 0
	}
	return false
}

// elfSectionIndex returns the plain section index for sym, or -1 for
// undefined, absolute, and other reserved values.
func elfSectionIndex(sym elf.Symbol) int {
	if sym.Section == elf.SHN_UNDEF || sym.Section >= elf.SHN_LORESERVE {
		return -1
	}
	return int(sym.Section)
}

// elfRelocations records each SHT_RELA/SHT_REL entry against the section it
// applies to (sh_info), keyed by fixup virtual address. Later duplicates
// replace earlier ones.
func elfRelocations(f *elf.File, builders map[int]*sectionBuilder) {
	for _, s := range f.Sections {
		if s.Type != elf.SHT_RELA && s.Type != elf.SHT_REL {
			continue
		}
		target, ok := builders[int(s.Info)]
		if !ok {
			continue
		}
		rd := s.Open()
		for {
			var off uint64
			var symIdx uint32
			var err error
			switch {
			case f.Class == elf.ELFCLASS64 && s.Type == elf.SHT_RELA:
				var r elf.Rela64
				if err = binary.Read(rd, f.ByteOrder, &r); err == nil {
					off, symIdx = r.Off, elf.R_SYM64(r.Info)
				}
			case f.Class == elf.ELFCLASS64 && s.Type == elf.SHT_REL:
				var r elf.Rel64
				if err = binary.Read(rd, f.ByteOrder, &r); err == nil {
					off, symIdx = r.Off, elf.R_SYM64(r.Info)
				}
			case f.Class == elf.ELFCLASS32 && s.Type == elf.SHT_RELA:
				var r elf.Rela32
				if err = binary.Read(rd, f.ByteOrder, &r); err == nil {
					off, symIdx = uint64(r.Off), elf.R_SYM32(r.Info)
				}
			case f.Class == elf.ELFCLASS32 && s.Type == elf.SHT_REL:
				var r elf.Rel32
				if err = binary.Read(rd, f.ByteOrder, &r); err == nil {
					off, symIdx = uint64(r.Off), elf.R_SYM32(r.Info)
				}
			default:
				return
			}
			if err != nil {
				break
			}
			addr, ok := addChecked(target.addr, off)
			if !ok {
				continue
			}
			rel := Relocation{Kind: TargetOther}
			if symIdx != 0 {
				rel = Relocation{Kind: TargetSymbol, Index: symIdx}
			}
			target.relocs[addr] = rel
		}
	}
}
