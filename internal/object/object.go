// Package object models parsed binary containers: sections, executable-code
// symbols, relocations, and the arithmetic that recovers a symbol's byte span
// when the symbol table carries no reliable sizes.
package object

import (
	"sort"
	"sync"
)

// Format identifies the container format a buffer was parsed as.
type Format int

const (
	FormatUnknown Format = iota
	FormatELF
	FormatMachO
	FormatPE
)

func (f Format) String() string {
	switch f {
	case FormatELF:
		return "ELF"
	case FormatMachO:
		return "Mach-O"
	case FormatPE:
		return "PE/COFF"
	default:
		return "unknown"
	}
}

// Store is the list of open containers. The loader appends to it; everything
// else only reads. It is injected rather than ambient so tests and callers can
// hold isolated instances.
type Store struct {
	mu         sync.Mutex
	containers []*Container
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a container. The loader calls this for every successful parse;
// it is exported so callers can stage externally constructed containers.
func (s *Store) Add(c *Container) {
	s.mu.Lock()
	s.containers = append(s.containers, c)
	s.mu.Unlock()
}

// Containers returns a snapshot of the open-container list.
func (s *Store) Containers() []*Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Container, len(s.containers))
	copy(out, s.containers)
	return out
}

// Container is one successfully parsed object file (top-level or archive
// member). It is immutable after construction.
type Container struct {
	Name   string
	Path   string
	Format Format

	// Symbols is sorted by raw name.
	Symbols  []*Symbol
	Sections []*Section

	// byIndex keys symbols by the format's native symbol-table index, the
	// identity relocation targets are expressed in.
	byIndex map[uint32]*Symbol
}

// NewContainer freezes a symbol map and section list into a Container. The
// name-sorted symbol slice is derived here.
func NewContainer(name, path string, format Format, symbols map[uint32]*Symbol, sections []*Section) *Container {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Addr < sorted[j].Addr
	})

	return &Container{
		Name:     name,
		Path:     path,
		Format:   format,
		Symbols:  sorted,
		Sections: sections,
		byIndex:  symbols,
	}
}

// SymbolByIndex resolves a native symbol-table index to a retained code
// symbol. Indexes of non-code symbols do not resolve.
func (c *Container) SymbolByIndex(i uint32) (*Symbol, bool) {
	sym, ok := c.byIndex[i]
	return sym, ok
}
