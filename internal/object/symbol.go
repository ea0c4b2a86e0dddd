package object

import "slices"

// Symbol is one executable-code symbol. Section is nil when the symbol's
// section was not retained (absolute and undefined symbols). Size is the
// declared size from the symbol table, which is frequently zero; extent
// estimation is the reliable span.
type Symbol struct {
	Name      string
	Demangled string
	Addr      uint64
	Section   *Section
	Size      uint64
}

// DisplayName returns the demangled name when demangling succeeded, else the
// raw name.
func (s *Symbol) DisplayName() string {
	if s.Demangled != "" {
		return s.Demangled
	}
	return s.Name
}

// EstimateSize derives the symbol's byte span from its neighbors: the code of
// a symbol runs until the next known symbol in the section, or the section
// end. All arithmetic is checked; an inconsistent layout yields no result
// rather than a wrapped value.
func (s *Symbol) EstimateSize() (uint64, bool) {
	sec := s.Section
	if sec == nil {
		return 0, false
	}
	i, found := slices.BinarySearch(sec.addrs, s.Addr)
	if !found {
		return 0, false
	}
	if i+1 == len(sec.addrs) {
		end, ok := sec.end()
		if !ok {
			return 0, false
		}
		return subChecked(end, s.Addr)
	}
	return subChecked(sec.addrs[i+1], s.Addr)
}

// Data returns the exact byte slice covering the symbol's estimated extent.
// It never reaches past the owning section's bytes; any out-of-range
// combination yields no result.
func (s *Symbol) Data() ([]byte, bool) {
	size, ok := s.EstimateSize()
	if !ok {
		return nil, false
	}
	off, ok := subChecked(s.Addr, s.Section.Addr)
	if !ok {
		return nil, false
	}
	end, ok := addChecked(off, size)
	if !ok {
		return nil, false
	}
	if end > uint64(len(s.Section.Data)) {
		return nil, false
	}
	if off == end {
		// Zero extent is a successful empty result, never nil.
		return []byte{}, true
	}
	return s.Section.Data[off:end], true
}
