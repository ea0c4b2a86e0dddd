package object

import (
	"math"
	"testing"
)

func testSection(addr uint64, length int, symbolAddrs []uint64) *Section {
	return NewSection(".text", addr, make([]byte, length), nil, symbolAddrs)
}

func TestEstimateSizeNeighbors(t *testing.T) {
	sec := testSection(0x1000, 0x80, []uint64{0x1000, 0x1040})
	foo := &Symbol{Name: "foo", Addr: 0x1000, Section: sec}
	bar := &Symbol{Name: "bar", Addr: 0x1040, Section: sec}

	size, ok := foo.EstimateSize()
	if !ok || size != 0x40 {
		t.Fatalf("EstimateSize(foo) = %#x, %v, want 0x40, true", size, ok)
	}
	size, ok = bar.EstimateSize()
	if !ok || size != 0x40 {
		t.Fatalf("EstimateSize(bar) = %#x, %v, want 0x40, true", size, ok)
	}
}

func TestEstimateSizeSingleSymbol(t *testing.T) {
	sec := testSection(0x2000, 0x20, []uint64{0x2000})
	sym := &Symbol{Name: "only", Addr: 0x2000, Section: sec}

	size, ok := sym.EstimateSize()
	if !ok || size != 0x20 {
		t.Fatalf("EstimateSize = %#x, %v, want 0x20, true", size, ok)
	}
}

func TestEstimateSizeFailures(t *testing.T) {
	tests := []struct {
		name string
		sym  *Symbol
	}{
		{
			name: "no section",
			sym:  &Symbol{Name: "orphan", Addr: 0x1000},
		},
		{
			name: "address not in section list",
			sym:  &Symbol{Name: "ghost", Addr: 0x1010, Section: testSection(0x1000, 0x80, []uint64{0x1000})},
		},
		{
			name: "symbol beyond section end",
			sym:  &Symbol{Name: "stray", Addr: 0x3000, Section: testSection(0x1000, 0x80, []uint64{0x3000})},
		},
		{
			name: "section end overflows",
			sym: &Symbol{
				Name:    "edge",
				Addr:    math.MaxUint64 - 0x10,
				Section: testSection(math.MaxUint64-0x10, 0x20, []uint64{math.MaxUint64 - 0x10}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size, ok := tt.sym.EstimateSize(); ok {
				t.Fatalf("EstimateSize = %#x, true, want failure", size)
			}
			if data, ok := tt.sym.Data(); ok {
				t.Fatalf("Data returned %d bytes, want failure", len(data))
			}
		})
	}
}

func TestDataBounds(t *testing.T) {
	// The next-symbol distance exceeds the section's actual byte length, so
	// the slice would run off the end.
	sec := testSection(0x1000, 0x20, []uint64{0x1000, 0x1040})
	sym := &Symbol{Name: "foo", Addr: 0x1000, Section: sec}

	if data, ok := sym.Data(); ok {
		t.Fatalf("Data returned %d bytes past section end, want failure", len(data))
	}
}

func TestDataBeforeSectionBase(t *testing.T) {
	sec := testSection(0x2000, 0x80, []uint64{0x1000})
	sym := &Symbol{Name: "low", Addr: 0x1000, Section: sec}

	if _, ok := sym.Data(); ok {
		t.Fatal("Data succeeded for address before section base")
	}
}

func TestDataExactSlice(t *testing.T) {
	sec := NewSection(".text", 0x1000, []byte{1, 2, 3, 4, 5, 6, 7, 8}, nil, []uint64{0x1000, 0x1004})
	foo := &Symbol{Name: "foo", Addr: 0x1000, Section: sec}
	bar := &Symbol{Name: "bar", Addr: 0x1004, Section: sec}

	data, ok := foo.Data()
	if !ok || len(data) != 4 || data[0] != 1 {
		t.Fatalf("Data(foo) = %v, %v", data, ok)
	}
	data, ok = bar.Data()
	if !ok || len(data) != 4 || data[0] != 5 {
		t.Fatalf("Data(bar) = %v, %v", data, ok)
	}
}

func TestDataZeroExtent(t *testing.T) {
	// A symbol at the end of an empty section has a zero extent; that is a
	// successful empty slice, not a failure and not nil.
	sec := NewSection(".text", 0x1000, nil, nil, []uint64{0x1000})
	sym := &Symbol{Name: "empty", Addr: 0x1000, Section: sec}

	data, ok := sym.Data()
	if !ok {
		t.Fatal("Data failed for zero extent")
	}
	if data == nil || len(data) != 0 {
		t.Fatalf("Data = %#v, want empty non-nil slice", data)
	}
}

func TestSymbolAddrsCopied(t *testing.T) {
	sec := NewSection(".text", 0x1000, make([]byte, 0x20), nil, []uint64{0x1000, 0x1010})
	sym := &Symbol{Name: "foo", Addr: 0x1000, Section: sec}

	addrs := sec.SymbolAddrs()
	addrs[0] = 0xffff

	if got := sec.SymbolAddrs(); got[0] != 0x1000 {
		t.Fatalf("caller mutation reached the section: %#x", got)
	}
	if size, ok := sym.EstimateSize(); !ok || size != 0x10 {
		t.Fatalf("EstimateSize after caller mutation = %#x, %v", size, ok)
	}
}

func TestSectionAddrsSorted(t *testing.T) {
	sec := NewSection(".text", 0, nil, nil, []uint64{0x30, 0x10, 0x20, 0x10})
	addrs := sec.SymbolAddrs()
	for i := 1; i < len(addrs); i++ {
		if addrs[i] < addrs[i-1] {
			t.Fatalf("address list not ascending: %#x", addrs)
		}
	}
}

func TestDisplayName(t *testing.T) {
	sym := &Symbol{Name: "_Z3foov", Demangled: "foo()"}
	if got := sym.DisplayName(); got != "foo()" {
		t.Fatalf("DisplayName = %q, want demangled form", got)
	}
	sym = &Symbol{Name: "plain"}
	if got := sym.DisplayName(); got != "plain" {
		t.Fatalf("DisplayName = %q, want raw name", got)
	}
}

func TestDemangle(t *testing.T) {
	tests := []struct {
		mangled string
		want    string
	}{
		{"_Z3foov", "foo()"},
		{"__Z3foov", "foo()"}, // Mach-O leading underscore
		{"not_mangled", ""},
		{"main", ""},
	}
	for _, tt := range tests {
		if got := Demangle(tt.mangled); got != tt.want {
			t.Errorf("Demangle(%q) = %q, want %q", tt.mangled, got, tt.want)
		}
	}
}
