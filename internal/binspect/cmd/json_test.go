package cmd

import (
	"testing"
	"unicode/utf8"

	"binspect/internal/object"
)

func TestSanitizeForJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "valid utf8", input: "hello"},
		{name: "invalid bytes", input: "bad\xff\xfename"},
		{name: "empty", input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := sanitizeForJSON(tt.input)
			if !utf8.ValidString(out) {
				t.Fatalf("sanitizeForJSON(%q) = %q, still invalid", tt.input, out)
			}
		})
	}
}

func TestContainersJSON(t *testing.T) {
	sec := object.NewSection(".text", 0x1000, make([]byte, 0x40), nil, []uint64{0x1000})
	sym := &object.Symbol{Name: "_Z3foov", Demangled: "foo()", Addr: 0x1000, Section: sec}

	store := object.NewStore()
	store.Add(object.NewContainer("a.o", "/tmp/a.o", object.FormatELF,
		map[uint32]*object.Symbol{1: sym}, []*object.Section{sec}))

	out := containersJSON(store)
	if len(out.Containers) != 1 {
		t.Fatalf("got %d containers, want 1", len(out.Containers))
	}
	c := out.Containers[0]
	if c.Format != "ELF" {
		t.Fatalf("format = %q", c.Format)
	}
	if len(c.Symbols) != 1 || c.Symbols[0].Demangled != "foo()" {
		t.Fatalf("symbols = %+v", c.Symbols)
	}
	if c.Symbols[0].Address != "0x1000" {
		t.Fatalf("address = %q", c.Symbols[0].Address)
	}
	if len(c.Sections) != 1 || c.Sections[0].Length != 0x40 {
		t.Fatalf("sections = %+v", c.Sections)
	}
}
