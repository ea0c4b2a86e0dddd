package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"binspect/internal/disasm"
	"binspect/internal/object"
)

// JSONOutput is the machine-readable dump of the open containers, used for
// regression comparisons across runs.
type JSONOutput struct {
	Containers []ContainerJSON `json:"containers" jsonschema:"title=Containers,description=All containers parsed from the selected files"`
}

type ContainerJSON struct {
	Name     string        `json:"name" jsonschema:"title=Name,description=Display name of the container"`
	Path     string        `json:"path" jsonschema:"title=Path,description=Originating file path"`
	Format   string        `json:"format" jsonschema:"title=Format,description=Detected container format"`
	Symbols  []SymbolJSON  `json:"symbols" jsonschema:"title=Symbols,description=Executable-code symbols sorted by name"`
	Sections []SectionJSON `json:"sections" jsonschema:"title=Sections,description=Loadable sections"`
}

type SectionJSON struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Length  int    `json:"length"`
}

type SymbolJSON struct {
	Name      string `json:"name"`
	Demangled string `json:"demangled,omitempty"`
	Address   string `json:"address"`
	Section   string `json:"section,omitempty"`
	Size      uint64 `json:"size"`
}

type InstructionJSON struct {
	Address string `json:"address"`
	Bytes   string `json:"bytes"`
	Text    string `json:"text"`
	Target  string `json:"target,omitempty"`
}

// sanitizeForJSON cleans a string to be valid UTF-8 and safe for JSON encoding
func sanitizeForJSON(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

func containersJSON(store *object.Store) JSONOutput {
	var out JSONOutput
	for _, c := range store.Containers() {
		cj := ContainerJSON{
			Name:   sanitizeForJSON(c.Name),
			Path:   sanitizeForJSON(c.Path),
			Format: c.Format.String(),
		}
		for _, sec := range c.Sections {
			cj.Sections = append(cj.Sections, SectionJSON{
				Name:    sanitizeForJSON(sec.Name),
				Address: fmt.Sprintf("%#x", sec.Addr),
				Length:  len(sec.Data),
			})
		}
		for _, sym := range c.Symbols {
			sj := SymbolJSON{
				Name:      sanitizeForJSON(sym.Name),
				Demangled: sanitizeForJSON(sym.Demangled),
				Address:   fmt.Sprintf("%#x", sym.Addr),
				Size:      sym.Size,
			}
			if sym.Section != nil {
				sj.Section = sanitizeForJSON(sym.Section.Name)
			}
			cj.Symbols = append(cj.Symbols, sj)
		}
		out.Containers = append(out.Containers, cj)
	}
	return out
}

func instructionsJSON(asm *disasm.Assembly) []InstructionJSON {
	out := make([]InstructionJSON, 0, len(asm.Instructions))
	for _, inst := range asm.Instructions {
		raw := make([]string, len(inst.Bytes))
		for i, b := range inst.Bytes {
			raw[i] = fmt.Sprintf("%02x", b)
		}
		ij := InstructionJSON{
			Address: fmt.Sprintf("%#x", inst.Address),
			Bytes:   strings.Join(raw, " "),
			Text:    sanitizeForJSON(inst.Text()),
		}
		if inst.Target != nil {
			ij.Target = sanitizeForJSON(inst.Target.DisplayName())
		}
		out = append(out, ij)
	}
	return out
}
