// Package colorize renders classified disassembly tokens for the terminal.
// Colors map token roles directly, no lexing involved; BINSPECT_NO_COLOR
// disables styling entirely.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"binspect/internal/disasm"
)

var (
	addrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	prefixStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	mnemonicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)
	registerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("73"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	symbolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	bytesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func enabled() bool {
	return os.Getenv("BINSPECT_NO_COLOR") == ""
}

// Token styles a single token according to its role.
func Token(t disasm.Token) string {
	if !enabled() {
		return t.Text
	}
	switch t.Kind {
	case disasm.KindPrefix:
		return prefixStyle.Render(t.Text)
	case disasm.KindMnemonic:
		return mnemonicStyle.Render(t.Text)
	case disasm.KindRegister:
		return registerStyle.Render(t.Text)
	case disasm.KindNumber:
		return numberStyle.Render(t.Text)
	default:
		return t.Text
	}
}

// Instruction formats one instruction line: padded address, raw bytes when
// requested, the styled token stream, and the resolved relocation target as a
// trailing annotation.
func Instruction(inst disasm.Instruction, showBytes bool) string {
	var b strings.Builder

	addr := fmt.Sprintf("%016x  ", inst.Address)
	if enabled() {
		addr = addrStyle.Render(addr)
	}
	b.WriteString(addr)

	if showBytes {
		raw := make([]string, len(inst.Bytes))
		for i, by := range inst.Bytes {
			raw[i] = fmt.Sprintf("%02x", by)
		}
		field := fmt.Sprintf("%-24s", strings.Join(raw, " "))
		if enabled() {
			field = bytesStyle.Render(field)
		}
		b.WriteString(field)
	}

	for _, t := range inst.Tokens {
		b.WriteString(Token(t))
	}

	if inst.Target != nil {
		note := "  ; -> " + inst.Target.DisplayName()
		if enabled() {
			note = symbolStyle.Render(note)
		}
		b.WriteString(note)
	}
	return b.String()
}

// Address styles a bare address, used for symbol listings.
func Address(addr uint64) string {
	s := fmt.Sprintf("%x", addr)
	if !enabled() {
		return s
	}
	return addrStyle.Render(s)
}

// SymbolName styles a symbol display name.
func SymbolName(name string) string {
	if !enabled() {
		return name
	}
	return symbolStyle.Render(name)
}
