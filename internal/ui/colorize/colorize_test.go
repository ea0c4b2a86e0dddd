package colorize

import (
	"strings"
	"testing"

	"binspect/internal/disasm"
)

func TestNoColorPassthrough(t *testing.T) {
	t.Setenv("BINSPECT_NO_COLOR", "1")

	tok := disasm.Token{Text: "mov", Kind: disasm.KindMnemonic}
	if got := Token(tok); got != "mov" {
		t.Fatalf("Token = %q, want unstyled text", got)
	}

	inst := disasm.Instruction{
		Address: 0x1000,
		Bytes:   []byte{0xc3},
		Tokens:  []disasm.Token{{Text: "ret", Kind: disasm.KindMnemonic}},
	}
	line := Instruction(inst, true)
	if !strings.Contains(line, "0000000000001000") {
		t.Fatalf("line %q missing padded address", line)
	}
	if !strings.Contains(line, "c3") {
		t.Fatalf("line %q missing raw bytes", line)
	}
	if !strings.Contains(line, "ret") {
		t.Fatalf("line %q missing token text", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("line %q contains escape sequences with color disabled", line)
	}
}
