// Package disasm decodes a symbol's byte extent into x86-64 instructions and
// formats them as token streams classified by syntactic role, substituting
// relocated references with symbol names.
package disasm

import (
	"golang.org/x/arch/x86/x86asm"

	"binspect/internal/object"
)

// Kind classifies a format token for presentation.
type Kind int

const (
	KindText Kind = iota
	KindPrefix
	KindMnemonic
	KindRegister
	KindNumber
)

// Token is one formatted fragment of an instruction.
type Token struct {
	Text string
	Kind Kind
}

// Instruction is one decoded machine instruction. Target is the resolved
// relocation-target symbol, when a relocation covering the instruction
// resolves to a known code symbol.
type Instruction struct {
	Address uint64
	Bytes   []byte
	Tokens  []Token
	Target  *object.Symbol
}

// Text joins the token stream into the plain formatted line.
func (i Instruction) Text() string {
	var n int
	for _, t := range i.Tokens {
		n += len(t.Text)
	}
	buf := make([]byte, 0, n)
	for _, t := range i.Tokens {
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

// Assembly is the address-ordered instruction sequence covering one symbol's
// estimated extent. Immutable once returned.
type Assembly struct {
	Instructions []Instruction
}

// Assemble decodes sym's byte extent, starting the instruction pointer at the
// symbol's address. It reports false when the extent cannot be resolved
// ("assembly unavailable"); malformed trailing bytes truncate the sequence
// instead. A zero-length extent yields an empty assembly.
func Assemble(c *object.Container, sym *object.Symbol) (*Assembly, bool) {
	code, ok := sym.Data()
	if !ok {
		return nil, false
	}

	asm := &Assembly{}
	pc := sym.Addr
	for len(code) > 0 {
		inst, err := x86asm.Decode(code, 64)
		// A lone prefix byte at end of input decodes as a zero Op with no
		// error; that is a truncated instruction, not a decodable one.
		if err != nil || inst.Op == 0 || inst.Len <= 0 || inst.Len > len(code) {
			break
		}

		target := resolveTarget(c, sym.Section, pc, inst.Len)

		w := &writer{target: target}
		writeInst(w, inst, pc)

		asm.Instructions = append(asm.Instructions, Instruction{
			Address: pc,
			Bytes:   code[:inst.Len:inst.Len],
			Tokens:  w.tokens,
			Target:  target,
		})

		pc += uint64(inst.Len)
		code = code[inst.Len:]
	}
	return asm, true
}

// resolveTarget probes each byte offset the instruction spans for a
// relocation, first match wins. Only symbol-targeted relocations that map to
// a retained code symbol resolve; anything else yields no substitution.
func resolveTarget(c *object.Container, sec *object.Section, pc uint64, n int) *object.Symbol {
	if sec == nil {
		return nil
	}
	for i := 0; i < n; i++ {
		r, ok := sec.RelocAt(pc + uint64(i))
		if !ok {
			continue
		}
		if r.Kind == object.TargetSymbol {
			if target, ok := c.SymbolByIndex(r.Index); ok {
				return target
			}
		}
		return nil
	}
	return nil
}
