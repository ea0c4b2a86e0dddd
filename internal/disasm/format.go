package disasm

import (
	"strconv"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"binspect/internal/object"
)

// operandColumn is where the first operand starts; mnemonics are padded out
// to it.
const operandColumn = 10

// writer collects format tokens for one instruction. While a resolved
// relocation target is set, every numeric literal is suppressed and the first
// suppression emits the target's display name instead, so relocated
// references are never shown as bare numbers.
type writer struct {
	tokens      []Token
	target      *object.Symbol
	substituted bool
}

func (w *writer) emit(text string, kind Kind) {
	w.tokens = append(w.tokens, Token{Text: text, Kind: kind})
}

func (w *writer) text(s string)     { w.emit(s, KindText) }
func (w *writer) register(s string) { w.emit(s, KindRegister) }

func (w *writer) number(s string) {
	if w.target != nil {
		if !w.substituted {
			w.emit(w.target.DisplayName(), KindText)
			w.substituted = true
		}
		return
	}
	w.emit(s, KindNumber)
}

// writeInst formats inst in Intel convention at pc.
func writeInst(w *writer, inst x86asm.Inst, pc uint64) {
	col := 0
	for _, p := range inst.Prefix {
		if p == 0 || p&x86asm.PrefixImplicit != 0 || p&x86asm.PrefixIgnored != 0 || p.IsREX() {
			continue
		}
		name := strings.ToLower(p.String())
		w.emit(name, KindPrefix)
		w.text(" ")
		col += len(name) + 1
	}

	mnemonic := strings.ToLower(inst.Op.String())
	w.emit(mnemonic, KindMnemonic)
	col += len(mnemonic)

	for i, arg := range inst.Args {
		if arg == nil {
			break
		}
		if i == 0 {
			pad := operandColumn - col
			if pad < 1 {
				pad = 1
			}
			w.text(strings.Repeat(" ", pad))
		} else {
			w.text(", ")
		}
		writeArg(w, inst, arg, pc)
	}
}

func writeArg(w *writer, inst x86asm.Inst, arg x86asm.Arg, pc uint64) {
	switch a := arg.(type) {
	case x86asm.Reg:
		w.register(strings.ToLower(a.String()))
	case x86asm.Imm:
		w.number(hexInt(int64(a)))
	case x86asm.Rel:
		// Branch displacement rendered as its absolute target.
		w.number("0x" + strconv.FormatUint(pc+uint64(inst.Len)+uint64(int64(a)), 16))
	case x86asm.Mem:
		writeMem(w, inst, a)
	default:
		w.text(arg.String())
	}
}

func writeMem(w *writer, inst x86asm.Inst, m x86asm.Mem) {
	if kw := ptrKeyword(inst.MemBytes); kw != "" {
		w.text(kw + " ptr ")
	}
	if m.Segment != 0 {
		w.register(strings.ToLower(m.Segment.String()))
		w.text(":")
	}
	w.text("[")
	wrote := false
	if m.Base != 0 {
		w.register(strings.ToLower(m.Base.String()))
		wrote = true
	}
	if m.Index != 0 {
		if wrote {
			w.text("+")
		}
		w.register(strings.ToLower(m.Index.String()))
		w.text("*")
		w.number(strconv.Itoa(int(m.Scale)))
		wrote = true
	}
	if m.Disp != 0 || !wrote {
		switch {
		case !wrote:
			w.number(hexInt(m.Disp))
		case m.Disp < 0:
			w.text("-")
			w.number(hexUint(uint64(-m.Disp)))
		default:
			w.text("+")
			w.number(hexUint(uint64(m.Disp)))
		}
	}
	w.text("]")
}

func ptrKeyword(memBytes int) string {
	switch memBytes {
	case 1:
		return "byte"
	case 2:
		return "word"
	case 4:
		return "dword"
	case 8:
		return "qword"
	case 16:
		return "xmmword"
	case 32:
		return "ymmword"
	}
	return ""
}

func hexInt(v int64) string {
	if v < 0 {
		return "-0x" + strconv.FormatUint(uint64(-v), 16)
	}
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

func hexUint(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
