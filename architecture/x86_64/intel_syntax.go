package x86_64

import (
	"fmt"
	"strconv"
	"strings"
)

// ToIntelSyntax renders i in Intel syntax: lowercased prefix, mnemonic
// padded to opcodePad, comma-separated operands, with a destination-mask
// suffix on the first operand when present, per spec.md §4.5.
func ToIntelSyntax(i Instruction, opcodePad int, shortHex bool) string {
	var b strings.Builder

	if i.Prefix != PrefixNone {
		b.WriteString(i.Prefix.String())
		b.WriteByte(' ')
	}

	mnemonic := MnemonicOf(i.Opcode)
	b.WriteString(mnemonic)
	if i.NumOperands > 0 {
		pad := opcodePad - len(mnemonic)
		if pad < 1 {
			pad = 1
		}
		for n := 0; n < pad; n++ {
			b.WriteByte(' ')
		}
	}

	for idx := 0; idx < i.NumOperands; idx++ {
		if idx > 0 {
			b.WriteString(",")
		}
		b.WriteString(operandToIntelSyntax(i.Operands[idx], i.Opcode, shortHex))
		if idx == 0 && i.HasMask {
			b.WriteString("{")
			b.WriteString(i.Mask.Name)
			b.WriteString("}")
			if i.ZeroMask {
				b.WriteString("{z}")
			}
		}
	}

	return b.String()
}

// opcodeImpliesPointerSize reports whether this opcode's operand size is
// implicit, so the pointer-size token (BYTE PTR, ...) should be omitted
// for its memory operands, per spec.md §4.5.
func opcodeImpliesPointerSize(op Opcode) bool {
	return op == LEA
}

func operandToIntelSyntax(o Operand, op Opcode, shortHex bool) string {
	switch v := o.(type) {
	case Register:
		return v.Name
	case Immediate:
		return formatImmediate(v, shortHex)
	case SegmentedAddress:
		return fmt.Sprintf("%s:0x%x", v.Segment.Name, v.Immediate)
	case *IndirectOperand:
		return indirectToIntelSyntax(v, op)
	}
	return ""
}

func formatImmediate(imm Immediate, shortHex bool) string {
	u := uint64(imm.Value)
	if imm.Value < 0 {
		switch imm.Bits {
		case 8:
			u = uint64(uint8(imm.Value))
		case 16:
			u = uint64(uint16(imm.Value))
		case 32:
			u = uint64(uint32(imm.Value))
		}
	}
	if shortHex {
		return fmt.Sprintf("0x%x", u)
	}
	digits := imm.Bits / 4
	return fmt.Sprintf("0x%0*x", digits, u)
}

// usesCompressedDisplacement reports whether op's EVEX memory form renders
// a disp8 displacement as a multiple of 32, the EVEX compressed-displacement
// convention spec.md §4.5 calls out for VPTERNLOGD/VPMINUB/VPMINUD. The
// wire byte itself is untouched (encode/decode both carry the raw disp8);
// only the printed text is scaled.
func usesCompressedDisplacement(op Opcode) bool {
	switch op {
	case VPTERNLOGD, VPMINUB, VPMINUD:
		return true
	}
	return false
}

func indirectToIntelSyntax(io *IndirectOperand, op Opcode) string {
	var b strings.Builder
	if !opcodeImpliesPointerSize(op) && io.PointerSize != PtrNone {
		b.WriteString(io.PointerSize.String())
		b.WriteByte(' ')
	}

	absolute := !io.HasBase && !io.HasIndex
	if io.Segment.Bank == Segment {
		b.WriteString(io.Segment.Name)
		b.WriteByte(':')
	} else if absolute {
		b.WriteString("ds:")
	}

	if !absolute {
		b.WriteByte('[')
	}
	wrote := false
	if io.HasBase {
		b.WriteString(io.Base.Name)
		wrote = true
	}
	if io.HasIndex {
		if wrote {
			b.WriteByte('+')
		}
		b.WriteString(io.Index.Name)
		b.WriteString("*")
		b.WriteString(strconv.Itoa(int(io.Scale)))
		wrote = true
	}
	if io.DispKind != DispNone || !wrote {
		disp := io.Displacement
		if io.DispKind == DispByte && usesCompressedDisplacement(op) {
			disp *= 32
		}
		if wrote {
			if disp < 0 {
				b.WriteString("-0x")
				fmt.Fprintf(&b, "%x", -int64(disp))
			} else {
				b.WriteString("+0x")
				fmt.Fprintf(&b, "%x", disp)
			}
		} else {
			fmt.Fprintf(&b, "0x%x", uint32(disp))
		}
	}
	if !absolute {
		b.WriteByte(']')
	}
	return b.String()
}

// tokenKind is narrowed from keurnel-assembler's TokenType enum to just
// the handful of categories a single instruction line needs.
type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokComma
	tokLBracket
	tokRBracket
	tokPlus
	tokMinus
	tokStar
	tokColon
	tokLBrace
	tokRBrace
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lexLine tokenises a single Intel-syntax instruction line, mirroring
// keurnel-assembler's token/token-type split but scoped to this grammar
// instead of a full assembly file.
func lexLine(line string) []token {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case c == '{':
			toks = append(toks, token{tokLBrace, "{"})
			i++
		case c == '}':
			toks = append(toks, token{tokRBrace, "}"})
			i++
		case c == '+':
			toks = append(toks, token{tokPlus, "+"})
			i++
		case c == '-':
			toks = append(toks, token{tokMinus, "-"})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case c == ':':
			toks = append(toks, token{tokColon, ":"})
			i++
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != ',' && line[j] != '[' && line[j] != ']' &&
				line[j] != '+' && line[j] != '-' && line[j] != '*' && line[j] != ':' && line[j] != '{' && line[j] != '}' {
				j++
			}
			word := line[i:j]
			if word == "" {
				i++
				continue
			}
			if isNumberLiteral(word) {
				toks = append(toks, token{tokNumber, word})
			} else {
				toks = append(toks, token{tokIdent, word})
			}
			i = j
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks
}

func isNumberLiteral(s string) bool {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return len(s) > 2
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseNumberLiteral(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return int64(v), err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err
}

var pointerSizeByToken = map[string]PointerSize{
	"BYTE":     PtrByte,
	"WORD":     PtrWord,
	"DWORD":    PtrDWord,
	"QWORD":    PtrQWord,
	"XMMWORD":  PtrXMMWord,
	"YMMWORD":  PtrYMMWord,
	"ZMMWORD":  PtrZMMWord,
}

// FromIntelSyntax parses a single instruction line in the grammar
// ToIntelSyntax emits: prefix? mnemonic operand(,operand)*. It is not a
// general assembler, and it does not invert every printed form: a
// compressed (scaled) displacement is read back as the printed, unscaled
// value, and an absolute "PTR ds:0x..." operand is read as a
// SegmentedAddress rather than an IndirectOperand.
func FromIntelSyntax(text string) (Instruction, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Instruction{}, &InvalidInstructionError{Reason: "empty instruction text"}
	}

	idx := 0
	prefix := PrefixNone
	switch fields[idx] {
	case "lock":
		prefix = PrefixLock
		idx++
	case "rep":
		prefix = PrefixRep
		idx++
	case "repnz":
		prefix = PrefixRepNZ
		idx++
	}
	if idx >= len(fields) {
		return Instruction{}, &InvalidInstructionError{Reason: "missing mnemonic"}
	}

	mnemonic := fields[idx]
	rest := strings.Join(fields[idx+1:], " ")

	op, ok := OpcodeByMnemonic(mnemonic)
	if !ok {
		return Instruction{}, &InvalidInstructionError{Reason: "unknown mnemonic " + mnemonic}
	}

	instr := Instruction{Prefix: prefix, Opcode: op}
	if rest == "" {
		return instr, nil
	}

	operandTexts := splitOperands(rest)
	for n, ot := range operandTexts {
		maskName, zero, base := splitMaskSuffix(ot)
		operand, err := parseOperandText(base)
		if err != nil {
			return Instruction{}, err
		}
		instr.Operands[n] = operand
		instr.NumOperands++
		if n == 0 && maskName != "" {
			maskReg, ok := RegistersByName[maskName]
			if !ok || maskReg.Bank != Mask {
				return Instruction{}, &InvalidInstructionError{Reason: "unknown mask register " + maskName}
			}
			instr.HasMask = true
			instr.Mask = maskReg
			instr.ZeroMask = zero
		}
	}
	return instr, nil
}

// splitOperands splits a comma-joined operand list, respecting brackets
// so a memory operand's internal commas (none occur in this grammar, but
// future pointer-size tokens might) never split incorrectly.
func splitOperands(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func splitMaskSuffix(s string) (maskName string, zero bool, base string) {
	base = s
	zero = strings.HasSuffix(base, "{z}")
	if zero {
		base = strings.TrimSuffix(base, "{z}")
	}
	if i := strings.Index(base, "{"); i >= 0 && strings.HasSuffix(base, "}") {
		maskName = base[i+1 : len(base)-1]
		base = base[:i]
	}
	return maskName, zero, base
}

func parseOperandText(s string) (Operand, error) {
	s = strings.TrimSpace(s)

	fields := strings.Fields(s)
	ptrSize := PtrNone
	rem := s
	if len(fields) >= 2 && fields[1] == "PTR" {
		if ps, ok := pointerSizeByToken[fields[0]]; ok {
			ptrSize = ps
			rem = strings.TrimSpace(strings.TrimPrefix(s, fields[0]+" PTR"))
		}
	}

	if strings.Contains(rem, "[") {
		return parseIndirectText(rem, ptrSize)
	}

	if strings.Contains(rem, ":") && !strings.Contains(rem, "[") {
		parts := strings.SplitN(rem, ":", 2)
		seg, ok := RegistersByName[parts[0]]
		if !ok {
			return nil, &InvalidInstructionError{Reason: "unknown segment register " + parts[0]}
		}
		v, err := parseNumberLiteral(parts[1])
		if err != nil {
			return nil, &InvalidInstructionError{Reason: "bad segmented immediate"}
		}
		return SegmentedAddress{Segment: seg, Immediate: v}, nil
	}

	if reg, ok := RegistersByName[rem]; ok {
		return reg, nil
	}

	if isNumberLiteral(rem) {
		v, err := parseNumberLiteral(rem)
		if err != nil {
			return nil, &InvalidInstructionError{Reason: "bad immediate " + rem}
		}
		return Immediate{Value: v, Bits: immediateBitsFor(v)}, nil
	}

	return nil, &InvalidInstructionError{Reason: "unrecognized operand " + s}
}

func immediateBitsFor(v int64) int {
	switch {
	case v >= -128 && v <= 127:
		return 8
	case v >= -32768 && v <= 32767:
		return 16
	case v >= -2147483648 && v <= 2147483647:
		return 32
	default:
		return 64
	}
}

func parseIndirectText(s string, ptrSize PointerSize) (Operand, error) {
	segName := ""
	body := s
	if i := strings.Index(s, ":"); i >= 0 && i < strings.Index(s, "[") {
		segName = s[:i]
		body = s[i+1:]
	}
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")

	toks := lexLine(body)
	var opts []IndirectOption
	if segName != "" {
		seg, ok := RegistersByName[segName]
		if !ok {
			return nil, &InvalidInstructionError{Reason: "unknown segment register " + segName}
		}
		opts = append(opts, WithSegment(seg))
	}

	i := 0
	var pendingIndex Register
	var havePendingIndex bool
	var scale uint8 = 1
	var dispSign int64 = 1
	for i < len(toks) && toks[i].kind != tokEOF {
		t := toks[i]
		switch t.kind {
		case tokIdent:
			if reg, ok := RegistersByName[t.text]; ok {
				if i+1 < len(toks) && toks[i+1].kind == tokStar {
					pendingIndex = reg
					havePendingIndex = true
				} else {
					opts = append(opts, WithBase(reg))
				}
			}
		case tokNumber:
			v, err := parseNumberLiteral(t.text)
			if err != nil {
				return nil, &InvalidInstructionError{Reason: "bad displacement"}
			}
			if havePendingIndex && i > 0 && toks[i-1].kind == tokStar {
				scale = uint8(v)
			} else {
				opts = append(opts, WithDisplacement(int32(dispSign*v), dispKindFor(v)))
			}
		case tokMinus:
			dispSign = -1
		case tokPlus:
			dispSign = 1
		}
		i++
	}
	if havePendingIndex {
		opts = append(opts, WithIndexScale(pendingIndex, scale))
	}

	return NewIndirect(ptrSize, opts...)
}

func dispKindFor(v int64) DisplacementKind {
	if v >= -128 && v <= 127 {
		return DispByte
	}
	return DispDWord
}
