package x86_64

import "github.com/vexcore/elfdis/internal/ioreader"

// operandWidth resolves the effective GPR operand width for the current
// prefix state, per spec.md §4.3 ("Operand-size rules"): REX.W wins,
// then the 0x66 override, default 32.
func operandWidth(p *prefixBlock) int {
	switch {
	case p.rexW():
		return 64
	case p.OperandSizeOverride:
		return 16
	default:
		return 32
	}
}

func ptrSizeForWidth(bits int) PointerSize {
	switch bits {
	case 8:
		return PtrByte
	case 16:
		return PtrWord
	case 32:
		return PtrDWord
	case 64:
		return PtrQWord
	}
	return PtrNone
}

// DecodeOne decodes a single instruction starting at the cursor's current
// position, advancing the cursor by exactly the number of bytes the
// instruction occupies (spec.md §8 property 3).
func DecodeOne(c *ioreader.ReadCursor) (Instruction, error) {
	startPos := c.Position()

	prefixes, err := parsePrefixes(c)
	if err != nil {
		return Instruction{}, err
	}

	opPos := c.Position()
	op1, err := c.Read1()
	if err != nil {
		return Instruction{}, &DecodingError{Offset: startPos, Msg: "truncated instruction: no opcode byte"}
	}

	switch {
	case prefixes.HasEVEX:
		return decodeEVEXOpcode(c, &prefixes, op1, opPos)
	case prefixes.HasVEX3:
		return decodeVEX3Opcode(c, &prefixes, op1, opPos)
	case prefixes.HasVEX2:
		return decodeVEX2Opcode(c, &prefixes, op1, opPos)
	}

	if op1 == 0x0F {
		escPos := c.Position()
		op2, err := c.Read1()
		if err != nil {
			return Instruction{}, &DecodingError{Offset: escPos, Msg: "truncated two-byte opcode escape"}
		}
		return decodeTwoByteOpcode(c, &prefixes, op2, opPos)
	}

	return decodeOneByteOpcode(c, &prefixes, op1, opPos)
}

// DecodeAll decodes n bytes' worth of instructions from the cursor,
// stopping at the first error and returning the partial slice alongside
// it (spec.md §7 "Propagation").
func DecodeAll(c *ioreader.ReadCursor, n int) ([]Instruction, error) {
	end := c.Position() + n
	var out []Instruction
	for c.Position() < end {
		instr, err := DecodeOne(c)
		if err != nil {
			return out, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func decodeOneByteOpcode(c *ioreader.ReadCursor, p *prefixBlock, op1 byte, opPos int) (Instruction, error) {
	width := operandWidth(p)

	switch {
	case op1 == 0x90 && !p.HasREX:
		return NewInstruction(NOP), nil

	case op1 == 0x89: // MOV Ev, Gv
		return decodeALUModRM(c, p, MOV, width, true, opPos)
	case op1 == 0x8B: // MOV Gv, Ev
		return decodeALUModRM(c, p, MOV, width, false, opPos)

	case op1 == 0x8D: // LEA Gv, M
		_, rm, reg, err := decodeRegAndModRM(c, p, width, PtrNone, opPos)
		if err != nil {
			return Instruction{}, err
		}
		io, ok := rm.(*IndirectOperand)
		if !ok {
			return Instruction{}, &DecodingError{Offset: opPos, Msg: "lea requires a memory operand"}
		}
		return NewInstruction(LEA, reg, io), nil

	case op1 >= 0x50 && op1 <= 0x57:
		idx := combineIndex(op1-0x50, p.rexB(), false)
		return NewInstruction(PUSH, gprOfWidth(64, idx)), nil
	case op1 >= 0x58 && op1 <= 0x5F:
		idx := combineIndex(op1-0x58, p.rexB(), false)
		return NewInstruction(POP, gprOfWidth(64, idx)), nil

	case op1 == 0x80:
		return decodeGroup1(c, p, width8(), 1, opPos)
	case op1 == 0x81:
		return decodeGroup1(c, p, width, 4, opPos)
	case op1 == 0x83:
		return decodeGroup1(c, p, width, 1, opPos)

	case op1 == 0xC0:
		return decodeGroup2(c, p, width8(), true, opPos)
	case op1 == 0xC1:
		return decodeGroup2(c, p, width, true, opPos)
	case op1 == 0xD0:
		return decodeGroup2(c, p, width8(), false, opPos)
	case op1 == 0xD1:
		return decodeGroup2(c, p, width, false, opPos)
	case op1 == 0xD2 || op1 == 0xD3: // shift/rotate by CL
		w := width
		if op1 == 0xD2 {
			w = 8
		}
		m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(w), w, ptrSizeForWidth(w))
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(group2Ops[m.Reg], rm, CL), nil

	case op1 == 0xF6:
		return decodeGroup3(c, p, width8(), opPos)
	case op1 == 0xF7:
		return decodeGroup3(c, p, width, opPos)

	case op1 == 0xFE:
		return decodeGroup4(c, p, opPos)
	case op1 == 0xFF:
		return decodeGroup5(c, p, width, opPos)

	case op1 == 0xC3:
		return NewInstruction(RET), nil
	case op1 == 0xF4:
		return NewInstruction(HLT), nil

	case op1 == 0xE8: // CALL rel32
		d, err := readRel32(c, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(CALL, Immediate{Value: int64(d), Bits: 32}), nil
	case op1 == 0xE9: // JMP rel32
		d, err := readRel32(c, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(JMP, Immediate{Value: int64(d), Bits: 32}), nil
	case op1 == 0xEB: // JMP rel8
		d, err := readRel8(c, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(JMP, Immediate{Value: int64(d), Bits: 8}), nil

	case op1 >= 0x70 && op1 <= 0x7F:
		d, err := readRel8(c, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(condJumpByTTTN[op1-0x70], Immediate{Value: int64(d), Bits: 8}), nil

	case op1 == 0x63: // MOVSXD Gv, Ed
		_, rm, reg, err := decodeRegAndModRMWithWidths(c, p, width, 32, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(MOVSXD, reg, rm), nil

	case op1 == 0x06 || op1 == 0x0E || op1 == 0x16 || op1 == 0x1E: // push es/cs/ss/ds
		return Instruction{}, &InvalidLegacyOpcodeError{Offset: opPos, Mnemonic: "push <segment>"}
	case op1 == 0x37 || op1 == 0x3F || op1 == 0xD4 || op1 == 0xD5: // aaa/aas/aam/aad
		return Instruction{}, &InvalidLegacyOpcodeError{Offset: opPos, Mnemonic: "aaa/aas/aam/aad"}
	case op1 == 0x60 || op1 == 0x61: // pusha/popa
		return Instruction{}, &InvalidLegacyOpcodeError{Offset: opPos, Mnemonic: "pusha/popa"}
	case op1 == 0xCE: // into
		return Instruction{}, &InvalidLegacyOpcodeError{Offset: opPos, Mnemonic: "into"}
	}

	return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{op1}}
}

func width8() int { return 8 }

func decodeTwoByteOpcode(c *ioreader.ReadCursor, p *prefixBlock, op2 byte, opPos int) (Instruction, error) {
	width := operandWidth(p)

	switch {
	case op2 >= 0x80 && op2 <= 0x8F: // Jcc rel32
		d, err := readRel32(c, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(condJumpByTTTN[op2-0x80], Immediate{Value: int64(d), Bits: 32}), nil

	case op2 == 0xAF: // IMUL Gv, Ev
		_, rm, reg, err := decodeRegAndModRM(c, p, width, PtrNone, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(IMUL, reg, rm), nil

	case op2 == 0xB6: // MOVZX Gv, Eb
		_, rm, reg, err := decodeRegAndModRMWithWidths(c, p, width, 8, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(MOVZX, reg, rm), nil
	case op2 == 0xB7: // MOVZX Gv, Ew
		_, rm, reg, err := decodeRegAndModRMWithWidths(c, p, width, 16, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(MOVZX, reg, rm), nil
	case op2 == 0xBE: // MOVSX Gv, Eb
		_, rm, reg, err := decodeRegAndModRMWithWidths(c, p, width, 8, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(MOVSX, reg, rm), nil
	case op2 == 0xBF: // MOVSX Gv, Ew
		_, rm, reg, err := decodeRegAndModRMWithWidths(c, p, width, 16, opPos)
		if err != nil {
			return Instruction{}, err
		}
		return NewInstruction(MOVSX, reg, rm), nil

	case op2 == 0xBC: // TZCNT when REP is present (spec.md §8 row); plain BSF is not decoded
		_, rm, reg, err := decodeRegAndModRM(c, p, width, PtrNone, opPos)
		if err != nil {
			return Instruction{}, err
		}
		if p.Group1 == PrefixRep {
			return NewInstruction(TZCNT, reg, rm), nil
		}
		return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0x0F, 0xBC}}

	case op2 == 0x05:
		return NewInstruction(SYSCALL), nil

	case op2 == 0x1F: // multi-byte NOP (NOP Ev)
		_, rm, _, err := decodeRegAndModRM(c, p, width, PtrNone, opPos)
		if err != nil {
			return Instruction{}, err
		}
		_ = rm
		return NewInstruction(NOP), nil
	}

	return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0x0F, op2}}
}

// decodeALUModRM decodes the common "register/memory, register" ALU
// shape. dstIsRM selects which operand (reg or rm) is the destination;
// the other supplies the source, matching the two opcode variants of
// most two-operand ALU ops (e.g. 0x89 MOV Ev,Gv vs 0x8B MOV Gv,Ev).
func decodeALUModRM(c *ioreader.ReadCursor, p *prefixBlock, op Opcode, width int, dstIsRM bool, opPos int) (Instruction, error) {
	_, rm, reg, err := decodeRegAndModRM(c, p, width, PtrNone, opPos)
	if err != nil {
		return Instruction{}, err
	}
	if dstIsRM {
		return NewInstruction(op, rm, reg), nil
	}
	return NewInstruction(op, reg, rm), nil
}

// decodeRegAndModRM reads a ModR/M byte where Reg names a GPR of `width`
// bits and Rm is decoded (register or memory) at the same width.
func decodeRegAndModRM(c *ioreader.ReadCursor, p *prefixBlock, width int, ptrSize PointerSize, opPos int) (modrmByte, Operand, Register, error) {
	return decodeRegAndModRMWithWidths(c, p, width, width, opPos)
}

// decodeRegAndModRMWithWidths is the general form where Reg and Rm may
// name GPRs of different widths (MOVZX/MOVSX/MOVSXD).
func decodeRegAndModRMWithWidths(c *ioreader.ReadCursor, p *prefixBlock, regWidth, rmWidth int, opPos int) (modrmByte, Operand, Register, error) {
	ptrSize := ptrSizeForWidth(rmWidth)
	m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(rmWidth), rmWidth, ptrSize)
	if err != nil {
		return modrmByte{}, nil, Register{}, err
	}
	idx := combineIndex(m.Reg, p.rexR(), false)
	reg := gprOfWidth(regWidth, idx)
	return m, rm, reg, nil
}

func gprBankOfWidth(bits int) RegisterBank {
	switch bits {
	case 8:
		return GPR8
	case 16:
		return GPR16
	case 32:
		return GPR32
	case 64:
		return GPR64
	}
	return GPR32
}

func readRel8(c *ioreader.ReadCursor, opPos int) (int8, error) {
	pos := c.Position()
	b, err := c.Read1()
	if err != nil {
		return 0, &DecodingError{Offset: pos, Msg: "truncated rel8"}
	}
	return int8(b), nil
}

func readRel32(c *ioreader.ReadCursor, opPos int) (int32, error) {
	pos := c.Position()
	d, err := c.Read4LE()
	if err != nil {
		return 0, &DecodingError{Offset: pos, Msg: "truncated rel32"}
	}
	return int32(d), nil
}

func decodeGroup1(c *ioreader.ReadCursor, p *prefixBlock, width int, immBytes int, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(width), width, ptrSizeForWidth(width))
	if err != nil {
		return Instruction{}, err
	}
	op := group1Ops[m.Reg]
	var imm int64
	pos := c.Position()
	switch immBytes {
	case 1:
		b, err := c.Read1()
		if err != nil {
			return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated imm8"}
		}
		imm = int64(int8(b))
	case 4:
		d, err := c.Read4LE()
		if err != nil {
			return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated imm32"}
		}
		imm = int64(int32(d))
	}
	return NewInstruction(op, rm, Immediate{Value: imm, Bits: width}), nil
}

func decodeGroup2(c *ioreader.ReadCursor, p *prefixBlock, width int, hasImm8 bool, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(width), width, ptrSizeForWidth(width))
	if err != nil {
		return Instruction{}, err
	}
	op := group2Ops[m.Reg]
	if hasImm8 {
		pos := c.Position()
		b, err := c.Read1()
		if err != nil {
			return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated shift count"}
		}
		return NewInstruction(op, rm, Immediate{Value: int64(b), Bits: 8}), nil
	}
	return NewInstruction(op, rm, Immediate{Value: 1, Bits: 8}), nil
}

func decodeGroup3(c *ioreader.ReadCursor, p *prefixBlock, width int, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(width), width, ptrSizeForWidth(width))
	if err != nil {
		return Instruction{}, err
	}
	op := group3Ops[m.Reg]
	if op == OpNone {
		return Instruction{}, &ReservedOpcodeError{Offset: opPos, Bytes: []byte{0xF7, byte(m.Reg) << 3}}
	}
	if op == TEST {
		pos := c.Position()
		var imm int64
		if width == 8 {
			b, err := c.Read1()
			if err != nil {
				return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated imm8"}
			}
			imm = int64(int8(b))
		} else {
			d, err := c.Read4LE()
			if err != nil {
				return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated imm32"}
			}
			imm = int64(int32(d))
		}
		return NewInstruction(op, rm, Immediate{Value: imm, Bits: width}), nil
	}
	return NewInstruction(op, rm), nil
}

func decodeGroup4(c *ioreader.ReadCursor, p *prefixBlock, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, GPR8, 8, PtrByte)
	if err != nil {
		return Instruction{}, err
	}
	op := group4Ops[m.Reg]
	if op == OpNone {
		return Instruction{}, &ReservedOpcodeError{Offset: opPos, Bytes: []byte{0xFE, byte(m.Reg) << 3}}
	}
	return NewInstruction(op, rm), nil
}

func decodeGroup5(c *ioreader.ReadCursor, p *prefixBlock, width int, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, gprBankOfWidth(64), 64, ptrSizeForWidth(64))
	if err != nil {
		return Instruction{}, err
	}
	op := group5Ops[m.Reg]
	if op == OpNone {
		return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0xFF, byte(m.Reg) << 3}}
	}
	return NewInstruction(op, rm), nil
}
