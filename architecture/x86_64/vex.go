package x86_64

import "github.com/vexcore/elfdis/internal/ioreader"

// vexVectorBank resolves which register bank a VEX/EVEX vector operand
// names, from the L/L' (vector-length) bits: 128 -> XMM, 256 -> YMM,
// 512 -> ZMM (EVEX only).
func vexVectorBank(l bool) (RegisterBank, int, PointerSize) {
	if l {
		return YMM, 256, PtrYMMWord
	}
	return XMM, 128, PtrXMMWord
}

func evexVectorBank(l, l2 bool) (RegisterBank, int, PointerSize) {
	switch {
	case l2:
		return ZMM, 512, PtrZMMWord
	case l:
		return YMM, 256, PtrYMMWord
	default:
		return XMM, 128, PtrXMMWord
	}
}

// evexLengthBits is the inverse of evexVectorBank: the L/L' bits an
// encoder must set to reproduce a given vector register's width.
func evexLengthBits(bank RegisterBank) (l, l2 bool) {
	switch bank {
	case ZMM:
		return false, true
	case YMM:
		return true, false
	default:
		return false, false
	}
}

// decodeVEX2Opcode handles the small set of instructions reachable
// through the two-byte VEX prefix (map is always implicitly 0F).
func decodeVEX2Opcode(c *ioreader.ReadCursor, p *prefixBlock, opByte byte, opPos int) (Instruction, error) {
	switch opByte {
	case 0xEF: // VPXOR xmm/ymm, xmm/ymm, xmm/ymm/m
		bank, bits, ptrSize := vexVectorBank(p.VEX2.L)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.VEX2.RInverted, false)
		dst := gprByEncoding(bank, bits, regIdx)
		src1 := gprByEncoding(bank, bits, ^p.VEX2.Vvvv&0x0F)
		return NewInstruction(VPXOR, dst, src1, rm), nil
	}
	return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0xC5, opByte}}
}

// decodeVEX3Opcode handles the three-byte VEX prefix's map-select forms
// (0F, 0F38, 0F3A). Only the 0F map is populated: VPXOR is the one
// mnemonic in this codec's supported subset whose operands can force the
// encoder into VEX3 (an extended X/B register in the rm position), so
// that is the only form admitted here. Anything else falls through to
// UnknownOpcodeError rather than a form this codec never emits.
func decodeVEX3Opcode(c *ioreader.ReadCursor, p *prefixBlock, opByte byte, opPos int) (Instruction, error) {
	switch {
	case opByte == 0xEF && p.VEX3.MMMMM == 0x01: // VPXOR xmm/ymm, xmm/ymm, xmm/ymm/m (VEX.NDS.0F.WIG EF /r)
		bank, bits, ptrSize := vexVectorBank(p.VEX3.L)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.VEX3.RInverted, false)
		dst := gprByEncoding(bank, bits, regIdx)
		src1 := gprByEncoding(bank, bits, ^p.VEX3.Vvvv&0x0F)
		return NewInstruction(VPXOR, dst, src1, rm), nil
	}
	return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0xC4, opByte}}
}

// evexVvvvIndex resolves the EVEX.vvvv non-destructive source operand's
// combined register index. Unlike combineIndex's 3-bit+extension inputs,
// vvvv's wire field is already 4 bits; V' only contributes the 5th bit.
func evexVvvvIndex(p *prefixBlock) uint8 {
	idx := ^p.EVEX.Vvvv & 0x0F
	if p.EVEX.VvvvExt {
		idx |= 0x10
	}
	return idx
}

// decodeEVEXOpcode handles the four-byte EVEX prefix's instructions.
//
// The EVEX compare family (VPCMPNEQUB and one VPCMPEQD path) consumes a
// spurious trailing 0x04 byte after the ModR/M that the SDM does not
// document; it is reproduced faithfully by decodeEVEXCompareSpurious
// rather than silently dropped, per the design notes.
func decodeEVEXOpcode(c *ioreader.ReadCursor, p *prefixBlock, opByte byte, opPos int) (Instruction, error) {
	bank, bits, ptrSize := evexVectorBank(p.EVEX.L, p.EVEX.L2)

	switch opByte {
	case 0x6F: // VMOVDQU64 zmm/ymm/xmm, zmm/ymm/xmm/m (EVEX.66.0F.W0 6F /r)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.EVEX.RInverted, !p.EVEX.R2Inverted)
		dst := gprByEncoding(bank, bits, regIdx)
		return NewInstruction(VMOVDQU64, dst, rm), nil

	case 0x25: // VPTERNLOGD zmm1, zmm2, zmm3/m512, imm8 (EVEX.NDS.512.66.0F3A.W0 25 /r ib)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.EVEX.RInverted, !p.EVEX.R2Inverted)
		dst := gprByEncoding(bank, bits, regIdx)
		src1 := gprByEncoding(bank, bits, evexVvvvIndex(p))
		immPos := c.Position()
		imm, err := c.Read1()
		if err != nil {
			return Instruction{}, &DecodingError{Offset: immPos, Msg: "truncated vpternlogd imm8"}
		}
		return NewInstruction(VPTERNLOGD, dst, src1, rm, Immediate{Value: int64(imm), Bits: 8}), nil

	case 0xDA: // VPMINUB zmm1, zmm2, zmm3/m512 (EVEX.NDS.512.66.0F38.WIG DA /r)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.EVEX.RInverted, !p.EVEX.R2Inverted)
		dst := gprByEncoding(bank, bits, regIdx)
		src1 := gprByEncoding(bank, bits, evexVvvvIndex(p))
		return NewInstruction(VPMINUB, dst, src1, rm), nil

	case 0x3B: // VPMINUD zmm1, zmm2, zmm3/m512 (EVEX.NDS.512.66.0F38.W0 3B /r)
		m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
		if err != nil {
			return Instruction{}, err
		}
		regIdx := combineIndex(m.Reg, !p.EVEX.RInverted, !p.EVEX.R2Inverted)
		dst := gprByEncoding(bank, bits, regIdx)
		src1 := gprByEncoding(bank, bits, evexVvvvIndex(p))
		return NewInstruction(VPMINUD, dst, src1, rm), nil

	case 0x3E: // VPCMPNEQUB k1, zmm2, zmm3/m512 (EVEX.NDS.512.66.0F3A.W0 3E /r), + spurious 0x04
		return decodeEVEXCompareSpurious(c, p, bank, bits, ptrSize, VPCMPNEQUB, opPos)

	case 0x76: // VPCMPEQD k1, zmm2, zmm3/m512 (EVEX.NDS.512.66.0F.W0 76 /r), + spurious 0x04
		return decodeEVEXCompareSpurious(c, p, bank, bits, ptrSize, VPCMPEQD, opPos)
	}
	return Instruction{}, &UnknownOpcodeError{Offset: opPos, Bytes: []byte{0x62, opByte}}
}

// decodeEVEXCompareSpurious decodes the shared shape of the EVEX compare
// family that writes a mask-register result (dst is k, not a vector
// register) and is followed by one extra byte the SDM does not document.
// spec.md §9 calls this out by name rather than guessing its intent, so
// it is required to be exactly 0x04 and is neither interpreted nor
// dropped: it is reproduced on decode and re-emitted on encode.
func decodeEVEXCompareSpurious(c *ioreader.ReadCursor, p *prefixBlock, bank RegisterBank, bits int, ptrSize PointerSize, op Opcode, opPos int) (Instruction, error) {
	m, rm, err := decodeModRMOperand(c, p, bank, bits, ptrSize)
	if err != nil {
		return Instruction{}, err
	}
	dst := gprByEncoding(Mask, 64, m.Reg&0x07)
	src1 := gprByEncoding(bank, bits, evexVvvvIndex(p))

	pos := c.Position()
	trailer, err := c.Read1()
	if err != nil {
		return Instruction{}, &DecodingError{Offset: pos, Msg: "truncated spurious compare trailer byte"}
	}
	if trailer != 0x04 {
		return Instruction{}, &DecodingError{Offset: pos, Msg: "expected spurious 0x04 compare trailer byte"}
	}
	return NewInstruction(op, dst, src1, rm), nil
}

// selectVEXTier decides which vector-prefix tier the encoder must use for
// a given instruction, per spec.md §4.4: EVEX if a ZMM/mask operand or a
// 5-bit register index is involved, VEX3 if the ModR/M r/m operand (the
// last operand) needs an X/B extension, VEX2 otherwise. REX.W and the
// opcode map are not examined: VPXOR, the only VEX-encoded opcode, uses
// the 0F map and ignores W.
func selectVEXTier(i Instruction) (useEVEX, useVEX3 bool) {
	for idx := 0; idx < i.NumOperands; idx++ {
		if r, ok := i.Operands[idx].(Register); ok {
			if r.Bank == ZMM || r.RequiresEVEXExtension() {
				return true, false
			}
		}
	}
	if i.HasMask {
		return true, false
	}
	if i.NumOperands > 0 {
		idx := i.NumOperands - 1
		if r, ok := i.Operands[idx].(Register); ok && r.RequiresExtension() {
			return false, true
		}
		if io, ok := i.Operands[idx].(*IndirectOperand); ok {
			if io.HasBase && io.Base.RequiresExtension() {
				return false, true
			}
			if io.HasIndex && io.Index.RequiresExtension() {
				return false, true
			}
		}
	}
	return false, false
}
