package x86_64

import "github.com/vexcore/elfdis/internal/ioreader"

// Encode produces the canonical byte sequence for i, following the fixed
// prefix-emission order of spec.md §4.4. It never emits a byte sequence
// DecodeOne could not replay; shapes it cannot emit return
// InvalidInstructionError instead.
func Encode(i Instruction) ([]byte, error) {
	if err := Check(i); err != nil {
		return nil, err
	}

	buf := ioreader.NewWriteBuffer()

	if io, ok := firstIndirect(i); ok && io.Segment == CS {
		buf.WriteByte(0x2E)
	}
	if io, ok := firstIndirect(i); ok && usesThirtyTwoBitAddressing(io) {
		buf.WriteByte(0x67)
	}

	switch i.Opcode {
	case NOP:
		buf.WriteByte(0x90)
		return buf.Bytes(), nil

	case RET:
		buf.WriteByte(0xC3)
		return buf.Bytes(), nil

	case HLT:
		buf.WriteByte(0xF4)
		return buf.Bytes(), nil

	case SYSCALL:
		buf.WriteByte(0x0F)
		buf.WriteByte(0x05)
		return buf.Bytes(), nil

	case MOV:
		return encodeALU(buf, i, 0x89, 0x8B)

	case LEA:
		return encodeLEA(buf, i)

	case PUSH:
		return encodePushPop(buf, i, 0x50)
	case POP:
		return encodePushPop(buf, i, 0x58)

	case ADD, OR, ADC, SBB, AND, SUB, XOR, CMP:
		return encodeGroup1(buf, i)

	case JE, JNE, JA, JAE, JB, JBE, JG, JGE, JL, JLE, JS, JNS, JO, JNO, JP, JNP:
		return encodeJcc(buf, i)

	case JMP:
		return encodeJmp(buf, i)
	case CALL:
		return encodeCall(buf, i)

	case TZCNT:
		return encodeTZCNT(buf, i)

	case VPXOR:
		return encodeVPXOR(buf, i)

	case VMOVDQU64:
		return encodeVMOVDQU64(buf, i)

	case VPTERNLOGD:
		return encodeVPTERNLOGD(buf, i)
	case VPMINUB:
		return encodeEVEXVector3(buf, i, "vpminub", 0xDA)
	case VPMINUD:
		return encodeEVEXVector3(buf, i, "vpminud", 0x3B)
	case VPCMPNEQUB:
		return encodeEVEXCompareSpurious(buf, i, "vpcmpnequb", 0x03, 0x3E)
	case VPCMPEQD:
		return encodeEVEXCompareSpurious(buf, i, "vpcmpeqd", 0x01, 0x76)
	}

	return nil, &InvalidInstructionError{Reason: "no encoding rule for opcode " + i.Opcode.String()}
}

func firstIndirect(i Instruction) (*IndirectOperand, bool) {
	for idx := 0; idx < i.NumOperands; idx++ {
		if io, ok := i.Operands[idx].(*IndirectOperand); ok {
			return io, true
		}
	}
	return nil, false
}

func usesThirtyTwoBitAddressing(io *IndirectOperand) bool {
	if io.HasBase && io.Base.Bank == GPR32 {
		return true
	}
	if io.HasIndex && io.Index.Bank == GPR32 {
		return true
	}
	return false
}

// regBits returns the low 3 bits of a register's encoding and whether it
// needs a REX/VEX extension bit, for any Register-shaped operand.
func regBits(r Register) (low3 uint8, ext bool) {
	return r.low3(), r.RequiresExtension()
}

func rexByte(w, r, x, b bool) byte {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v
}

func needsREX(w, r, x, b bool, i Instruction) bool {
	if w || r || x || b {
		return true
	}
	for idx := 0; idx < i.NumOperands; idx++ {
		if reg, ok := i.Operands[idx].(Register); ok && reg.Bank == GPR8 && reg.Encoding >= 4 && reg.Encoding <= 7 {
			return true
		}
	}
	return false
}

// encodeModRM writes the ModR/M (and SIB/displacement) bytes for a
// (regField, rmOperand) pair. It returns only an error: the caller
// composes the prefix before this is called, from its own
// regBits/extension checks on the same operands, and this function
// computes nothing prefix-relevant itself.
func encodeModRM(buf *ioreader.WriteBuffer, regField uint8, rm Operand) error {
	switch v := rm.(type) {
	case Register:
		low3, _ := regBits(v)
		buf.WriteByte(0xC0 | (regField&0x7)<<3 | low3)
		return nil
	case *IndirectOperand:
		return encodeIndirectModRM(buf, regField, v)
	}
	return &InvalidInstructionError{Reason: "ModR/M requires a register or indirect operand"}
}

func encodeIndirectModRM(buf *ioreader.WriteBuffer, regField uint8, io *IndirectOperand) error {
	reg3 := regField & 0x7

	if !io.HasBase && !io.HasIndex {
		buf.WriteByte(0x00 | reg3<<3 | 0b100)
		buf.WriteByte(0b00_100_101)
		buf.WriteI32(io.Displacement)
		return nil
	}

	if io.HasBase && io.Base.Name == "rip" || io.HasBase && io.Base.Name == "eip" {
		buf.WriteByte(0x00 | reg3<<3 | 0b101)
		buf.WriteI32(io.Displacement)
		return nil
	}

	if io.HasIndex || isSPFamily(io.Base) {
		mod := modForDisp(io)
		buf.WriteByte(mod | reg3<<3 | 0b100)
		base3, _ := regBits(io.Base)
		if !io.HasBase {
			base3 = 0b101
		}
		idx3 := uint8(0b100)
		scaleBits := uint8(0b00)
		if io.HasIndex {
			idx3, _ = regBits(io.Index)
			scaleBits = sibScaleBits(io.Scale)
		}
		buf.WriteByte(scaleBits<<6 | idx3<<3 | base3)
		writeDisp(buf, io)
		return nil
	}

	mod := modForDisp(io)
	base3, _ := regBits(io.Base)
	buf.WriteByte(mod | reg3<<3 | base3)
	if isBPFamily(io.Base) && io.DispKind == DispNone {
		buf.WriteByte(0x00) // force disp8 form: mod==00 with RBP/R13 base means RIP-rel otherwise
	} else {
		writeDisp(buf, io)
	}
	return nil
}

func modForDisp(io *IndirectOperand) byte {
	switch io.DispKind {
	case DispByte:
		return 0b01 << 6
	case DispDWord:
		return 0b10 << 6
	default:
		if isBPFamily(io.Base) {
			return 0b01 << 6
		}
		return 0b00 << 6
	}
}

func writeDisp(buf *ioreader.WriteBuffer, io *IndirectOperand) {
	switch io.DispKind {
	case DispByte:
		buf.WriteByte(byte(int8(io.Displacement)))
	case DispDWord:
		buf.WriteI32(io.Displacement)
	}
}

func encodeALU(buf *ioreader.WriteBuffer, i Instruction, evOpcode, gvOpcode byte) ([]byte, error) {
	if i.NumOperands != 2 {
		return nil, &InvalidInstructionError{Reason: "mov requires exactly two operands"}
	}
	dst, src := i.Operands[0], i.Operands[1]

	// dst is RM (Ev,Gv form) unless dst is a register and src is RM.
	if dreg, ok := dst.(Register); ok {
		if sreg, ok2 := src.(Register); ok2 {
			return emitALU(buf, evOpcode, dreg, sreg, dreg, false)
		}
		if sio, ok2 := src.(*IndirectOperand); ok2 {
			return emitALUIndirect(buf, gvOpcode, dreg, sio, dreg.Bits)
		}
	}
	if dio, ok := dst.(*IndirectOperand); ok {
		if sreg, ok2 := src.(Register); ok2 {
			return emitALUIndirect(buf, evOpcode, sreg, dio, sreg.Bits)
		}
	}
	return nil, &InvalidInstructionError{Reason: "unsupported mov operand shape"}
}

func emitALU(buf *ioreader.WriteBuffer, opcode byte, rmReg, regReg, widthSrc Register, _ bool) ([]byte, error) {
	w := rmReg.Bits == 64
	_, regExt := regBits(regReg)
	_, rmExt := regBits(rmReg)
	if rmReg.Bits == 16 {
		buf.WriteByte(0x66)
	}
	if needsREX(w, regExt, false, rmExt, NewInstruction(MOV, regReg, rmReg)) {
		buf.WriteByte(rexByte(w, regExt, false, rmExt))
	}
	buf.WriteByte(opcode)
	_ = encodeModRM(buf, regReg.low3(), rmReg)
	return buf.Bytes(), nil
}

func emitALUIndirect(buf *ioreader.WriteBuffer, opcode byte, reg Register, io *IndirectOperand, bits int) ([]byte, error) {
	w := bits == 64
	_, regExt := regBits(reg)
	baseExt, indexExt := false, false
	if io.HasBase {
		_, baseExt = regBits(io.Base)
	}
	if io.HasIndex {
		_, indexExt = regBits(io.Index)
	}
	if bits == 16 {
		buf.WriteByte(0x66)
	}
	if needsREX(w, regExt, indexExt, baseExt, NewInstruction(MOV, reg)) {
		buf.WriteByte(rexByte(w, regExt, indexExt, baseExt))
	}
	buf.WriteByte(opcode)
	if err := encodeModRM(buf, reg.low3(), io); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeLEA(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 2 {
		return nil, &InvalidInstructionError{Reason: "lea requires exactly two operands"}
	}
	reg, ok := i.Operands[0].(Register)
	io, ok2 := i.Operands[1].(*IndirectOperand)
	if !ok || !ok2 {
		return nil, &InvalidInstructionError{Reason: "lea requires (register, memory)"}
	}
	w := reg.Bits == 64
	_, regExt := regBits(reg)
	baseExt, indexExt := false, false
	if io.HasBase {
		_, baseExt = regBits(io.Base)
	}
	if io.HasIndex {
		_, indexExt = regBits(io.Index)
	}
	if needsREX(w, regExt, indexExt, baseExt, i) {
		buf.WriteByte(rexByte(w, regExt, indexExt, baseExt))
	}
	buf.WriteByte(0x8D)
	if err := encodeModRM(buf, reg.low3(), io); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePushPop(buf *ioreader.WriteBuffer, i Instruction, base byte) ([]byte, error) {
	if i.NumOperands != 1 {
		return nil, &InvalidInstructionError{Reason: "push/pop requires exactly one operand"}
	}
	reg, ok := i.Operands[0].(Register)
	if !ok {
		return nil, &InvalidInstructionError{Reason: "push/pop requires a register operand"}
	}
	low3, ext := regBits(reg)
	if ext {
		buf.WriteByte(rexByte(false, false, false, true))
	}
	buf.WriteByte(base + low3)
	return buf.Bytes(), nil
}

func encodeGroup1(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 2 {
		return nil, &InvalidInstructionError{Reason: "group-1 ALU op requires exactly two operands"}
	}
	rm := i.Operands[0]
	imm, ok := i.Operands[1].(Immediate)
	if !ok {
		return nil, &InvalidInstructionError{Reason: "group-1 ALU op requires an immediate second operand"}
	}
	reg := reverseGroup1[i.Opcode]

	var bits int
	var baseExt, indexExt bool
	switch v := rm.(type) {
	case Register:
		bits = v.Bits
		_, baseExt = regBits(v)
	case *IndirectOperand:
		if v.HasBase {
			bits = v.Base.Bits
			_, baseExt = regBits(v.Base)
		} else {
			bits = 64
		}
		if v.HasIndex {
			_, indexExt = regBits(v.Index)
		}
	}

	w := bits == 64
	if bits == 16 {
		buf.WriteByte(0x66)
	}
	if needsREX(w, false, indexExt, baseExt, i) {
		buf.WriteByte(rexByte(w, false, indexExt, baseExt))
	}

	fitsSignedByte := imm.Value >= -128 && imm.Value <= 127
	opcodeByte := byte(0x81)
	immBytes := 4
	if bits == 8 {
		opcodeByte = 0x80
		immBytes = 1
	} else if fitsSignedByte && imm.Bits != 32 {
		opcodeByte = 0x83
		immBytes = 1
	}

	buf.WriteByte(opcodeByte)
	if err := encodeModRM(buf, reg, rm); err != nil {
		return nil, err
	}
	switch immBytes {
	case 1:
		buf.WriteByte(byte(int8(imm.Value)))
	default:
		buf.WriteI32(int32(imm.Value))
	}
	return buf.Bytes(), nil
}

var reverseGroup1 = func() map[Opcode]uint8 {
	m := map[Opcode]uint8{}
	for idx, op := range group1Ops {
		m[op] = uint8(idx)
	}
	return m
}()

func encodeJcc(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 1 {
		return nil, &InvalidInstructionError{Reason: "jcc requires exactly one operand"}
	}
	imm, ok := i.Operands[0].(Immediate)
	if !ok {
		return nil, &InvalidInstructionError{Reason: "jcc requires an immediate operand"}
	}
	tttn := -1
	for n, op := range condJumpByTTTN {
		if op == i.Opcode {
			tttn = n
			break
		}
	}
	if tttn < 0 {
		return nil, &InvalidInstructionError{Reason: "not a conditional jump opcode"}
	}
	if imm.Bits == 8 {
		buf.WriteByte(byte(0x70 + tttn))
		buf.WriteByte(byte(int8(imm.Value)))
	} else {
		buf.WriteByte(0x0F)
		buf.WriteByte(byte(0x80 + tttn))
		buf.WriteI32(int32(imm.Value))
	}
	return buf.Bytes(), nil
}

func encodeJmp(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands == 1 {
		if imm, ok := i.Operands[0].(Immediate); ok {
			if imm.Bits == 8 {
				buf.WriteByte(0xEB)
				buf.WriteByte(byte(int8(imm.Value)))
			} else {
				buf.WriteByte(0xE9)
				buf.WriteI32(int32(imm.Value))
			}
			return buf.Bytes(), nil
		}
	}
	return nil, &InvalidInstructionError{Reason: "unsupported jmp operand shape"}
}

func encodeCall(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands == 1 {
		if imm, ok := i.Operands[0].(Immediate); ok {
			buf.WriteByte(0xE8)
			buf.WriteI32(int32(imm.Value))
			return buf.Bytes(), nil
		}
	}
	return nil, &InvalidInstructionError{Reason: "unsupported call operand shape"}
}

func encodeTZCNT(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 2 {
		return nil, &InvalidInstructionError{Reason: "tzcnt requires exactly two operands"}
	}
	reg, ok := i.Operands[0].(Register)
	rm, ok2 := i.Operands[1].(Register)
	if !ok || !ok2 {
		return nil, &InvalidInstructionError{Reason: "tzcnt requires two register operands"}
	}
	w := reg.Bits == 64
	_, regExt := regBits(reg)
	_, rmExt := regBits(rm)
	buf.WriteByte(0xF3)
	if needsREX(w, regExt, false, rmExt, i) {
		buf.WriteByte(rexByte(w, regExt, false, rmExt))
	}
	buf.WriteByte(0x0F)
	buf.WriteByte(0xBC)
	_ = encodeModRM(buf, reg.low3(), rm)
	return buf.Bytes(), nil
}

func encodeVPXOR(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 3 {
		return nil, &InvalidInstructionError{Reason: "vpxor requires exactly three operands"}
	}
	dst, ok1 := i.Operands[0].(Register)
	src1, ok2 := i.Operands[1].(Register)
	if !ok1 || !ok2 {
		return nil, &InvalidInstructionError{Reason: "vpxor requires register destination and vvvv source"}
	}
	_, dstExt := regBits(dst)
	l := dst.Bank == YMM

	_, useVEX3 := selectVEXTier(i)
	if !useVEX3 {
		buf.WriteByte(0xC5)
		b1 := byte(0)
		if !dstExt {
			b1 |= 0x80
		}
		b1 |= (^src1.Encoding & 0x0F) << 3
		if l {
			b1 |= 0x04
		}
		b1 |= 0x01 // PP=01 (66)
		buf.WriteByte(b1)
		buf.WriteByte(0xEF)
		if err := encodeModRM(buf, dst.low3(), i.Operands[2]); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	baseExt, indexExt := false, false
	switch rm := i.Operands[2].(type) {
	case Register:
		baseExt = rm.RequiresExtension()
	case *IndirectOperand:
		if rm.HasBase {
			baseExt = rm.Base.RequiresExtension()
		}
		if rm.HasIndex {
			indexExt = rm.Index.RequiresExtension()
		}
	default:
		return nil, &InvalidInstructionError{Reason: "vpxor requires a register or memory source"}
	}

	buf.WriteByte(0xC4)
	b1 := byte(0x01) // MMMMM=00001 (0F map)
	if !dstExt {
		b1 |= 0x80
	}
	if !indexExt {
		b1 |= 0x40
	}
	if !baseExt {
		b1 |= 0x20
	}
	buf.WriteByte(b1)

	b2 := byte(0x01) // pp=01 (66)
	b2 |= (^src1.Encoding & 0x0F) << 3
	if l {
		b2 |= 0x04
	}
	buf.WriteByte(b2)

	buf.WriteByte(0xEF)
	if err := encodeModRM(buf, dst.low3(), i.Operands[2]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// evexPrefixBytes computes the three EVEX payload bytes that follow the
// 0x62 lead byte (the P0/P1/P2 rows of spec.md's EVEX table): regField
// supplies R/R', rm supplies X/B off its base/index or register encoding
// (the same fields decodeModRMOperand reads back), vvvvSrc supplies
// vvvv/V' (pass Null when the form has no NDS source, which sets every
// vvvv-related wire bit to 1 per the no-vvvv-source convention), and
// vecBank resolves L/L'. mm is the 2-bit map selector (01=0F, 10=0F38,
// 11=0F3A); every opcode this codec emits uses pp=01 (the 0x66 prefix).
func evexPrefixBytes(mm byte, w bool, regField Register, vvvvSrc Register, rm Operand, vecBank RegisterBank) ([3]byte, error) {
	_, regExt := regBits(regField)
	regExt2 := regField.RequiresEVEXExtension()

	baseExt, indexExt := false, false
	switch v := rm.(type) {
	case Register:
		baseExt = v.RequiresExtension()
	case *IndirectOperand:
		if v.HasBase {
			baseExt = v.Base.RequiresExtension()
		}
		if v.HasIndex {
			indexExt = v.Index.RequiresExtension()
		}
	default:
		return [3]byte{}, &InvalidInstructionError{Reason: "EVEX form requires a register or memory rm operand"}
	}

	b1 := mm & 0x03
	if !regExt {
		b1 |= 0x80
	}
	if !indexExt {
		b1 |= 0x40
	}
	if !baseExt {
		b1 |= 0x20
	}
	if !regExt2 {
		b1 |= 0x10
	}

	vvvv := byte(0x0F)
	vExt := true
	if vvvvSrc.Bank != NullBank {
		vvvv = ^vvvvSrc.Encoding & 0x0F
		vExt = !vvvvSrc.RequiresEVEXExtension()
	}
	b2 := byte(0x05) | vvvv<<3 // reserved bit + pp=01 (66)
	if w {
		b2 |= 0x80
	}

	l, l2 := evexLengthBits(vecBank)
	b3 := byte(0)
	if vExt {
		b3 |= 0x08
	}
	if l2 {
		b3 |= 0x40
	}
	if l {
		b3 |= 0x20
	}

	return [3]byte{b1, b2, b3}, nil
}

func writeEVEXPrefix(buf *ioreader.WriteBuffer, payload [3]byte) {
	buf.WriteByte(0x62)
	buf.WriteByte(payload[0])
	buf.WriteByte(payload[1])
	buf.WriteByte(payload[2])
}

func encodeVMOVDQU64(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 2 {
		return nil, &InvalidInstructionError{Reason: "vmovdqu64 requires exactly two operands"}
	}
	dst, ok := i.Operands[0].(Register)
	if !ok {
		return nil, &InvalidInstructionError{Reason: "vmovdqu64 requires a register destination"}
	}
	payload, err := evexPrefixBytes(0x01, false, dst, Null, i.Operands[1], dst.Bank)
	if err != nil {
		return nil, err
	}
	writeEVEXPrefix(buf, payload)
	buf.WriteByte(0x6F)
	if err := encodeModRM(buf, dst.low3(), i.Operands[1]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeVPTERNLOGD(buf *ioreader.WriteBuffer, i Instruction) ([]byte, error) {
	if i.NumOperands != 4 {
		return nil, &InvalidInstructionError{Reason: "vpternlogd requires exactly four operands"}
	}
	dst, ok1 := i.Operands[0].(Register)
	src1, ok2 := i.Operands[1].(Register)
	imm, ok3 := i.Operands[3].(Immediate)
	if !ok1 || !ok2 || !ok3 {
		return nil, &InvalidInstructionError{Reason: "vpternlogd requires (register, register, rm, imm8)"}
	}
	payload, err := evexPrefixBytes(0x03, false, dst, src1, i.Operands[2], dst.Bank)
	if err != nil {
		return nil, err
	}
	writeEVEXPrefix(buf, payload)
	buf.WriteByte(0x25)
	if err := encodeModRM(buf, dst.low3(), i.Operands[2]); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(imm.Value))
	return buf.Bytes(), nil
}

// encodeEVEXVector3 encodes the shared NDS (dst, vvvv-src, rm) shape of
// the plain EVEX.0F38 vector ALU ops (VPMINUB/VPMINUD).
func encodeEVEXVector3(buf *ioreader.WriteBuffer, i Instruction, mnemonic string, opByte byte) ([]byte, error) {
	if i.NumOperands != 3 {
		return nil, &InvalidInstructionError{Reason: mnemonic + " requires exactly three operands"}
	}
	dst, ok1 := i.Operands[0].(Register)
	src1, ok2 := i.Operands[1].(Register)
	if !ok1 || !ok2 {
		return nil, &InvalidInstructionError{Reason: mnemonic + " requires register destination and vvvv source"}
	}
	payload, err := evexPrefixBytes(0x02, false, dst, src1, i.Operands[2], dst.Bank)
	if err != nil {
		return nil, err
	}
	writeEVEXPrefix(buf, payload)
	buf.WriteByte(opByte)
	if err := encodeModRM(buf, dst.low3(), i.Operands[2]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeEVEXCompareSpurious encodes the EVEX compare family that writes
// its result to a mask register and is followed by a trailing byte the
// SDM does not document (spec.md §9); it is reproduced faithfully rather
// than omitted, the same way decodeEVEXCompareSpurious requires it on
// decode.
func encodeEVEXCompareSpurious(buf *ioreader.WriteBuffer, i Instruction, mnemonic string, mm byte, opByte byte) ([]byte, error) {
	if i.NumOperands != 3 {
		return nil, &InvalidInstructionError{Reason: mnemonic + " requires exactly three operands"}
	}
	dst, ok1 := i.Operands[0].(Register)
	src1, ok2 := i.Operands[1].(Register)
	if !ok1 || !ok2 || dst.Bank != Mask {
		return nil, &InvalidInstructionError{Reason: mnemonic + " requires a mask destination and a vvvv vector source"}
	}
	payload, err := evexPrefixBytes(mm, false, dst, src1, i.Operands[2], src1.Bank)
	if err != nil {
		return nil, err
	}
	writeEVEXPrefix(buf, payload)
	buf.WriteByte(opByte)
	if err := encodeModRM(buf, dst.low3(), i.Operands[2]); err != nil {
		return nil, err
	}
	buf.WriteByte(0x04)
	return buf.Bytes(), nil
}
