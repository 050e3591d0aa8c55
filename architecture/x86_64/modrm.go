package x86_64

import "github.com/vexcore/elfdis/internal/ioreader"

// modrmByte decomposes a raw ModR/M byte into its three subfields.
type modrmByte struct {
	Mod uint8 // 2 bits
	Reg uint8 // 3 bits
	Rm  uint8 // 3 bits
}

func decodeModRM(raw byte) modrmByte {
	return modrmByte{
		Mod: (raw >> 6) & 0x03,
		Reg: (raw >> 3) & 0x07,
		Rm:  raw & 0x07,
	}
}

// sibByte decomposes a raw SIB byte into its three subfields.
type sibByte struct {
	Scale uint8
	Index uint8
	Base  uint8
}

func decodeSIB(raw byte) sibByte {
	return sibByte{
		Scale: (raw >> 6) & 0x03,
		Index: (raw >> 3) & 0x07,
		Base:  raw & 0x07,
	}
}

// combineIndex composes a 3-bit field with its REX/VEX/EVEX extension
// bit(s) into the final 4- or 5-bit register index, per spec.md §4.3
// ("Register extension composition").
func combineIndex(low3 uint8, extBit bool, ext2Bit bool) uint8 {
	idx := low3
	if extBit {
		idx |= 0x08
	}
	if ext2Bit {
		idx |= 0x10
	}
	return idx
}

// scaleFromSIB maps the 2-bit SIB scale field to its multiplier.
func scaleFromSIB(bits uint8) uint8 {
	return uint8(1) << bits
}

// sibScaleBits is the inverse of scaleFromSIB, used by the encoder.
func sibScaleBits(scale uint8) uint8 {
	switch scale {
	case 1:
		return 0b00
	case 2:
		return 0b01
	case 4:
		return 0b10
	case 8:
		return 0b11
	}
	return 0b00
}

// addrRegBank resolves whether a decoded base/index register should be
// read out of the 32-bit or 64-bit GPR bank, based on the address-size
// override.
func addrRegBank(addressSizeOverride bool) RegisterBank {
	if addressSizeOverride {
		return GPR32
	}
	return GPR64
}

// decodeModRMOperand reads the ModR/M byte (and SIB/displacement/RIP-rel
// forms it may introduce) and returns either a register operand (mod==11)
// or an indirect memory operand, plus the decoded ModR/M fields, whose
// Reg is still to be resolved to a register or sub-opcode by the caller
// (e.g. extended-group dispatch on Reg).
func decodeModRMOperand(c *ioreader.ReadCursor, p *prefixBlock, rmBank RegisterBank, rmBits int, ptrSize PointerSize) (modrmByte, Operand, error) {
	pos := c.Position()
	raw, err := c.Read1()
	if err != nil {
		return modrmByte{}, nil, &DecodingError{Offset: pos, Msg: "truncated ModR/M byte"}
	}
	m := decodeModRM(raw)

	rexB := p.rexB()
	rexX := p.rexX()
	if p.HasVEX3 {
		rexB = p.VEX3.BInverted == false
		rexX = p.VEX3.XInverted == false
	}
	if p.HasEVEX {
		rexB = p.EVEX.BInverted == false
		rexX = p.EVEX.XInverted == false
	}

	if m.Mod == 0b11 {
		idx := combineIndex(m.Rm, rexB, false)
		reg := gprOfWidth(rmBits, idx)
		if rmBank != GPR8 && rmBank != GPR16 && rmBank != GPR32 && rmBank != GPR64 {
			reg = gprByEncoding(rmBank, rmBits, idx)
		}
		return m, reg, nil
	}

	addrBank := addrRegBank(p.AddressSizeOverride)

	if m.Rm == 0b100 {
		sibPos := c.Position()
		rawSIB, err := c.Read1()
		if err != nil {
			return m, nil, &DecodingError{Offset: sibPos, Msg: "truncated SIB byte"}
		}
		s := decodeSIB(rawSIB)

		io := &IndirectOperand{PointerSize: ptrSize}
		if p.SegOverride != Null {
			io.Segment = p.SegOverride
		}

		if s.Index != 0b100 || rexX {
			idx := combineIndex(s.Index, rexX, false)
			if !(idx == 0b0100) {
				io.Index = gprByEncoding(addrBank, 64, idx)
				io.HasIndex = true
				io.Scale = scaleFromSIB(s.Scale)
			}
		}

		if s.Base == 0b101 && m.Mod == 0b00 {
			dpos := c.Position()
			d, err := c.Read4LE()
			if err != nil {
				return m, nil, &DecodingError{Offset: dpos, Msg: "truncated disp32 after SIB"}
			}
			io.Displacement = int32(d)
			io.DispKind = DispDWord
		} else {
			baseIdx := combineIndex(s.Base, rexB, false)
			io.Base = gprByEncoding(addrBank, 64, baseIdx)
			io.HasBase = true
			if err := readTrailingDisp(c, m.Mod, io); err != nil {
				return m, nil, err
			}
		}
		return m, io, nil
	}

	if m.Mod == 0b00 && m.Rm == 0b101 {
		dpos := c.Position()
		d, err := c.Read4LE()
		if err != nil {
			return m, nil, &DecodingError{Offset: dpos, Msg: "truncated disp32 for RIP-relative operand"}
		}
		io := &IndirectOperand{PointerSize: ptrSize}
		if p.SegOverride != Null {
			io.Segment = p.SegOverride
		}
		if p.AddressSizeOverride {
			io.Base = EIP
		} else {
			io.Base = RIP
		}
		io.HasBase = true
		io.Displacement = int32(d)
		io.DispKind = DispDWord
		return m, io, nil
	}

	baseIdx := combineIndex(m.Rm, rexB, false)
	io := &IndirectOperand{PointerSize: ptrSize, Base: gprByEncoding(addrBank, 64, baseIdx), HasBase: true}
	if p.SegOverride != Null {
		io.Segment = p.SegOverride
	}
	if err := readTrailingDisp(c, m.Mod, io); err != nil {
		return m, nil, err
	}
	return m, io, nil
}

// readTrailingDisp reads the displacement implied by a ModR/M mod field
// (01 -> disp8, 10 -> disp32) and records it on io.
func readTrailingDisp(c *ioreader.ReadCursor, mod uint8, io *IndirectOperand) error {
	switch mod {
	case 0b01:
		pos := c.Position()
		b, err := c.Read1()
		if err != nil {
			return &DecodingError{Offset: pos, Msg: "truncated disp8"}
		}
		io.Displacement = int32(int8(b))
		io.DispKind = DispByte
	case 0b10:
		pos := c.Position()
		d, err := c.Read4LE()
		if err != nil {
			return &DecodingError{Offset: pos, Msg: "truncated disp32"}
		}
		io.Displacement = int32(d)
		io.DispKind = DispDWord
	default:
		io.DispKind = DispNone
	}
	return nil
}
