package x86_64

// RegisterBank identifies which register file a Register value belongs to.
// Unlike the teacher's original RegisterType, a bank alone is not enough to
// pick an encoding: GPR8Hi (AH/CH/DH/BH) shares the 8-bit bank's bit width
// but is mutually exclusive with REX, so it gets its own bank.
type RegisterBank int

const (
	GPR8 RegisterBank = iota
	GPR8Hi
	GPR16
	GPR32
	GPR64
	MMX
	XMM
	YMM
	ZMM
	Mask
	Segment
	Control
	Debug
	NullBank
)

// Register is a value-typed operand: a canonical Intel-syntax name, the
// bank it belongs to, its width in bits, and the 3/4/5-bit encoding index
// used to build ModR/M, SIB, opcode-embedded, VEX.vvvv and EVEX fields.
type Register struct {
	Name     string
	Bank     RegisterBank
	Bits     int
	Encoding uint8
}

// RequiresExtension reports whether encoding this register's index needs a
// REX/VEX extension bit (R/X/B) — true once the 3-bit field alone can't
// represent it.
func (r Register) RequiresExtension() bool {
	return r.Encoding >= 8
}

// RequiresEVEXExtension reports whether encoding this register's index
// needs the EVEX-only fifth bit (R'/V'/X4) — true once even the 4-bit
// REX/VEX field can't represent it (ZMM16-31, mask-extended forms).
func (r Register) RequiresEVEXExtension() bool {
	return r.Encoding >= 16
}

// low3 returns the 3-bit field written into ModR/M/SIB/opcode; the high
// bits are supplied separately by whichever prefix tier is in play.
func (r Register) low3() uint8 {
	return r.Encoding & 0x7
}

// Null is the placeholder register for syntactically encodable but
// semantically meaningless operand slots (e.g. the reg field of a
// register-direct ModR/M byte that an extended opcode group repurposes as
// a sub-opcode selector).
var Null = Register{Name: "", Bank: NullBank, Bits: 0, Encoding: 0}

// 64-bit general purpose registers, plus RIP for RIP-relative addressing.
var (
	RAX = Register{"rax", GPR64, 64, 0}
	RCX = Register{"rcx", GPR64, 64, 1}
	RDX = Register{"rdx", GPR64, 64, 2}
	RBX = Register{"rbx", GPR64, 64, 3}
	RSP = Register{"rsp", GPR64, 64, 4}
	RBP = Register{"rbp", GPR64, 64, 5}
	RSI = Register{"rsi", GPR64, 64, 6}
	RDI = Register{"rdi", GPR64, 64, 7}
	R8  = Register{"r8", GPR64, 64, 8}
	R9  = Register{"r9", GPR64, 64, 9}
	R10 = Register{"r10", GPR64, 64, 10}
	R11 = Register{"r11", GPR64, 64, 11}
	R12 = Register{"r12", GPR64, 64, 12}
	R13 = Register{"r13", GPR64, 64, 13}
	R14 = Register{"r14", GPR64, 64, 14}
	R15 = Register{"r15", GPR64, 64, 15}
	RIP = Register{"rip", GPR64, 64, 16}
)

// 32-bit general purpose registers, plus EIP.
var (
	EAX  = Register{"eax", GPR32, 32, 0}
	ECX  = Register{"ecx", GPR32, 32, 1}
	EDX  = Register{"edx", GPR32, 32, 2}
	EBX  = Register{"ebx", GPR32, 32, 3}
	ESP  = Register{"esp", GPR32, 32, 4}
	EBP  = Register{"ebp", GPR32, 32, 5}
	ESI  = Register{"esi", GPR32, 32, 6}
	EDI  = Register{"edi", GPR32, 32, 7}
	R8D  = Register{"r8d", GPR32, 32, 8}
	R9D  = Register{"r9d", GPR32, 32, 9}
	R10D = Register{"r10d", GPR32, 32, 10}
	R11D = Register{"r11d", GPR32, 32, 11}
	R12D = Register{"r12d", GPR32, 32, 12}
	R13D = Register{"r13d", GPR32, 32, 13}
	R14D = Register{"r14d", GPR32, 32, 14}
	R15D = Register{"r15d", GPR32, 32, 15}
	EIP  = Register{"eip", GPR32, 32, 16}
)

// 16-bit general purpose registers.
var (
	AX   = Register{"ax", GPR16, 16, 0}
	CX   = Register{"cx", GPR16, 16, 1}
	DX   = Register{"dx", GPR16, 16, 2}
	BX   = Register{"bx", GPR16, 16, 3}
	SP   = Register{"sp", GPR16, 16, 4}
	BP   = Register{"bp", GPR16, 16, 5}
	SI   = Register{"si", GPR16, 16, 6}
	DI   = Register{"di", GPR16, 16, 7}
	R8W  = Register{"r8w", GPR16, 16, 8}
	R9W  = Register{"r9w", GPR16, 16, 9}
	R10W = Register{"r10w", GPR16, 16, 10}
	R11W = Register{"r11w", GPR16, 16, 11}
	R12W = Register{"r12w", GPR16, 16, 12}
	R13W = Register{"r13w", GPR16, 16, 13}
	R14W = Register{"r14w", GPR16, 16, 14}
	R15W = Register{"r15w", GPR16, 16, 15}
)

// 8-bit general purpose registers requiring REX to be addressable (SPL,
// BPL, SIL, DIL collide with the legacy high-byte encodings below and are
// disambiguated only by REX presence).
var (
	AL   = Register{"al", GPR8, 8, 0}
	CL   = Register{"cl", GPR8, 8, 1}
	DL   = Register{"dl", GPR8, 8, 2}
	BL   = Register{"bl", GPR8, 8, 3}
	SPL  = Register{"spl", GPR8, 8, 4}
	BPL  = Register{"bpl", GPR8, 8, 5}
	SIL  = Register{"sil", GPR8, 8, 6}
	DIL  = Register{"dil", GPR8, 8, 7}
	R8B  = Register{"r8b", GPR8, 8, 8}
	R9B  = Register{"r9b", GPR8, 8, 9}
	R10B = Register{"r10b", GPR8, 8, 10}
	R11B = Register{"r11b", GPR8, 8, 11}
	R12B = Register{"r12b", GPR8, 8, 12}
	R13B = Register{"r13b", GPR8, 8, 13}
	R14B = Register{"r14b", GPR8, 8, 14}
	R15B = Register{"r15b", GPR8, 8, 15}
)

// Legacy 8-bit high-byte registers. Encodable only in the absence of any
// REX prefix — the same encoding index (4-7) means SPL/BPL/SIL/DIL once
// REX is present.
var (
	AH = Register{"ah", GPR8Hi, 8, 4}
	CH = Register{"ch", GPR8Hi, 8, 5}
	DH = Register{"dh", GPR8Hi, 8, 6}
	BH = Register{"bh", GPR8Hi, 8, 7}
)

// Segment registers.
var (
	ES = Register{"es", Segment, 16, 0}
	CS = Register{"cs", Segment, 16, 1}
	SS = Register{"ss", Segment, 16, 2}
	DS = Register{"ds", Segment, 16, 3}
	FS = Register{"fs", Segment, 16, 4}
	GS = Register{"gs", Segment, 16, 5}
)

// Control and debug registers. They are named for the Intel-syntax parser;
// the decoder has no MOV-to/from-CR/DR forms that produce them.
var (
	CR0 = Register{"cr0", Control, 64, 0}
	CR2 = Register{"cr2", Control, 64, 2}
	CR3 = Register{"cr3", Control, 64, 3}
	CR4 = Register{"cr4", Control, 64, 4}
	CR8 = Register{"cr8", Control, 64, 8}

	DR0 = Register{"dr0", Debug, 64, 0}
	DR1 = Register{"dr1", Debug, 64, 1}
	DR2 = Register{"dr2", Debug, 64, 2}
	DR3 = Register{"dr3", Debug, 64, 3}
	DR6 = Register{"dr6", Debug, 64, 6}
	DR7 = Register{"dr7", Debug, 64, 7}
)

// MMX registers.
var (
	MM0 = Register{"mm0", MMX, 64, 0}
	MM1 = Register{"mm1", MMX, 64, 1}
	MM2 = Register{"mm2", MMX, 64, 2}
	MM3 = Register{"mm3", MMX, 64, 3}
	MM4 = Register{"mm4", MMX, 64, 4}
	MM5 = Register{"mm5", MMX, 64, 5}
	MM6 = Register{"mm6", MMX, 64, 6}
	MM7 = Register{"mm7", MMX, 64, 7}
)

// Mask (AVX-512 K) registers.
var (
	K0 = Register{"k0", Mask, 64, 0}
	K1 = Register{"k1", Mask, 64, 1}
	K2 = Register{"k2", Mask, 64, 2}
	K3 = Register{"k3", Mask, 64, 3}
	K4 = Register{"k4", Mask, 64, 4}
	K5 = Register{"k5", Mask, 64, 5}
	K6 = Register{"k6", Mask, 64, 6}
	K7 = Register{"k7", Mask, 64, 7}
)

// XMM, YMM, ZMM register files, generated the way the teacher hand-wrote
// its GPR tables (one var block per bank), extended through index 31 for
// ZMM/YMM/XMM since EVEX addresses all 32 of each.
var (
	xmmNames = [...]string{
		"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7",
		"xmm8", "xmm9", "xmm10", "xmm11", "xmm12", "xmm13", "xmm14", "xmm15",
		"xmm16", "xmm17", "xmm18", "xmm19", "xmm20", "xmm21", "xmm22", "xmm23",
		"xmm24", "xmm25", "xmm26", "xmm27", "xmm28", "xmm29", "xmm30", "xmm31",
	}
	ymmNames = [...]string{
		"ymm0", "ymm1", "ymm2", "ymm3", "ymm4", "ymm5", "ymm6", "ymm7",
		"ymm8", "ymm9", "ymm10", "ymm11", "ymm12", "ymm13", "ymm14", "ymm15",
		"ymm16", "ymm17", "ymm18", "ymm19", "ymm20", "ymm21", "ymm22", "ymm23",
		"ymm24", "ymm25", "ymm26", "ymm27", "ymm28", "ymm29", "ymm30", "ymm31",
	}
	zmmNames = [...]string{
		"zmm0", "zmm1", "zmm2", "zmm3", "zmm4", "zmm5", "zmm6", "zmm7",
		"zmm8", "zmm9", "zmm10", "zmm11", "zmm12", "zmm13", "zmm14", "zmm15",
		"zmm16", "zmm17", "zmm18", "zmm19", "zmm20", "zmm21", "zmm22", "zmm23",
		"zmm24", "zmm25", "zmm26", "zmm27", "zmm28", "zmm29", "zmm30", "zmm31",
	}

	XMMRegisters [32]Register
	YMMRegisters [32]Register
	ZMMRegisters [32]Register
)

func init() {
	for i := 0; i < 32; i++ {
		XMMRegisters[i] = Register{xmmNames[i], XMM, 128, uint8(i)}
		YMMRegisters[i] = Register{ymmNames[i], YMM, 256, uint8(i)}
		ZMMRegisters[i] = Register{zmmNames[i], ZMM, 512, uint8(i)}
	}
}

// XMMReg returns the XMM register with the given encoding index (0-31).
func XMMReg(i uint8) Register { return XMMRegisters[i] }

// YMMReg returns the YMM register with the given encoding index (0-31).
func YMMReg(i uint8) Register { return YMMRegisters[i] }

// ZMMReg returns the ZMM register with the given encoding index (0-31).
func ZMMReg(i uint8) Register { return ZMMRegisters[i] }

// RegistersByName is a bidirectional lookup table for the Intel-syntax
// parser: register-name (lowercase) -> Register. Built once at init from
// the same values the decoder/encoder use, the way the teacher built
// RegistersByName from its var blocks.
var RegistersByName = map[string]Register{}

func init() {
	flat := []Register{
		RAX, RCX, RDX, RBX, RSP, RBP, RSI, RDI,
		R8, R9, R10, R11, R12, R13, R14, R15, RIP,
		EAX, ECX, EDX, EBX, ESP, EBP, ESI, EDI,
		R8D, R9D, R10D, R11D, R12D, R13D, R14D, R15D, EIP,
		AX, CX, DX, BX, SP, BP, SI, DI,
		R8W, R9W, R10W, R11W, R12W, R13W, R14W, R15W,
		AL, CL, DL, BL, SPL, BPL, SIL, DIL,
		R8B, R9B, R10B, R11B, R12B, R13B, R14B, R15B,
		AH, CH, DH, BH,
		ES, CS, SS, DS, FS, GS,
		CR0, CR2, CR3, CR4, CR8,
		DR0, DR1, DR2, DR3, DR6, DR7,
		MM0, MM1, MM2, MM3, MM4, MM5, MM6, MM7,
		K0, K1, K2, K3, K4, K5, K6, K7,
	}
	for _, r := range flat {
		RegistersByName[r.Name] = r
	}
	for i := 0; i < 32; i++ {
		RegistersByName[XMMRegisters[i].Name] = XMMRegisters[i]
		RegistersByName[YMMRegisters[i].Name] = YMMRegisters[i]
		RegistersByName[ZMMRegisters[i].Name] = ZMMRegisters[i]
	}
}

// gprByEncoding resolves a bank + combined encoding index back to a
// Register value. Used throughout the decoder once REX/VEX/EVEX extension
// bits have been folded into a low-3-bit field.
func gprByEncoding(bank RegisterBank, bits int, enc uint8) Register {
	switch bank {
	case GPR8:
		for _, r := range []Register{AL, CL, DL, BL, SPL, BPL, SIL, DIL, R8B, R9B, R10B, R11B, R12B, R13B, R14B, R15B} {
			if r.Encoding == enc {
				return r
			}
		}
	case GPR8Hi:
		for _, r := range []Register{AH, CH, DH, BH} {
			if r.Encoding == enc {
				return r
			}
		}
	case GPR16:
		for _, r := range []Register{AX, CX, DX, BX, SP, BP, SI, DI, R8W, R9W, R10W, R11W, R12W, R13W, R14W, R15W} {
			if r.Encoding == enc {
				return r
			}
		}
	case GPR32:
		for _, r := range []Register{EAX, ECX, EDX, EBX, ESP, EBP, ESI, EDI, R8D, R9D, R10D, R11D, R12D, R13D, R14D, R15D} {
			if r.Encoding == enc {
				return r
			}
		}
	case GPR64:
		for _, r := range []Register{RAX, RCX, RDX, RBX, RSP, RBP, RSI, RDI, R8, R9, R10, R11, R12, R13, R14, R15} {
			if r.Encoding == enc {
				return r
			}
		}
	case MMX:
		return Register{MMXName(enc & 7), MMX, 64, enc & 7}
	case XMM:
		return XMMReg(enc)
	case YMM:
		return YMMReg(enc)
	case ZMM:
		return ZMMReg(enc)
	case Mask:
		return Register{MaskName(enc & 7), Mask, 64, enc & 7}
	}
	return Null
}

// MMXName returns the canonical name of MMn for n in 0-7.
func MMXName(n uint8) string {
	names := [...]string{"mm0", "mm1", "mm2", "mm3", "mm4", "mm5", "mm6", "mm7"}
	return names[n&7]
}

// MaskName returns the canonical name of Kn for n in 0-7.
func MaskName(n uint8) string {
	names := [...]string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}
	return names[n&7]
}

// gprOfWidth resolves the GPR register bank that corresponds to an operand
// bit width, used when the decoder already knows the target width (from
// REX.W / the operand-size override / the opcode) and just needs the
// Register for a given 0-15 index.
func gprOfWidth(bits int, enc uint8) Register {
	switch bits {
	case 8:
		return gprByEncoding(GPR8, 8, enc)
	case 16:
		return gprByEncoding(GPR16, 16, enc)
	case 32:
		return gprByEncoding(GPR32, 32, enc)
	case 64:
		return gprByEncoding(GPR64, 64, enc)
	}
	return Null
}

// isSPFamily reports whether a register's encoding denotes SP/ESP/RSP or
// R12W/R12D/R12 — the forms that can never be used as a SIB index.
func isSPFamily(r Register) bool {
	return (r.Bank == GPR16 || r.Bank == GPR32 || r.Bank == GPR64) && r.low3() == 0b100
}

// isBPFamily reports whether a register's encoding denotes BP/EBP/RBP or
// R13W/R13D/R13 — the forms where mod==00 switches to disp32/RIP-relative
// rather than "no base".
func isBPFamily(r Register) bool {
	return (r.Bank == GPR16 || r.Bank == GPR32 || r.Bank == GPR64) && r.low3() == 0b101
}
