package x86_64

// Operand is the sum type of everything that can fill one of an
// Instruction's operand slots. The decoder/encoder only ever construct
// one of Register, Immediate, *IndirectOperand, or SegmentedAddress; the
// interface exists purely so Instruction can hold a single positional
// slice without an explicit tag field.
type Operand interface {
	isOperand()
}

func (Register) isOperand()         {}
func (Immediate) isOperand()        {}
func (*IndirectOperand) isOperand() {}
func (SegmentedAddress) isOperand() {}

// Immediate is a signed integer operand carrying its declared bit width.
type Immediate struct {
	Value int64
	Bits  int // 8, 16, 32, or 64
}

// PointerSize enumerates the size tokens an indirect operand can declare
// (BYTE PTR, WORD PTR, ... ZMMWORD PTR). PtrNone means the size is
// implicit in the opcode (LEA, LDDQU, FXSAVE/FXRSTOR, XSAVE family).
type PointerSize int

const (
	PtrNone PointerSize = iota
	PtrByte
	PtrWord
	PtrDWord
	PtrQWord
	PtrXMMWord
	PtrYMMWord
	PtrZMMWord
)

var pointerSizeNames = map[PointerSize]string{
	PtrByte:    "BYTE PTR",
	PtrWord:    "WORD PTR",
	PtrDWord:   "DWORD PTR",
	PtrQWord:   "QWORD PTR",
	PtrXMMWord: "XMMWORD PTR",
	PtrYMMWord: "YMMWORD PTR",
	PtrZMMWord: "ZMMWORD PTR",
}

// String renders the pointer-size token, or "" for PtrNone.
func (p PointerSize) String() string { return pointerSizeNames[p] }

// DisplacementKind records how an indirect operand's displacement was
// encoded, needed to reproduce the exact mod field on re-encode.
type DisplacementKind int

const (
	DispNone DisplacementKind = iota
	DispByte
	DispDWord
)

// IndirectOperand is a memory reference. Constructed only through
// NewIndirect, which enforces the index/scale co-presence and
// SP/R12-as-index invariants spec.md §3 requires.
type IndirectOperand struct {
	PointerSize  PointerSize
	Segment      Register // Null if no override
	Base         Register // Null if absent (pure displacement / SIB no-base)
	HasBase      bool
	Index        Register // Null if absent
	HasIndex     bool
	Scale        uint8 // 1, 2, 4, or 8; meaningless unless HasIndex
	Displacement int32
	DispKind     DisplacementKind
}

// IndirectOption configures a NewIndirect call.
type IndirectOption func(*IndirectOperand)

// WithSegment overrides the implied segment.
func WithSegment(seg Register) IndirectOption {
	return func(io *IndirectOperand) { io.Segment = seg }
}

// WithBase sets the base register.
func WithBase(base Register) IndirectOption {
	return func(io *IndirectOperand) {
		io.Base = base
		io.HasBase = true
	}
}

// WithIndexScale sets the index register and its scale together — they
// are co-required, so there is no way to set one without the other.
func WithIndexScale(index Register, scale uint8) IndirectOption {
	return func(io *IndirectOperand) {
		io.Index = index
		io.HasIndex = true
		io.Scale = scale
	}
}

// WithDisplacement sets the displacement value and its encoded width.
func WithDisplacement(disp int32, kind DisplacementKind) IndirectOption {
	return func(io *IndirectOperand) {
		io.Displacement = disp
		io.DispKind = kind
	}
}

// NewIndirect builds an IndirectOperand, enforcing the invariants that
// spec.md §3 assigns to the builder: index implies scale and vice versa,
// and SP/ESP/RSP/R12/R12D can never be used as index (the SIB encoding
// reassigns that encoding slot to "no index").
func NewIndirect(ptrSize PointerSize, opts ...IndirectOption) (*IndirectOperand, error) {
	io := &IndirectOperand{PointerSize: ptrSize}
	for _, opt := range opts {
		opt(io)
	}
	if io.HasIndex {
		if io.Scale != 1 && io.Scale != 2 && io.Scale != 4 && io.Scale != 8 {
			return nil, &InvalidInstructionError{Reason: "scale must be 1, 2, 4, or 8"}
		}
		if isSPFamily(io.Index) {
			return nil, &InvalidInstructionError{Reason: "SP/ESP/RSP/R12/R12D cannot be used as an index register"}
		}
	}
	if io.HasBase && io.HasIndex {
		baseIs64 := io.Base.Bank == GPR64
		indexIs64 := io.Index.Bank == GPR64
		if baseIs64 != indexIs64 {
			return nil, &InvalidInstructionError{Reason: "base and index must share an address-size class"}
		}
	}
	return io, nil
}

// SegmentedAddress is a (segment, 64-bit immediate) pair used by far
// MOVABS forms.
type SegmentedAddress struct {
	Segment   Register
	Immediate int64
}
