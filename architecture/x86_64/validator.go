package x86_64

// operandKind is a coarse operand category (spec.md §4.6). Check does not
// consult it: the validator has no per-opcode operand-shape table and
// enforces only the global rules.
type operandKind int

const (
	kindR8 operandKind = iota
	kindR16
	kindR32
	kindR64
	kindRMM
	kindRX
	kindRY
	kindRZ
	kindRK
	kindRS
	kindM
	kindImm
	kindSeg64
)

func classify(o Operand) operandKind {
	switch v := o.(type) {
	case Register:
		switch v.Bank {
		case GPR8, GPR8Hi:
			return kindR8
		case GPR16:
			return kindR16
		case GPR32:
			return kindR32
		case GPR64:
			return kindR64
		case MMX:
			return kindRMM
		case XMM:
			return kindRX
		case YMM:
			return kindRY
		case ZMM:
			return kindRZ
		case Mask:
			return kindRK
		case Segment:
			return kindRS
		}
	case Immediate:
		return kindImm
	case *IndirectOperand:
		return kindM
	case SegmentedAddress:
		return kindSeg64
	}
	return kindImm
}

// Check enforces the global operand-shape rules spec.md §4.6 assigns to
// the validator. It does not attempt the full per-opcode admissible-form
// table for every mnemonic the decoder recognises; it enforces the rules
// that generalise across the whole opcode set plus mask-register
// legality, which both the decoder and the encoder rely on as a gate.
func Check(i Instruction) error {
	immCount, indirectCount := 0, 0
	vectorOperandSeen := false

	for idx := 0; idx < i.NumOperands; idx++ {
		switch o := i.Operands[idx].(type) {
		case Immediate:
			immCount++
		case *IndirectOperand:
			indirectCount++
			if o.PointerSize == PtrXMMWord || o.PointerSize == PtrYMMWord || o.PointerSize == PtrZMMWord {
				vectorOperandSeen = true
			}
			if o.HasIndex && isSPFamily(o.Index) {
				return &InvalidInstructionError{Reason: "SP/ESP/RSP/R12/R12D cannot be used as an index register"}
			}
			if o.HasIndex && o.Scale != 1 && o.Scale != 2 && o.Scale != 4 && o.Scale != 8 {
				return &InvalidInstructionError{Reason: "scale must be 1, 2, 4, or 8"}
			}
		case Register:
			if o.Bank == XMM || o.Bank == YMM || o.Bank == ZMM {
				vectorOperandSeen = true
			}
		}
	}

	if immCount > 1 {
		return &InvalidInstructionError{Reason: "at most one immediate operand is allowed"}
	}
	if indirectCount > 1 {
		return &InvalidInstructionError{Reason: "at most one indirect operand is allowed"}
	}

	if i.HasMask {
		if !vectorOperandSeen {
			return &InvalidInstructionError{Reason: "a destination mask requires a vector register or vector memory operand"}
		}
		for idx := 0; idx < i.NumOperands; idx++ {
			if reg, ok := i.Operands[idx].(Register); ok && reg.Bank == Mask && reg == i.Mask {
				return &InvalidInstructionError{Reason: "destination mask register may not also appear as a named operand"}
			}
		}
	} else if i.ZeroMask {
		return &InvalidInstructionError{Reason: "{z} is only legal alongside a destination mask"}
	}

	return nil
}
