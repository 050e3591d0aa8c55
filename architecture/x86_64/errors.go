package x86_64

import "fmt"

// UnknownOpcodeError is raised when opcode dispatch falls off the table:
// no entry exists for the (escape, byte[, sub-byte]) tuple encountered.
type UnknownOpcodeError struct {
	Offset int
	Bytes  []byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("x86_64: unknown opcode % x at offset %d", e.Bytes, e.Offset)
}

// ReservedOpcodeError is raised when the byte sequence is reserved by the
// ISA rather than simply unassigned.
type ReservedOpcodeError struct {
	Offset int
	Bytes  []byte
}

func (e *ReservedOpcodeError) Error() string {
	return fmt.Sprintf("x86_64: reserved opcode % x at offset %d", e.Bytes, e.Offset)
}

// InvalidLegacyOpcodeError is raised for a byte sequence that is
// syntactically well-formed, valid on 32-bit x86, but explicitly invalid
// in 64-bit long mode (push es, pusha, into, aaa, ...).
type InvalidLegacyOpcodeError struct {
	Offset   int
	Mnemonic string
}

func (e *InvalidLegacyOpcodeError) Error() string {
	return fmt.Sprintf("x86_64: %q is invalid in 64-bit mode at offset %d", e.Mnemonic, e.Offset)
}

// UnrecognizedPrefixError is raised when a prefix byte appears somewhere
// it is not legal to appear: a second group-1 prefix (lock/repnz/rep)
// after one has already been read.
type UnrecognizedPrefixError struct {
	Offset int
	Name   string
}

func (e *UnrecognizedPrefixError) Error() string {
	return fmt.Sprintf("x86_64: unrecognized prefix %s at offset %d", e.Name, e.Offset)
}

// DecodingError is the catch-all for malformed encodings: impossible SIB
// combinations, truncated input, disallowed far-segment forms.
type DecodingError struct {
	Offset int
	Msg    string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("x86_64: decoding error at offset %d: %s", e.Offset, e.Msg)
}

// InvalidInstructionError is raised by the encoder/validator when asked
// to emit or accept an operand shape that is not one of the admissible
// forms for its opcode.
type InvalidInstructionError struct {
	Reason string
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("x86_64: invalid instruction: %s", e.Reason)
}
