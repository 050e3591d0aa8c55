package x86_64

// Extended opcode groups select their real operation from the ModR/M Reg
// field rather than the opcode byte alone. Each table below is indexed
// by that 3-bit field (0-7).

// group1Ops covers 0x80/0x81/0x83: ADD/OR/ADC/SBB/AND/SUB/XOR/CMP.
var group1Ops = [8]Opcode{ADD, OR, ADC, SBB, AND, SUB, XOR, CMP}

// group2Ops covers 0xC0/0xC1/0xD0-0xD3: ROL/ROR/RCL/RCR/SHL/SHR/(dup SHL)/SAR.
// Reg==6 is a reserved/undocumented alias of SHL, reproduced as such
// rather than rejected, matching the ISA's own tolerance of it.
var group2Ops = [8]Opcode{ROL, ROR, RCL, RCR, SHL, SHR, SHL, SAR}

// group3Ops covers 0xF6/0xF7: TEST/(TEST alias)/NOT/NEG/MUL/IMUL/DIV/IDIV.
// Reg==1 is an undocumented alias of TEST and is decoded as TEST. TEST
// additionally carries an immediate where the others don't; the decoder
// special-cases Reg==0/1 for that.
var group3Ops = [8]Opcode{TEST, TEST, NOT, NEG, MUL, IMUL, DIV, IDIV}

// group5Ops covers 0xFF: INC/DEC/CALL(near indirect)/CALL(far)/JMP(near
// indirect)/JMP(far)/PUSH/(reserved). Only the subset this codec
// round-trips (INC/DEC/near CALL/near JMP/PUSH) is populated; the far
// forms and Reg==7 report UnknownOpcodeError rather than being guessed at.
var group5Ops = [8]Opcode{INC, DEC, CALL, OpNone, JMP, OpNone, PUSH, OpNone}

// group4Ops covers 0xFE (byte-sized INC/DEC only; Reg>=2 reports
// ReservedOpcodeError).
var group4Ops = [8]Opcode{INC, DEC, OpNone, OpNone, OpNone, OpNone, OpNone, OpNone}
