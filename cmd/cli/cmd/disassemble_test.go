package cmd

import (
	"testing"

	x86 "github.com/vexcore/elfdis/architecture/x86_64"
)

func TestTargetSymbol_NonBranchOpcodeReturnsEmpty(t *testing.T) {
	instr := x86.NewInstruction(x86.NOP)
	if got := targetSymbol(instr, nil); got != "" {
		t.Fatalf("targetSymbol(nop) = %q, want \"\"", got)
	}
}

func TestTargetSymbol_WrongOperandCountReturnsEmpty(t *testing.T) {
	instr := x86.NewInstruction(x86.CALL)
	if got := targetSymbol(instr, nil); got != "" {
		t.Fatalf("targetSymbol(call with 0 operands) = %q, want \"\"", got)
	}
}

func TestTargetSymbol_NonImmediateOperandReturnsEmpty(t *testing.T) {
	instr := x86.NewInstruction(x86.JMP, x86.RAX)
	if got := targetSymbol(instr, nil); got != "" {
		t.Fatalf("targetSymbol(jmp rax) = %q, want \"\"", got)
	}
}

func TestLogrusFields(t *testing.T) {
	fields := logrusFields(".text", 0x401000, 16)
	if fields["section"] != ".text" {
		t.Fatalf("fields[section] = %v, want .text", fields["section"])
	}
	if fields["addr"] != "0x401000" {
		t.Fatalf("fields[addr] = %v, want 0x401000", fields["addr"])
	}
	if fields["size"] != 16 {
		t.Fatalf("fields[size] = %v, want 16", fields["size"])
	}
}
