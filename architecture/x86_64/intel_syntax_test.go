package x86_64_test

import (
	"testing"

	x86 "github.com/vexcore/elfdis/architecture/x86_64"
)

func TestToIntelSyntax_Scenarios(t *testing.T) {
	scenarios := []struct {
		name     string
		instr    x86.Instruction
		expected string
	}{
		{
			"nop has no operands",
			x86.NewInstruction(x86.NOP),
			"nop",
		},
		{
			"mov reg,reg pads to opcodePad",
			x86.NewInstruction(x86.MOV, x86.RBP, x86.RSP),
			"mov     rbp,rsp",
		},
		{
			"add reg,imm",
			x86.NewInstruction(x86.ADD, x86.RSP, x86.Immediate{Value: 0x18, Bits: 8}),
			"add     rsp,0x18",
		},
		{
			"lock prefix renders before mnemonic",
			x86.NewInstruction(x86.ADD, x86.RAX, x86.RCX).WithPrefix(x86.PrefixLock),
			"lock add     rax,rcx",
		},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			if got := x86.ToIntelSyntax(s.instr, 8, true); got != s.expected {
				t.Fatalf("ToIntelSyntax() = %q, want %q", got, s.expected)
			}
		})
	}
}

func TestToIntelSyntax_DestinationMaskSuffix(t *testing.T) {
	instr := x86.NewInstruction(x86.VMOVDQU64, x86.ZMMRegisters[1], x86.ZMMRegisters[2]).WithMask(x86.K1, true)
	got := x86.ToIntelSyntax(instr, 10, true)
	want := "vmovdqu64 zmm1{k1}{z},zmm2"
	if got != want {
		t.Fatalf("ToIntelSyntax() = %q, want %q", got, want)
	}
}

func TestToIntelSyntax_CompressedDisplacement(t *testing.T) {
	// VPMINUB's disp8 is rendered as a multiple of 32 (spec's EVEX
	// compressed-displacement convention); the raw byte stored on the
	// operand stays unscaled.
	io, err := x86.NewIndirect(x86.PtrZMMWord, x86.WithBase(x86.RAX), x86.WithDisplacement(2, x86.DispByte))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	instr := x86.NewInstruction(x86.VPMINUB, x86.ZMMRegisters[0], x86.ZMMRegisters[1], io)
	got := x86.ToIntelSyntax(instr, 8, true)
	want := "vpminub zmm0,zmm1,ZMMWORD PTR [rax+0x40]"
	if got != want {
		t.Fatalf("ToIntelSyntax() = %q, want %q", got, want)
	}
	if io.Displacement != 2 {
		t.Fatalf("expected the stored displacement to stay unscaled, got %d", io.Displacement)
	}
}

func TestFromIntelSyntax_RegisterOperands(t *testing.T) {
	instr, err := x86.FromIntelSyntax("mov rbp,rsp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := x86.NewInstruction(x86.MOV, x86.RBP, x86.RSP)
	if !instr.Equal(want) {
		t.Fatalf("FromIntelSyntax() = %+v, want %+v", instr, want)
	}
}

func TestFromIntelSyntax_ImmediateOperand(t *testing.T) {
	instr, err := x86.FromIntelSyntax("add rsp,0x18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Opcode != x86.ADD || instr.NumOperands != 2 {
		t.Fatalf("unexpected instruction: %+v", instr)
	}
	imm, ok := instr.Operands[1].(x86.Immediate)
	if !ok || imm.Value != 0x18 {
		t.Fatalf("unexpected second operand: %+v", instr.Operands[1])
	}
}

func TestFromIntelSyntax_LockPrefix(t *testing.T) {
	instr, err := x86.FromIntelSyntax("lock add rax,rcx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Prefix != x86.PrefixLock {
		t.Fatalf("expected lock prefix, got %v", instr.Prefix)
	}
}

func TestFromIntelSyntax_IndirectOperand(t *testing.T) {
	instr, err := x86.FromIntelSyntax("mov rax,QWORD PTR [rbx+rcx*4+0x10]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	io, ok := instr.Operands[1].(*x86.IndirectOperand)
	if !ok {
		t.Fatalf("expected indirect operand, got %T", instr.Operands[1])
	}
	if !io.HasBase || io.Base != x86.RBX {
		t.Fatalf("expected base rbx, got %+v", io)
	}
	if !io.HasIndex || io.Index != x86.RCX || io.Scale != 4 {
		t.Fatalf("expected index rcx*4, got %+v", io)
	}
	if io.Displacement != 0x10 {
		t.Fatalf("expected displacement 0x10, got %#x", io.Displacement)
	}
}

func TestFromIntelSyntax_UnknownMnemonic(t *testing.T) {
	_, err := x86.FromIntelSyntax("bogus rax,rcx")
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestIntelSyntax_RoundTrip(t *testing.T) {
	lines := []string{
		"nop",
		"mov rbp,rsp",
		"add rsp,0x18",
		"lock add rax,rcx",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			instr, err := x86.FromIntelSyntax(line)
			if err != nil {
				t.Fatalf("FromIntelSyntax(%q) error: %v", line, err)
			}
			got := x86.ToIntelSyntax(instr, 3, true)
			if got != line {
				t.Fatalf("round-trip mismatch: got %q, want %q", got, line)
			}
		})
	}
}
