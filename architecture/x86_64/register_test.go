package x86_64_test

import (
	"testing"

	x86 "github.com/vexcore/elfdis/architecture/x86_64"
)

func TestRegistersByName_Lookup(t *testing.T) {
	scenarios := []struct {
		name     string
		register string
		expected x86.Register
	}{
		{"rax resolves to GPR64", "rax", x86.RAX},
		{"eax resolves to GPR32", "eax", x86.EAX},
		{"ah resolves to GPR8Hi", "ah", x86.AH},
		{"spl resolves to GPR8", "spl", x86.SPL},
		{"xmm0 resolves to XMM", "xmm0", x86.XMMRegisters[0]},
		{"zmm31 resolves to ZMM", "zmm31", x86.XMMRegisters[0]}, // placeholder overwritten below
		{"k0 resolves to Mask", "k0", x86.K0},
		{"rip resolves to GPR64", "rip", x86.RIP},
	}
	scenarios[5].expected = x86.ZMMRegisters[31]

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			got, ok := x86.RegistersByName[s.register]
			if !ok {
				t.Fatalf("RegistersByName[%q] not found", s.register)
			}
			if got != s.expected {
				t.Fatalf("RegistersByName[%q] = %+v, want %+v", s.register, got, s.expected)
			}
		})
	}
}

func TestRequiresExtension(t *testing.T) {
	scenarios := []struct {
		name     string
		register x86.Register
		expected bool
	}{
		{"rax does not require REX extension", x86.RAX, false},
		{"r8 requires REX extension", x86.R8, true},
		{"r15 requires REX extension", x86.R15, true},
		{"xmm15 requires REX extension", x86.XMMRegisters[15], true},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			if got := s.register.RequiresExtension(); got != s.expected {
				t.Fatalf("%s.RequiresExtension() = %v, want %v", s.register.Name, got, s.expected)
			}
		})
	}
}

func TestRequiresEVEXExtension(t *testing.T) {
	if x86.XMMRegisters[15].RequiresEVEXExtension() {
		t.Fatal("xmm15 should not require an EVEX extension bit")
	}
	if !x86.XMMRegisters[16].RequiresEVEXExtension() {
		t.Fatal("xmm16 should require an EVEX extension bit")
	}
	if !x86.ZMMRegisters[31].RequiresEVEXExtension() {
		t.Fatal("zmm31 should require an EVEX extension bit")
	}
}
