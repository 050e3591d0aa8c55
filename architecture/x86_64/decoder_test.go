package x86_64_test

import (
	"testing"

	"github.com/vexcore/elfdis/internal/ioreader"
	x86 "github.com/vexcore/elfdis/architecture/x86_64"
)

func TestDecodeAndEncode_EndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name     string
		bytes    []byte
		expected string
	}{
		{"nop", []byte{0x90}, "nop"},
		{"mov rbp,rsp", []byte{0x48, 0x89, 0xe5}, "mov     rbp,rsp"},
		{"add rsp,0x18", []byte{0x48, 0x83, 0xc4, 0x18}, "add     rsp,0x18"},
		{"jne 0x100", []byte{0x0f, 0x85, 0x00, 0x01, 0x00, 0x00}, "jne     0x100"},
		{"vpxor xmm0,xmm1,xmm0", []byte{0xc5, 0xf1, 0xef, 0xc0}, "vpxor   xmm0,xmm1,xmm0"},
		{
			"vmovdqu64 zmm0,ZMMWORD PTR ds:0x1000",
			[]byte{0x62, 0xf1, 0x7d, 0x48, 0x6f, 0x04, 0x25, 0x00, 0x10, 0x00, 0x00},
			"vmovdqu64 zmm0,ZMMWORD PTR ds:0x1000",
		},
		{
			// xmm-bank EVEX form: regression coverage for L/L' being derived
			// from the destination's bank rather than hardcoded to 512-bit.
			"vmovdqu64 xmm0,XMMWORD PTR [rax]",
			[]byte{0x62, 0xf1, 0x7d, 0x08, 0x6f, 0x00},
			"vmovdqu64 xmm0,XMMWORD PTR [rax]",
		},
		{
			// forces the three-byte VEX tier: xmm10 needs a B extension bit
			// VEX2 has no room for.
			"vpxor xmm0,xmm1,xmm10 (VEX3)",
			[]byte{0xc4, 0xc1, 0x71, 0xef, 0xc2},
			"vpxor   xmm0,xmm1,xmm10",
		},
		{
			"vpternlogd zmm0,zmm1,zmm2,0xc",
			[]byte{0x62, 0xf3, 0x75, 0x48, 0x25, 0xc2, 0x0c},
			"vpternlogd zmm0,zmm1,zmm2,0xc",
		},
		{
			"vpcmpeqd k1,zmm2,zmm3",
			[]byte{0x62, 0xf1, 0x6d, 0x48, 0x76, 0xcb, 0x04},
			"vpcmpeqd k1,zmm2,zmm3",
		},
		{"tzcnt rax,rcx", []byte{0xf3, 0x48, 0x0f, 0xbc, 0xc1}, "tzcnt   rax,rcx"},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			cursor := ioreader.NewReadCursor(s.bytes)
			instr, err := x86.DecodeOne(cursor)
			if err != nil {
				t.Fatalf("DecodeOne(%x) returned error: %v", s.bytes, err)
			}
			if cursor.Position() != len(s.bytes) {
				t.Fatalf("DecodeOne(%x) consumed %d bytes, want %d", s.bytes, cursor.Position(), len(s.bytes))
			}

			if got := x86.ToIntelSyntax(instr, 8, true); got != s.expected {
				t.Fatalf("ToIntelSyntax(decode(%x)) = %q, want %q", s.bytes, got, s.expected)
			}

			reencoded, err := x86.Encode(instr)
			if err != nil {
				t.Fatalf("Encode(%+v) returned error: %v", instr, err)
			}
			if string(reencoded) != string(s.bytes) {
				t.Fatalf("round-trip mismatch: decode(% x) then encode gave % x", s.bytes, reencoded)
			}

			if err := x86.Check(instr); err != nil {
				t.Fatalf("Check(decode(%x)) = %v, want nil (validator closure)", s.bytes, err)
			}
		})
	}
}

func TestDecodeOne_UnknownOpcode(t *testing.T) {
	cursor := ioreader.NewReadCursor([]byte{0x0F, 0xFF})
	_, err := cursor.Read1()
	if err != nil {
		t.Fatal(err)
	}
	cursor.SetPosition(0)

	_, err = x86.DecodeOne(cursor)
	var unk *x86.UnknownOpcodeError
	if err == nil {
		t.Fatalf("expected UnknownOpcodeError, got nil")
	}
	if e, ok := err.(*x86.UnknownOpcodeError); !ok {
		t.Fatalf("expected *UnknownOpcodeError, got %T: %v", err, err)
	} else {
		unk = e
	}
	if unk.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", unk.Offset)
	}
}

func TestDecodeOne_TruncatedInputDoesNotPanic(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x48},
		{0x0F},
		{0xC5},
		{0x62, 0xf1, 0x7d},
	}
	for _, in := range inputs {
		cursor := ioreader.NewReadCursor(in)
		_, err := x86.DecodeOne(cursor)
		if err == nil {
			t.Errorf("DecodeOne(% x): expected an error for truncated input", in)
		}
	}
}

func TestDecodeOne_InvalidLegacyOpcode(t *testing.T) {
	cursor := ioreader.NewReadCursor([]byte{0x06}) // push es
	_, err := x86.DecodeOne(cursor)
	if _, ok := err.(*x86.InvalidLegacyOpcodeError); !ok {
		t.Fatalf("expected *InvalidLegacyOpcodeError, got %T: %v", err, err)
	}
}

func TestDecodeOne_EVEXCompareRejectsWrongTrailerByte(t *testing.T) {
	// same vpcmpeqd k1,zmm2,zmm3 prefix/ModRM as the end-to-end scenario,
	// but with the undocumented trailer byte changed from 0x04 to 0x05.
	cursor := ioreader.NewReadCursor([]byte{0x62, 0xf1, 0x6d, 0x48, 0x76, 0xcb, 0x05})
	_, err := x86.DecodeOne(cursor)
	if _, ok := err.(*x86.DecodingError); !ok {
		t.Fatalf("expected *DecodingError for a non-0x04 compare trailer byte, got %T: %v", err, err)
	}
}

func TestIndirectOperand_IndexCannotBeSP(t *testing.T) {
	_, err := x86.NewIndirect(x86.PtrQWord, x86.WithBase(x86.RAX), x86.WithIndexScale(x86.RSP, 1))
	if err == nil {
		t.Fatal("expected an error using RSP as an index register")
	}
}

func TestIndirectOperand_BaseOnlyHasNoIndex(t *testing.T) {
	io, err := x86.NewIndirect(x86.PtrQWord, x86.WithBase(x86.RAX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if io.HasIndex {
		t.Fatal("expected no index present")
	}
}
