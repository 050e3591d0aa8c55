package offsetmap_test

import (
	"testing"

	"github.com/vexcore/elfdis/internal/offsetmap"
)

func TestBuild_AddressOf(t *testing.T) {
	m := offsetmap.Build([]int{1, 3, 6, 2}, 0x1000)

	scenarios := []struct {
		index int
		want  uint64
	}{
		{0, 0x1000},
		{1, 0x1001},
		{2, 0x1004},
		{3, 0x100a},
	}
	for _, s := range scenarios {
		if got := m.AddressOf(s.index); got != s.want {
			t.Fatalf("AddressOf(%d) = %#x, want %#x", s.index, got, s.want)
		}
	}
}

func TestInstructionAt_ExactStart(t *testing.T) {
	m := offsetmap.Build([]int{1, 3, 6, 2}, 0x1000)

	idx, ok := m.InstructionAt(0x1004)
	if !ok || idx != 2 {
		t.Fatalf("InstructionAt(0x1004) = (%d, %v), want (2, true)", idx, ok)
	}

	if _, ok := m.InstructionAt(0x1005); ok {
		t.Fatal("InstructionAt(0x1005) should not resolve: no instruction starts mid-offset")
	}
}

func TestNearestInstructionAt(t *testing.T) {
	m := offsetmap.Build([]int{1, 3, 6, 2}, 0x1000)

	scenarios := []struct {
		addr     uint64
		wantIdx  int
		wantOK   bool
	}{
		{0x0FFF, 0, false},
		{0x1000, 0, true},
		{0x1002, 1, true}, // inside instruction 1 (spans 0x1001-0x1003)
		{0x1009, 2, true}, // inside instruction 2 (spans 0x1004-0x1009)
		{0x100b, 3, true},
	}
	for _, s := range scenarios {
		idx, ok := m.NearestInstructionAt(s.addr)
		if ok != s.wantOK || (ok && idx != s.wantIdx) {
			t.Fatalf("NearestInstructionAt(%#x) = (%d, %v), want (%d, %v)", s.addr, idx, ok, s.wantIdx, s.wantOK)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	m := offsetmap.Build(nil, 0x1000)
	if _, ok := m.NearestInstructionAt(0x1000); ok {
		t.Fatal("expected no match against an empty map")
	}
}
