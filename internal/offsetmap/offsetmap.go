// Package offsetmap tracks, for a decoded instruction stream, the byte
// offset each instruction starts at and a reverse lookup from address to
// instruction index. It is a much-simplified descendant of
// keurnel-assembler's internal/lineMap: that package tracked a source
// file's line/column positions across repeated macro-expansion edits
// (snapshots, diffs, history). A single-pass disassembly has no
// analogous edit history — every instruction is decoded once from a
// fixed byte buffer — so none of that snapshot/diff machinery is carried
// over; only the "position i corresponds to offset n" indexing idea is.
package offsetmap

import "sort"

// Map resolves between instruction index and the address (base + byte
// offset) its first byte occupies.
type Map struct {
	base       uint64
	starts     []uint64 // starts[i] = address of instruction i
	addrToIdx  map[uint64]int
}

// Build computes a Map from parallel instruction lengths and a base
// load address. lengths[i] must be the encoded byte length of
// instruction i (as produced by the decoder that consumed it).
func Build(lengths []int, base uint64) *Map {
	m := &Map{base: base, addrToIdx: make(map[uint64]int, len(lengths))}
	addr := base
	m.starts = make([]uint64, len(lengths))
	for i, n := range lengths {
		m.starts[i] = addr
		m.addrToIdx[addr] = i
		addr += uint64(n)
	}
	return m
}

// InstructionAt resolves an address back to the index of the instruction
// starting there. The second return is false if no instruction starts
// exactly at addr.
func (m *Map) InstructionAt(addr uint64) (int, bool) {
	idx, ok := m.addrToIdx[addr]
	return idx, ok
}

// AddressOf returns the address of instruction i.
func (m *Map) AddressOf(i int) uint64 {
	return m.starts[i]
}

// NearestInstructionAt resolves an address that may fall inside an
// instruction (not just at its start) to the index of the instruction
// containing it, by binary search over the sorted start addresses.
func (m *Map) NearestInstructionAt(addr uint64) (int, bool) {
	if len(m.starts) == 0 || addr < m.base {
		return 0, false
	}
	i := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > addr })
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}
