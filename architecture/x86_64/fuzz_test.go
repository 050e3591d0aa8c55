package x86_64_test

import (
	"testing"

	x86 "github.com/vexcore/elfdis/architecture/x86_64"
	"github.com/vexcore/elfdis/internal/ioreader"
)

// FuzzDecodeOne checks the property spec.md §8 demands of the decoder
// under arbitrary input: it must never panic, and it must either produce
// a valid Instruction that round-trips to the prefix of bytes consumed,
// or return one of the typed errors.
func FuzzDecodeOne(f *testing.F) {
	seeds := [][]byte{
		{0x90},
		{0x48, 0x89, 0xe5},
		{0x48, 0x83, 0xc4, 0x18},
		{0x0f, 0x85, 0x00, 0x01, 0x00, 0x00},
		{0xc5, 0xf1, 0xef, 0xc0},
		{0x62, 0xf1, 0x7d, 0x48, 0x6f, 0x04, 0x25, 0x00, 0x10, 0x00, 0x00},
		{0xf3, 0x48, 0x0f, 0xbc, 0xc1},
		{},
		{0xFF, 0xFF, 0xFF, 0xFF},
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		cursor := ioreader.NewReadCursor(data)
		startPos := cursor.Position()

		instr, err := x86.DecodeOne(cursor)
		if err != nil {
			return
		}

		consumed := cursor.Position() - startPos
		if consumed <= 0 || consumed > len(data) {
			t.Fatalf("DecodeOne reported consuming %d bytes out of %d", consumed, len(data))
		}

		reencoded, encErr := x86.Encode(instr)
		if encErr != nil {
			// The encoder is allowed to reject a shape the decoder
			// produced only if the validator itself would reject it.
			if checkErr := x86.Check(instr); checkErr == nil {
				t.Fatalf("Encode failed on a validator-accepted instruction: %v", encErr)
			}
			return
		}
		if string(reencoded) != string(data[startPos:startPos+consumed]) {
			t.Fatalf("round-trip mismatch for % x: re-encoded as % x", data[startPos:startPos+consumed], reencoded)
		}
	})
}
