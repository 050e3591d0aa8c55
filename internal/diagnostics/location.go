package diagnostics

import "fmt"

// Location pinpoints a byte offset within a named ELF section, the
// decode-time equivalent of debugcontext's source line/column.
type Location struct {
	SectionName string
	Offset      int
}

// String renders "section+0xoffset".
func (l Location) String() string {
	return fmt.Sprintf("%s+0x%x", l.SectionName, l.Offset)
}
