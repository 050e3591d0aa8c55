// Package elfbin is the ELF64 collaborator: it reads section and symbol
// structure using the standard library's debug/elf reader (no codec
// semantics live here) and hands the decoder a ReadCursor positioned at
// code bytes. Nothing about x86-64 instruction encoding crosses into
// this package.
package elfbin

import (
	"debug/elf"
	"fmt"

	"github.com/vexcore/elfdis/internal/ioreader"
)

// codeSectionNames lists the sections spec.md §6 names as the boundary
// between ELF structure and the instruction codec.
var codeSectionNames = map[string]bool{
	".text":       true,
	".plt":        true,
	".init":       true,
	".fini":       true,
	".init_array": true,
	".fini_array": true,
}

// CodeSection is a named, addressed byte range pulled out of an ELF
// section header, wrapped in the cursor abstraction the decoder consumes.
type CodeSection struct {
	Name string
	Addr uint64
	Data []byte
}

// Cursor returns a fresh ReadCursor over this section's bytes.
func (s CodeSection) Cursor() *ioreader.ReadCursor {
	return ioreader.NewReadCursor(s.Data)
}

// Executable wraps an opened ELF64/x86-64 little-endian file.
type Executable struct {
	file *elf.File
}

// Open validates the file is ELF64, little-endian, and EM_X86_64 before
// handing back an Executable — anything else is out of scope per
// spec.md §1 ("support for architectures other than 64-bit Intel/AMD").
func Open(path string) (*Executable, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elfbin: %w", err)
	}
	if f.Class != elf.ELFCLASS64 {
		f.Close()
		return nil, fmt.Errorf("elfbin: %s is not a 64-bit ELF file", path)
	}
	if f.Data != elf.ELFDATA2LSB {
		f.Close()
		return nil, fmt.Errorf("elfbin: %s is not little-endian", path)
	}
	if f.Machine != elf.EM_X86_64 {
		f.Close()
		return nil, fmt.Errorf("elfbin: %s is not an x86-64 binary", path)
	}
	return &Executable{file: f}, nil
}

// Close releases the underlying file handle.
func (e *Executable) Close() error {
	return e.file.Close()
}

// CodeSections returns, in section-table order, the sections named in
// codeSectionNames that are of type SHT_PROGBITS and non-empty. Sections
// of any other type are skipped, so .init_array and .fini_array (normally
// SHT_INIT_ARRAY/SHT_FINI_ARRAY) are not returned.
func (e *Executable) CodeSections() ([]CodeSection, error) {
	var out []CodeSection
	for _, sec := range e.file.Sections {
		if !codeSectionNames[sec.Name] {
			continue
		}
		if sec.Type != elf.SHT_PROGBITS || sec.Size == 0 {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return nil, fmt.Errorf("elfbin: reading section %s: %w", sec.Name, err)
		}
		out = append(out, CodeSection{Name: sec.Name, Addr: sec.Addr, Data: data})
	}
	return out, nil
}

// SectionInfo is the structural summary `elfdis sections` prints.
type SectionInfo struct {
	Name  string
	Type  string
	Addr  uint64
	Size  uint64
	Flags string
}

// Sections returns every section header's structural fields.
func (e *Executable) Sections() []SectionInfo {
	out := make([]SectionInfo, 0, len(e.file.Sections))
	for _, sec := range e.file.Sections {
		out = append(out, SectionInfo{
			Name:  sec.Name,
			Type:  sec.Type.String(),
			Addr:  sec.Addr,
			Size:  sec.Size,
			Flags: sec.Flags.String(),
		})
	}
	return out
}

// Symbols exposes the static symbol table.
func (e *Executable) Symbols() ([]elf.Symbol, error) {
	syms, err := e.file.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, fmt.Errorf("elfbin: reading symbols: %w", err)
	}
	return syms, nil
}

// DynSymbols exposes the dynamic symbol table.
func (e *Executable) DynSymbols() ([]elf.Symbol, error) {
	syms, err := e.file.DynamicSymbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, fmt.Errorf("elfbin: reading dynamic symbols: %w", err)
	}
	return syms, nil
}

// SymbolAt resolves an address to the name of the symbol whose range
// contains it, used to annotate CALL/JMP targets in the disassembly
// listing. Returns "" if no symbol covers the address.
func (e *Executable) SymbolAt(addr uint64) string {
	syms, err := e.Symbols()
	if err == nil {
		if name := symbolAt(syms, addr); name != "" {
			return name
		}
	}
	dyn, err := e.DynSymbols()
	if err == nil {
		return symbolAt(dyn, addr)
	}
	return ""
}

func symbolAt(syms []elf.Symbol, addr uint64) string {
	for _, s := range syms {
		if s.Value == addr {
			return s.Name
		}
		if s.Size > 0 && addr >= s.Value && addr < s.Value+s.Size {
			return s.Name
		}
	}
	return ""
}
