package elfbin_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/vexcore/elfdis/internal/elfbin"
)

// elf64SectionHeader mirrors the on-disk layout of an Elf64_Shdr entry.
type elf64SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// buildMinimalELF assembles a hand-rolled ELF64 little-endian file with a
// single code section named ".text" holding the given bytes, plus the
// mandatory NULL section and a .shstrtab. machine selects e_machine, so
// tests can exercise elfbin.Open's architecture rejection path.
func buildMinimalELF(t *testing.T, machine uint16, code []byte) []byte {
	t.Helper()

	const ehdrSize = 64
	const shdrSize = 64

	textOff := uint64(ehdrSize)
	strtab := []byte("\x00.text\x00.shstrtab\x00")
	strtabOff := textOff + uint64(len(code))
	shoff := strtabOff + uint64(len(strtab))

	var buf bytes.Buffer

	// e_ident
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* ELFDATA2LSB */, 1 /* EV_CURRENT */, 0})
	buf.Write(make([]byte, 8)) // pad e_ident to 16 bytes

	binary.Write(&buf, binary.LittleEndian, uint16(2))       // e_type = ET_EXEC
	binary.Write(&buf, binary.LittleEndian, machine)         // e_machine
	binary.Write(&buf, binary.LittleEndian, uint32(1))       // e_version
	binary.Write(&buf, binary.LittleEndian, uint64(0x401000)) // e_entry
	binary.Write(&buf, binary.LittleEndian, uint64(0))       // e_phoff
	binary.Write(&buf, binary.LittleEndian, shoff)           // e_shoff
	binary.Write(&buf, binary.LittleEndian, uint32(0))       // e_flags
	binary.Write(&buf, binary.LittleEndian, uint16(ehdrSize))// e_ehsize
	binary.Write(&buf, binary.LittleEndian, uint16(0))       // e_phentsize
	binary.Write(&buf, binary.LittleEndian, uint16(0))       // e_phnum
	binary.Write(&buf, binary.LittleEndian, uint16(shdrSize))// e_shentsize
	binary.Write(&buf, binary.LittleEndian, uint16(3))       // e_shnum
	binary.Write(&buf, binary.LittleEndian, uint16(2))       // e_shstrndx

	if buf.Len() != ehdrSize {
		t.Fatalf("ELF header assembled to %d bytes, want %d", buf.Len(), ehdrSize)
	}

	buf.Write(code)
	buf.Write(strtab)

	sections := []elf64SectionHeader{
		{}, // SHT_NULL
		{
			Name: 1, Type: 1 /* SHT_PROGBITS */, Flags: 0x6, /* ALLOC|EXECINSTR */
			Addr: 0x401000, Offset: textOff, Size: uint64(len(code)), AddrAlign: 16,
		},
		{
			Name: 7, Type: 3 /* SHT_STRTAB */, Offset: strtabOff, Size: uint64(len(strtab)), AddrAlign: 1,
		},
	}
	for _, s := range sections {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

func writeTempELF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.elf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestOpen_ValidX86_64Binary(t *testing.T) {
	code := []byte{0x90, 0x90, 0x90, 0x90}
	path := writeTempELF(t, buildMinimalELF(t, 62 /* EM_X86_64 */, code))

	exe, err := elfbin.Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer exe.Close()

	secs, err := exe.CodeSections()
	if err != nil {
		t.Fatalf("CodeSections() returned error: %v", err)
	}
	if len(secs) != 1 {
		t.Fatalf("CodeSections() returned %d sections, want 1", len(secs))
	}
	if secs[0].Name != ".text" {
		t.Fatalf("section name = %q, want %q", secs[0].Name, ".text")
	}
	if secs[0].Addr != 0x401000 {
		t.Fatalf("section addr = %#x, want %#x", secs[0].Addr, 0x401000)
	}
	if !bytes.Equal(secs[0].Data, code) {
		t.Fatalf("section data = % x, want % x", secs[0].Data, code)
	}
}

func TestOpen_RejectsNonX86_64Machine(t *testing.T) {
	path := writeTempELF(t, buildMinimalELF(t, 3 /* EM_386 */, []byte{0x90}))

	_, err := elfbin.Open(path)
	if err == nil {
		t.Fatal("expected Open() to reject a non-x86-64 binary")
	}
}

func TestSections_ListsAllHeaders(t *testing.T) {
	path := writeTempELF(t, buildMinimalELF(t, 62, []byte{0x90, 0x90}))

	exe, err := elfbin.Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer exe.Close()

	secs := exe.Sections()
	if len(secs) != 3 {
		t.Fatalf("Sections() returned %d entries, want 3", len(secs))
	}
	if secs[1].Name != ".text" || secs[1].Size != 2 {
		t.Fatalf("unexpected .text entry: %+v", secs[1])
	}
}

func TestCodeSection_Cursor(t *testing.T) {
	path := writeTempELF(t, buildMinimalELF(t, 62, []byte{0x48, 0x89, 0xe5}))

	exe, err := elfbin.Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer exe.Close()

	secs, err := exe.CodeSections()
	if err != nil {
		t.Fatalf("CodeSections() returned error: %v", err)
	}
	c := secs[0].Cursor()
	b, err := c.Read1()
	if err != nil {
		t.Fatalf("Cursor().Read1() returned error: %v", err)
	}
	if b != 0x48 {
		t.Fatalf("first byte = %#x, want 0x48", b)
	}
}
