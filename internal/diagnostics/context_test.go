package diagnostics_test

import (
	"sync"
	"testing"

	"github.com/vexcore/elfdis/internal/diagnostics"
)

func TestContext_RecordsBySeverity(t *testing.T) {
	ctx := diagnostics.New(".text")
	ctx.SetPhase("decode")

	ctx.Info(ctx.At(0), "section opened")
	ctx.Warning(ctx.At(4), "reserved opcode skipped")
	ctx.Error(ctx.At(8), "unknown opcode")
	ctx.Debug(ctx.At(12), "prefix state reset")

	if got := ctx.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
	if !ctx.HasErrors() {
		t.Fatal("HasErrors() = false, want true")
	}

	entries := ctx.Entries()
	if len(entries) != 4 {
		t.Fatalf("Entries() returned %d entries, want 4", len(entries))
	}
	if entries[2].Severity() != diagnostics.SeverityError {
		t.Fatalf("entries[2].Severity() = %q, want %q", entries[2].Severity(), diagnostics.SeverityError)
	}
	if entries[0].Phase() != "decode" {
		t.Fatalf("entries[0].Phase() = %q, want %q", entries[0].Phase(), "decode")
	}
	if entries[1].Location().Offset != 4 {
		t.Fatalf("entries[1].Location().Offset = %d, want 4", entries[1].Location().Offset)
	}
}

func TestContext_NoErrors(t *testing.T) {
	ctx := diagnostics.New(".text")
	ctx.Warning(ctx.At(0), "just a warning")
	if ctx.HasErrors() {
		t.Fatal("HasErrors() = true, want false")
	}
}

func TestEntry_WithHintChains(t *testing.T) {
	ctx := diagnostics.New(".text")
	e := ctx.Error(ctx.At(0), "unknown opcode").WithHint("check the opcode table")
	if e.Hint() != "check the opcode table" {
		t.Fatalf("Hint() = %q, want %q", e.Hint(), "check the opcode table")
	}
}

func TestContext_ConcurrentWrites(t *testing.T) {
	ctx := diagnostics.New(".text")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx.Info(ctx.At(n), "concurrent entry")
		}(i)
	}
	wg.Wait()
	if got := ctx.Count(); got != 50 {
		t.Fatalf("Count() = %d, want 50", got)
	}
}

func TestLocation_String(t *testing.T) {
	loc := diagnostics.Location{SectionName: ".text", Offset: 0x10}
	want := ".text+0x10"
	if got := loc.String(); got != want {
		t.Fatalf("Location.String() = %q, want %q", got, want)
	}
}
