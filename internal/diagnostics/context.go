// Package diagnostics accumulates decode-stage diagnostic entries while a
// code section is decoded (the CLI's disassemble loop records one entry
// per decoded instruction). It is adapted from keurnel-assembler's
// internal/debugcontext: same append-only, mutex-guarded, phase-tagged
// entry log, with Location's source line/column swapped for a byte
// offset into the section being decoded.
package diagnostics

import "sync"

// Context is a passive, append-only accumulator of decode diagnostics.
// Safe for concurrent writes; create it once per decode run and pass it
// by reference to the code that records into it.
type Context struct {
	sectionName string
	phase       string
	entries     []*Entry
	mu          sync.Mutex
}

// New returns a Context scoped to the named section, with no phase set
// and no entries recorded.
func New(sectionName string) *Context {
	return &Context{sectionName: sectionName, entries: make([]*Entry, 0)}
}

// SetPhase tags subsequent entries with name until it changes again.
func (c *Context) SetPhase(name string) {
	c.mu.Lock()
	c.phase = name
	c.mu.Unlock()
}

// Phase returns the current phase name.
func (c *Context) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// At builds a Location bound to the context's section and the given
// byte offset.
func (c *Context) At(offset int) Location {
	return Location{SectionName: c.sectionName, Offset: offset}
}

func (c *Context) record(severity string, loc Location, message string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &Entry{severity: severity, phase: c.phase, message: message, location: loc}
	c.entries = append(c.entries, e)
	return e
}

// Error records an "error"-severity entry and returns it for chaining.
func (c *Context) Error(loc Location, message string) *Entry {
	return c.record(SeverityError, loc, message)
}

// Warning records a "warning"-severity entry and returns it for chaining.
func (c *Context) Warning(loc Location, message string) *Entry {
	return c.record(SeverityWarning, loc, message)
}

// Info records an "info"-severity entry and returns it for chaining.
func (c *Context) Info(loc Location, message string) *Entry {
	return c.record(SeverityInfo, loc, message)
}

// Debug records a "debug"-severity entry and returns it for chaining.
func (c *Context) Debug(loc Location, message string) *Entry {
	return c.record(SeverityDebug, loc, message)
}

// Entries returns all recorded entries in insertion order.
func (c *Context) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// HasErrors reports whether at least one "error" entry was recorded.
func (c *Context) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of entries recorded.
func (c *Context) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
