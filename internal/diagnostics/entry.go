package diagnostics

import "fmt"

// Severity constants for entry classification.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityDebug   = "debug"
)

// Entry is a single diagnostic event: what happened, where in the
// section it happened, and how severe it is. Core fields are immutable
// once recorded; WithHint is the only chaining mutator, used to attach a
// human-facing suggestion to an error after the fact.
type Entry struct {
	severity string
	phase    string
	message  string
	location Location
	hint     string
}

// Severity returns the entry's severity level.
func (e *Entry) Severity() string { return e.severity }

// Phase returns the decode phase active when the entry was recorded.
func (e *Entry) Phase() string { return e.phase }

// Message returns the human-readable description.
func (e *Entry) Message() string { return e.message }

// Location returns the byte offset this entry refers to.
func (e *Entry) Location() Location { return e.location }

// Hint returns the optional fix suggestion, or "".
func (e *Entry) Hint() string { return e.hint }

// WithHint sets the fix suggestion and returns the same *Entry for chaining.
func (e *Entry) WithHint(text string) *Entry {
	e.hint = text
	return e
}

// String renders "severity [phase] location: message".
func (e *Entry) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", e.severity, e.phase, e.location.String(), e.message)
}
