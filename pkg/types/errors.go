package types

import "fmt"

// Kind classifies an error by where it arose, so callers can decide whether
// to keep going (transport), record and continue (logical), or stop the
// whole run (malformed, usage).
type Kind int

const (
	// KindTransport covers resolution, connect and timeout failures. They
	// set the process exit indicator but never abort sibling transfers.
	KindTransport Kind = iota + 1

	// KindLogical covers non-success responses interpreted through the
	// backend's status decoder. The first one per output stream wins.
	KindLogical

	// KindMalformed covers payload lines that are not valid JSON. These are
	// fatal: skipping them would risk silent data loss.
	KindMalformed

	// KindUsage covers invalid requests detected before any network
	// activity, such as a bad rrtype list.
	KindUsage
)

// String returns the kind's short label.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindLogical:
		return "logical"
	case KindMalformed:
		return "malformed"
	case KindUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error is a tagged error carrying its classification, an optional backend
// status word, and a human-readable message.
type Error struct {
	Kind    Kind
	Status  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// UsageErrorf builds a usage-kind error with a formatted message.
func UsageErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}
