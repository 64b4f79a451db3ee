package socksio

import "fmt"

// ProtocolError reports malformed bytes received from a SOCKS peer: a wrong
// version byte, a non-zero reserved byte, an unknown address type, and
// similar wire-level violations. A connection that returns a ProtocolError
// from ReceiveData must be treated as unusable for further calls.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string { return "socksio: protocol error: " + e.msg }

// NewProtocolError builds a ProtocolError with a formatted message.
func NewProtocolError(format string, args ...any) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}

// StateError reports that an operation was called in a state that forbids
// it, such as calling Request before method negotiation completes, or
// calling any operation on a connection that already reached a terminal
// state.
type StateError struct {
	msg string
}

func (e *StateError) Error() string { return "socksio: state error: " + e.msg }

// NewStateError builds a StateError with a formatted message.
func NewStateError(format string, args ...any) *StateError {
	return &StateError{msg: fmt.Sprintf(format, args...)}
}

// UsageError reports that caller-supplied values violate a protocol
// constraint that is knowable before anything is put on the wire: an empty
// methods list, a username or password longer than 255 bytes, a SOCKS4
// address that isn't a literal IPv4 address, and so on.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return "socksio: usage error: " + e.msg }

// NewUsageError builds a UsageError with a formatted message.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}
