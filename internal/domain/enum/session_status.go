package enum

// SessionStatus is the lifecycle state of a register session.
// Open is the only non-terminal state.
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}
