// internal/apperrors/errors.go
package apperrors

import "errors"

// Kind classifies errors that the HTTP layer translates into client responses.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unknown"
	}
}

// Error carries a Kind and a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewInvalidState builds an error for a request that cannot be served in its current state.
func NewInvalidState(msg string) error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// State returns nil when cond holds and an invalid-state error with msg otherwise.
func State(cond bool, msg string) error {
	if cond {
		return nil
	}
	return NewInvalidState(msg)
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsInvalidState(err error) bool {
	return KindOf(err) == KindInvalidState
}
