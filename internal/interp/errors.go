package interp

import "github.com/plu7o/plox/internal/token"

// RuntimeError is the out-of-band carrier for evaluation failures. It is
// threaded through evaluate/execute as a normal return value rather than
// raised via panic, so the evaluator can always distinguish a genuine
// runtime error from a Return unwind (see control.go).
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

func (e *RuntimeError) Error() string {
	return e.Message
}
