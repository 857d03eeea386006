// Package async models the three-phase lifecycle shared by every network-backed
// store operation: an operation is pending until it either succeeds with a
// payload or fails with a human-readable reason.
package async

import "errors"

// Phase is the lifecycle position of an asynchronous operation
type Phase int

const (
	Pending Phase = iota
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is one phase of an operation. Payload is only meaningful when Phase is
// Succeeded and Reason only when Phase is Failed. An empty Reason means the
// failure carried no message.
type Result[T any] struct {
	Phase   Phase
	Payload T
	Reason  string
}

// Pend returns the pending phase.
func Pend[T any]() Result[T] {
	return Result[T]{Phase: Pending}
}

// Succeed returns the succeeded phase carrying v.
func Succeed[T any](v T) Result[T] {
	return Result[T]{Phase: Succeeded, Payload: v}
}

// Fail returns the failed phase with the given reason.
func Fail[T any](reason string) Result[T] {
	return Result[T]{Phase: Failed, Reason: reason}
}

// FailWith returns the failed phase for err.
func FailWith[T any](err error) Result[T] {
	return Fail[T](Message(err))
}

// Settle converts a call outcome into its settled phase.
func Settle[T any](v T, err error) Result[T] {
	if err != nil {
		return FailWith[T](err)
	}
	return Succeed(v)
}

// Done reports whether the operation has settled.
func (r Result[T]) Done() bool {
	return r.Phase != Pending
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Phase == Succeeded
}

// ReasonOr returns the failure reason, or fallback when the failure carried no
// message.
func (r Result[T]) ReasonOr(fallback string) string {
	if r.Reason == "" {
		return fallback
	}
	return r.Reason
}

// Messager is implemented by errors that distinguish a user-facing message from
// their full Error text.
type Messager interface {
	UserMessage() string
}

// Message extracts the human-readable message carried by err. It returns the
// empty string when err is nil or carries no message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var m Messager
	if errors.As(err, &m) {
		return m.UserMessage()
	}
	return err.Error()
}
