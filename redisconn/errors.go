package redisconn

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is the transport error of commands issued on a Conn
	// without a session.
	ErrNotConnected = errors.New("redisconn: not connected")

	// ErrAlreadyConnected is returned by Connect when the Conn already has a
	// session.
	ErrAlreadyConnected = errors.New("redisconn: already connected")

	// ErrNil matches (via errors.Is) a *CommandError caused by a nil reply,
	// e.g. Get on a key that does not exist.
	ErrNil = errors.New("redisconn: nil reply")
)

// ConnectionError is the error returned when Connect fails, either at
// transport level or when selecting the logical database.
type ConnectionError struct {
	Addr string

	// Transport is the text of the transport error, if any.
	Transport string

	// Server is the error text sent by the server during the handshake, if any.
	Server string

	Cause error
}

var _ error = (*ConnectionError)(nil)

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("redisconn: connect to %s failed", e.Addr)
	if e.Transport != "" {
		msg += ": transport: " + e.Transport
	}
	if e.Server != "" {
		msg += ": server: " + e.Server
	}
	return msg
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// CommandError is the error returned when a command was sent but its reply
// does not classify as success.
type CommandError struct {
	// Op is the name of the operation, e.g. "HGET".
	Op string

	// Kind of the failing reply.
	Kind Kind

	// Transport is the text of the transport error, if any.
	Transport string

	// Server is the error text sent by the server, if any.
	Server string

	Cause error
}

var _ error = (*CommandError)(nil)

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("redisconn: %s failed with %s reply", e.Op, e.Kind)
	if e.Transport != "" {
		msg += ": transport: " + e.Transport
	}
	if e.Server != "" {
		msg += ": server: " + e.Server
	}
	return msg
}

// Unwrap returns the underlying transport error.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrNil) work for nil replies.
func (e *CommandError) Is(target error) bool {
	return target == ErrNil && e.Kind == KindNil
}

func newCommandError(op string, r Reply) *CommandError {
	e := &CommandError{
		Op:    op,
		Kind:  r.Kind,
		Cause: r.Err,
	}
	if r.Err != nil {
		e.Transport = r.Err.Error()
	}
	if r.Kind == KindError {
		e.Server = r.Str
	}
	return e
}
