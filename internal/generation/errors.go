package generation

import "fmt"

// TransportError means the request could not be sent or the response could
// not be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-success HTTP response. Message is already shaped for
// display.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// PreconditionError is returned synchronously when an operation is not
// allowed in the current state. It never reaches the network, so a UI can
// disable the triggering action instead of showing a transient failure.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
