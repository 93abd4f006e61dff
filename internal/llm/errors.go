package llm

import "errors"

// The agents branch on exactly one distinction: transient failures earn a
// bounded retry within the tick, permanent ones are recorded and dropped.

type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func Transient(err error) error { return &TransientError{Err: err} }
func Permanent(err error) error { return &PermanentError{Err: err} }

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
