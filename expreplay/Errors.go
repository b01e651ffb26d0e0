package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

// ErrEmptyBuffer is reported when sampling from a buffer that holds no
// transitions
var ErrEmptyBuffer = errors.New("buffer empty")

// ErrInsufficientSamples is reported when sampling from a buffer that
// holds fewer transitions than its minimum capacity
var ErrInsufficientSamples = errors.New("minimum capacity not yet reached")

// IsInsufficientSamples returns whether or not an error reports that
// there are insufficient samples in the buffer to sample from the
// buffer.
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, ErrInsufficientSamples)
}

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, ErrEmptyBuffer)
}
