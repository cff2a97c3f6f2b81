package uchar

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalSequence is matched by every *SequenceError.
	ErrIllegalSequence = errors.New("uchar: illegal multibyte sequence")
	// ErrIncompleteSequence is returned when the input ends inside a valid,
	// unfinished sequence. The state keeps the bytes seen so far.
	ErrIncompleteSequence = errors.New("uchar: incomplete multibyte sequence")
)

// Errno is the error status a C library would store in errno
// on an illegal sequence.
type Errno uint8

const (
	// EINVAL reports a conversion state that cannot result from earlier calls.
	EINVAL Errno = iota + 1
	// EILSEQ reports malformed, overlong or out-of-range input.
	EILSEQ
)

func (e Errno) String() string {
	switch e {
	case EINVAL:
		return "EINVAL"
	case EILSEQ:
		return "EILSEQ"
	default:
		return fmt.Sprintf("Errno(%d)", uint8(e))
	}
}

// SequenceError describes why a sequence was rejected.
// The conversion state is always back in the initial state when it is returned.
type SequenceError struct {
	// Errno is EINVAL for a corrupted state, EILSEQ otherwise.
	Errno Errno
	// Reason is a short human-readable description.
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrIllegalSequence, e.Reason, e.Errno)
}

// Unwrap returns ErrIllegalSequence.
func (e *SequenceError) Unwrap() error {
	return ErrIllegalSequence
}

// ErrnoOf returns the errno carried by err,
// and false if err is not an illegal sequence error.
func ErrnoOf(err error) (Errno, bool) {
	var serr *SequenceError
	if errors.As(err, &serr) {
		return serr.Errno, true
	}
	return 0, false
}

func illegal(errno Errno, format string, args ...any) error {
	return &SequenceError{Errno: errno, Reason: fmt.Sprintf(format, args...)}
}
