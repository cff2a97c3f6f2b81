package abi

import (
	"sync/atomic"

	"github.com/pchchv/uchar"
)

// errno is the process-wide error status; the last writer wins.
var errno atomic.Uint32

// Errno returns the error status stored by the last failing call,
// or 0 if none was stored since the last SetErrno(0).
func Errno() uchar.Errno {
	return uchar.Errno(errno.Load())
}

// SetErrno stores e as the process-wide error status.
func SetErrno(e uchar.Errno) {
	errno.Store(uint32(e))
}
