// Package abi exposes uchar with the C library calling convention:
// byte counts and errors share one size_t return value,
// and illegal sequences are additionally reported through errno.
package abi

import (
	"errors"

	"github.com/pchchv/uchar"
)

// Return value magic numbers for multi-byte conversion functions,
// (size_t)-1 and (size_t)-2.
// https://pubs.opengroup.org/onlinepubs/9699919799/functions/mbrtowc.html
const (
	IllegalSequence    = ^uint(0)
	IncompleteSequence = ^uint(0) - 1
)

// Magic numbers for a 32-bit size_t, as used by wasm32 guests.
const (
	IllegalSequence32    = ^uint32(0)
	IncompleteSequence32 = ^uint32(0) - 1
)

// Encode converts the result of a uchar call to a size_t return value.
func Encode(n int, err error) uint {
	switch {
	case err == nil:
		return uint(n)
	case errors.Is(err, uchar.ErrIncompleteSequence):
		return IncompleteSequence
	default:
		return IllegalSequence
	}
}

// Encode32 is like Encode for a 32-bit size_t.
func Encode32(n int, err error) uint32 {
	switch {
	case err == nil:
		return uint32(n)
	case errors.Is(err, uchar.ErrIncompleteSequence):
		return IncompleteSequence32
	default:
		return IllegalSequence32
	}
}

// Mbsinit returns 1 if ps is nil or in the initial state, 0 otherwise.
func Mbsinit(ps *uchar.State) int32 {
	if uchar.Mbsinit(ps) {
		return 1
	}
	return 0
}

// nul is the input used in place of a null source pointer.
var nul = [1]byte{0}

// Mbrtoc32 converts the next code point of s, storing it in pc32 if non-nil.
//
// A nil s stands for a null pointer and behaves as mbrtoc32(NULL, "", 1, ps):
// the output is discarded and only ps is inspected.
// On an illegal sequence errno is set to EINVAL or EILSEQ.
func Mbrtoc32(pc32 *uint32, s []byte, ps *uchar.State) uint {
	if s == nil {
		pc32 = nil
		s = nul[:]
	}

	var c rune
	n, err := uchar.Mbrtoc32(&c, s, ps)
	if err == nil && pc32 != nil && len(s) > 0 {
		*pc32 = uint32(c)
	}
	return result(n, err)
}

// Mbrlen returns the number of bytes completing the next code point of s.
// A nil s behaves as in Mbrtoc32.
func Mbrlen(s []byte, ps *uchar.State) uint {
	return Mbrtoc32(nil, s, ps)
}

func result(n int, err error) uint {
	if errno, ok := uchar.ErrnoOf(err); ok {
		SetErrno(errno)
	}
	return Encode(n, err)
}
