// Package uchar provides restartable conversion of UTF-8 byte streams
// to Unicode code points, following the C mbrtoc32 and mbsinit functions.
//
// A multi-byte sequence may be split over several calls,
// e.g. when a terminal delivers one byte at a time.
// The bytes seen so far are kept in a caller-owned State,
// whose zero value is the initial state:
//
//	var st uchar.State
//	for _, b := range input {
//		var c rune
//		n, err := uchar.Mbrtoc32(&c, []byte{b}, &st)
//		...
//	}
//
// Package abi encodes the results using the C calling convention.
package uchar

// Mbsinit reports whether ps is in the initial state,
// i.e. no partial sequence is in progress.
// A nil ps is always in the initial state.
func Mbsinit(ps *State) bool {
	if ps == nil {
		return true
	}
	return ps.IsInitial()
}

// Mbrtoc32 decodes the next code point of s, storing it in pc32 if non-nil.
//
// It returns the number of bytes of s that completed the code point,
// and 0 if s is empty or the code point is U+0000.
// If s ends inside a valid sequence,
// ErrIncompleteSequence is returned and ps remembers the bytes consumed,
// so that the next call can continue with the rest of the sequence.
// Malformed input yields a *SequenceError and resets ps.
//
// If ps is nil, a temporary initial state is used,
// so sequences cannot be split over calls.
func Mbrtoc32(pc32 *rune, s []byte, ps *State) (int, error) {
	if ps == nil {
		var tmp State
		ps = &tmp
	}
	return decode(pc32, s, ps)
}

// Mbrlen returns the number of bytes completing the next code point of s.
// It is equivalent to Mbrtoc32(nil, s, ps).
func Mbrlen(s []byte, ps *State) (int, error) {
	return Mbrtoc32(nil, s, ps)
}
