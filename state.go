package uchar

import "encoding/binary"

// State holds the bytes of a not-yet-complete UTF-8 sequence between calls.
// Its zero value is the initial state.
//
// The layout is exactly 4 bytes, filled contiguously from index 0,
// so that it can be shared with code expecting a C mbstate_t.
// Bytes of a partial sequence are never zero,
// which is what allows the number of bytes so far to be recovered
// by scanning for the first zero byte.
type State struct {
	seq [4]byte
}

// StateFromBytes returns the State with the given raw layout.
func StateFromBytes(b [4]byte) State {
	return State{seq: b}
}

// Bytes returns the raw layout of the state.
func (s *State) Bytes() [4]byte {
	return s.seq
}

// IsInitial reports whether no partial sequence is in progress.
func (s *State) IsInitial() bool {
	return binary.LittleEndian.Uint32(s.seq[:]) == 0
}

// ByteAt returns the byte at position idx.
func (s *State) ByteAt(idx int) byte {
	return s.seq[idx]
}

// BytesSoFar returns the number of bytes of the partial sequence, between 0 and 3.
// It panics if the last byte is set,
// which cannot happen between two decode calls.
func (s *State) BytesSoFar() int {
	switch {
	case s.seq[3] != 0:
		panic("uchar.State.BytesSoFar: unexpected state value; all 4 bytes set")
	case s.seq[2] != 0:
		return 3
	case s.seq[1] != 0:
		return 2
	case s.seq[0] != 0:
		return 1
	}
	return 0
}

// PushByte appends b to the partial sequence.
func (s *State) PushByte(b byte) {
	s.seq[s.BytesSoFar()] = b
}

// Reset returns the state to the initial state.
func (s *State) Reset() {
	s.seq = [4]byte{}
}
