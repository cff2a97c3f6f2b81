package uchar

import "github.com/pchchv/uchar/internal/utf8"

// decode decodes at most one code point from src, advancing state.
// Algorithm description:
//   - if state is initial and src[0] = 0xxxxxxx, the code point is src[0] -> end
//   - classify the leading byte, taken from state if a sequence is in progress
//   - append up to the missing number of bytes from src to state,
//     each of them must match 10xxxxxx unless it starts the sequence
//   - if src ran out, the sequence is incomplete and state keeps the bytes
//   - assemble the payload bits of the leading byte and
//     the low 6 bits of every following byte
//   - reject overlong encodings, surrogates and values above U+10FFFF
func decode(dst *rune, src []byte, state *State) (int, error) {
	// A state with all 4 bytes set is never left behind by a decode call.
	// Full verification happens once all bytes of the sequence are collected.
	if state.ByteAt(3) != 0 {
		state.Reset()
		return 0, illegal(EINVAL, "corrupted conversion state")
	}

	if len(src) == 0 {
		return 0, nil
	}

	next := src[0]
	if state.IsInitial() && utf8.IsASCII(next) {
		// 1-byte, 7-bit sequence
		if dst != nil {
			*dst = rune(next)
		}
		if next == 0 {
			return 0, nil
		}
		return 1, nil
	}

	lead := next
	if !state.IsInitial() {
		lead = state.ByteAt(0)
	}

	e, ok := utf8.Classify(lead)
	if !ok {
		state.Reset()
		return 0, illegal(EILSEQ, "invalid leading byte 0x%02X", lead)
	}

	wanted := e.Length - state.BytesSoFar()
	for _, b := range src[:min(wanted, len(src))] {
		if !state.IsInitial() && !utf8.IsContinuation(b) {
			// bad byte in the middle of a character
			state.Reset()
			return 0, illegal(EILSEQ, "expected continuation byte, got 0x%02X", b)
		}
		state.PushByte(b)
	}

	if len(src) < wanted {
		return 0, ErrIncompleteSequence
	}

	c := rune(state.ByteAt(0) & e.Mask)
	for i := 1; i < e.Length; i++ {
		c <<= 6
		c |= utf8.Payload(state.ByteAt(i))
	}

	if c < e.Min {
		// redundant encoding
		state.Reset()
		return 0, illegal(EILSEQ, "overlong encoding of U+%04X in %d bytes", c, e.Length)
	}

	if !utf8.ValidScalar(c) {
		state.Reset()
		return 0, illegal(EILSEQ, "invalid code point U+%04X", c)
	}

	if dst != nil {
		*dst = c
	}
	state.Reset()

	if c == 0 {
		return 0, nil
	}
	return wanted, nil
}
