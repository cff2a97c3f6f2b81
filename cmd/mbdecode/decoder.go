package main

import (
	"errors"
	"io"

	"github.com/pchchv/uchar"
	"github.com/pchchv/uchar/internal/utf8"
)

// Event is one decoded code point, or one rejected run of bytes.
type Event struct {
	Rune  rune
	Bytes []byte
	Err   error
}

// errTruncated reports input ending inside a sequence.
var errTruncated = errors.New("mbdecode: input ends inside a multibyte sequence")

// streamDecoder feeds the decoder one byte per call,
// the way a terminal delivers input.
type streamDecoder struct {
	st      uchar.State
	pending []byte // bytes of the current sequence
}

// feed decodes b and returns the events it completes.
// The byte that made a sequence illegal is decoded again from the initial state
// unless it is a continuation byte, so "C2 41" yields an error and 'A'.
func (d *streamDecoder) feed(b byte) []Event {
	d.pending = append(d.pending, b)
	var c rune
	_, err := uchar.Mbrtoc32(&c, []byte{b}, &d.st)
	switch {
	case errors.Is(err, uchar.ErrIncompleteSequence):
		return nil
	case err != nil && len(d.pending) > 1 && !utf8.IsContinuation(b):
		ev := Event{Bytes: d.pending[:len(d.pending)-1], Err: err}
		d.pending = nil
		return append([]Event{ev}, d.feed(b)...)
	}

	ev := Event{Rune: c, Bytes: d.pending, Err: err}
	d.pending = nil
	return []Event{ev}
}

// flush reports a sequence left incomplete at the end of input.
func (d *streamDecoder) flush() []Event {
	if len(d.pending) == 0 {
		return nil
	}

	ev := Event{Bytes: d.pending, Err: errTruncated}
	d.pending = nil
	d.st.Reset()
	return []Event{ev}
}

// decodeStream decodes r and calls emit for every event.
// stop, if non-nil, ends decoding when it returns true for a byte.
func decodeStream(r io.ByteReader, stop func(byte) bool, emit func(Event) error) error {
	var d streamDecoder
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if stop != nil && stop(b) {
			break
		}

		for _, ev := range d.feed(b) {
			if err := emit(ev); err != nil {
				return err
			}
		}
	}

	for _, ev := range d.flush() {
		if err := emit(ev); err != nil {
			return err
		}
	}
	return nil
}
