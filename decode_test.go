package uchar_test

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/icza/bitio"
	"github.com/pchchv/uchar"
)

// encodeLong encodes r using exactly n bytes (2 to 4),
// producing overlong and out-of-range encodings when asked to.
func encodeLong(t *testing.T, r rune, n int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	bw := bitio.NewWriter(buf)
	x := uint64(r)
	write := func(v uint64, bits uint8) {
		if err := bw.WriteBits(v&(1<<bits-1), bits); err != nil {
			t.Fatalf("unable to write %d bits; %v", bits, err)
		}
	}

	// leading byte: n one bits, a zero bit and 7-n payload bits
	write(1<<n-1, uint8(n))
	write(0, 1)
	write(x>>(6*(n-1)), uint8(7-n))
	// continuation bytes: 10 followed by 6 payload bits
	for i := n - 2; i >= 0; i-- {
		write(0x2, 2)
		write(x>>(6*i), 6)
	}

	if err := bw.Close(); err != nil {
		t.Fatalf("unable to close (flush) the bit buffer; %v", err)
	}
	return buf.Bytes()
}

func TestEncodeLongMatchesUTF8(t *testing.T) {
	for _, r := range []rune{0x80, 0x7FF, 0x800, 0x20AC, 0xFFFF, 0x10000, 0x1F600, 0x10FFFF} {
		want := utf8.AppendRune(nil, r)
		if got := encodeLong(t, r, len(want)); !bytes.Equal(got, want) {
			t.Fatalf("U+%04X: expected % X, got % X", r, want, got)
		}
	}
}

func TestMbrtoc32AllCodePoints(t *testing.T) {
	buf := make([]byte, 0, utf8.UTFMax)
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if 0xD800 <= r && r <= 0xDFFF {
			continue
		}

		buf = utf8.AppendRune(buf[:0], r)
		var st uchar.State
		c := rune(-1)
		n, err := uchar.Mbrtoc32(&c, buf, &st)
		if err != nil {
			t.Fatalf("U+%04X: unexpected error; %v", r, err)
		}

		want := len(buf)
		if r == 0 {
			want = 0
		}
		if n != want || c != r {
			t.Fatalf("U+%04X: expected (%d, U+%04X), got (%d, U+%04X)", r, want, r, n, c)
		}
		if !uchar.Mbsinit(&st) {
			t.Fatalf("U+%04X: state not initial after a complete code point", r)
		}
	}
}

func TestMbrtoc32ASCII(t *testing.T) {
	for b := 1; b < 0x80; b++ {
		var st uchar.State
		var c rune
		n, err := uchar.Mbrtoc32(&c, []byte{byte(b), 0xFF}, &st)
		if err != nil || n != 1 || c != rune(b) {
			t.Fatalf("0x%02X: expected (1, %d, nil), got (%d, %d, %v)", b, b, n, c, err)
		}
	}
}

func TestMbrtoc32Null(t *testing.T) {
	var st uchar.State
	c := rune(-1)
	n, err := uchar.Mbrtoc32(&c, []byte{0, 'a'}, &st)
	if err != nil || n != 0 || c != 0 {
		t.Fatalf("expected (0, 0, nil), got (%d, %d, %v)", n, c, err)
	}
}

func TestMbrtoc32Empty(t *testing.T) {
	st := uchar.StateFromBytes([4]byte{0xE2, 0x82})
	c := rune(-1)
	n, err := uchar.Mbrtoc32(&c, nil, &st)
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
	}
	if c != -1 {
		t.Fatalf("output written on empty input: %d", c)
	}
	if want := [4]byte{0xE2, 0x82}; st.Bytes() != want {
		t.Fatalf("state modified on empty input; expected %v, got %v", want, st.Bytes())
	}
}

func TestMbrtoc32LongerInput(t *testing.T) {
	var st uchar.State
	var c rune
	n, err := uchar.Mbrtoc32(&c, []byte("€uro"), &st)
	if err != nil || n != 3 || c != '€' {
		t.Fatalf("expected (3, '€', nil), got (%d, %q, %v)", n, c, err)
	}
}

func TestMbrtoc32Split(t *testing.T) {
	for _, r := range []rune{0x80, 0xE9, 0x7FF, 0x800, 0x20AC, 0xD7FF, 0xE000, 0xFFFD, 0xFFFF, 0x10000, 0x1F600, 0x10FFFF} {
		enc := utf8.AppendRune(nil, r)
		for k := 1; k < len(enc); k++ {
			var st uchar.State
			c := rune(-1)
			n, err := uchar.Mbrtoc32(&c, enc[:k], &st)
			if !errors.Is(err, uchar.ErrIncompleteSequence) || n != 0 {
				t.Fatalf("U+%04X split at %d: expected incomplete sequence, got (%d, %v)", r, k, n, err)
			}
			if c != -1 {
				t.Fatalf("U+%04X split at %d: output written on incomplete sequence", r, k)
			}
			if uchar.Mbsinit(&st) || st.BytesSoFar() != k {
				t.Fatalf("U+%04X split at %d: expected %d bytes in state, got %v", r, k, k, st.Bytes())
			}

			n, err = uchar.Mbrtoc32(&c, enc[k:], &st)
			if err != nil || n != len(enc)-k || c != r {
				t.Fatalf("U+%04X split at %d: expected (%d, U+%04X), got (%d, U+%04X, %v)", r, k, len(enc)-k, r, n, c, err)
			}
			if !uchar.Mbsinit(&st) {
				t.Fatalf("U+%04X split at %d: state not initial after completion", r, k)
			}
		}
	}
}

func TestMbrtoc32ByteAtATime(t *testing.T) {
	input := []byte("a€😀é\x00")
	want := []rune{'a', '€', '😀', 'é', 0}

	var st uchar.State
	var got []rune
	for _, b := range input {
		var c rune
		_, err := uchar.Mbrtoc32(&c, []byte{b}, &st)
		switch {
		case errors.Is(err, uchar.ErrIncompleteSequence):
			continue
		case err != nil:
			t.Fatalf("unexpected error at byte 0x%02X; %v", b, err)
		}
		got = append(got, c)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMbrtoc32Illegal(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"continuation as leading byte", []byte{0x80}},
		{"last continuation as leading byte", []byte{0xBF, 0x80}},
		{"5-byte leading byte", []byte{0xF8, 0x88, 0x80, 0x80, 0x80}},
		{"6-byte leading byte", []byte{0xFC}},
		{"0xFE", []byte{0xFE}},
		{"0xFF", []byte{0xFF}},
		{"ASCII after leading byte", []byte{0xC2, 0x41}},
		{"leading byte after leading byte", []byte{0xE2, 0xE2, 0x82}},
		{"NUL inside sequence", []byte{0xE2, 0x82, 0x00}},
		{"high surrogate", []byte{0xED, 0xA0, 0x80}},
		{"low surrogate", []byte{0xED, 0xBF, 0xBF}},
		{"above U+10FFFF", []byte{0xF4, 0x90, 0x80, 0x80}},
		{"largest 4-byte value", []byte{0xF7, 0xBF, 0xBF, 0xBF}},
		{"overlong NUL", []byte{0xC0, 0x80}},
		{"overlong slash", []byte{0xC0, 0xAF}},
		{"overlong U+007F", []byte{0xC1, 0xBF}},
		{"overlong U+07FF", []byte{0xE0, 0x9F, 0xBF}},
		{"overlong U+FFFF", []byte{0xF0, 0x8F, 0xBF, 0xBF}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var st uchar.State
			c := rune(-1)
			n, err := uchar.Mbrtoc32(&c, test.in, &st)
			if !errors.Is(err, uchar.ErrIllegalSequence) || n != 0 {
				t.Fatalf("expected illegal sequence, got (%d, %v)", n, err)
			}
			if errno, ok := uchar.ErrnoOf(err); !ok || errno != uchar.EILSEQ {
				t.Fatalf("expected EILSEQ, got %v", errno)
			}
			if c != -1 {
				t.Fatalf("output written on illegal sequence: U+%04X", c)
			}
			if !uchar.Mbsinit(&st) {
				t.Fatalf("state not reset after illegal sequence: %v", st.Bytes())
			}
		})
	}
}

func TestMbrtoc32Overlong(t *testing.T) {
	tests := []struct {
		r rune
		n int
	}{
		{0, 2}, {'A', 2}, {0x7F, 2},
		{0, 3}, {0x7F, 3}, {0x7FF, 3},
		{0, 4}, {0x7FF, 4}, {0x20AC, 4}, {0xFFFF, 4},
	}

	for _, test := range tests {
		in := encodeLong(t, test.r, test.n)
		var st uchar.State
		if _, err := uchar.Mbrtoc32(nil, in, &st); !errors.Is(err, uchar.ErrIllegalSequence) {
			t.Errorf("U+%04X in %d bytes (% X): expected illegal sequence, got %v", test.r, test.n, in, err)
		}
		if !uchar.Mbsinit(&st) {
			t.Errorf("U+%04X in %d bytes: state not reset", test.r, test.n)
		}
	}
}

func TestMbrtoc32IllegalAfterSplit(t *testing.T) {
	var st uchar.State
	if _, err := uchar.Mbrtoc32(nil, []byte{0xC2}, &st); !errors.Is(err, uchar.ErrIncompleteSequence) {
		t.Fatalf("expected incomplete sequence, got %v", err)
	}

	// ASCII does not take the fast path while a sequence is in progress
	if _, err := uchar.Mbrtoc32(nil, []byte{'A'}, &st); !errors.Is(err, uchar.ErrIllegalSequence) {
		t.Fatalf("expected illegal sequence, got %v", err)
	}
	if !uchar.Mbsinit(&st) {
		t.Fatalf("state not reset: %v", st.Bytes())
	}

	// decoding starts over cleanly
	var c rune
	if n, err := uchar.Mbrtoc32(&c, []byte{'A'}, &st); err != nil || n != 1 || c != 'A' {
		t.Fatalf("expected (1, 'A', nil), got (%d, %q, %v)", n, c, err)
	}
}

func TestMbrtoc32SurrogateSplit(t *testing.T) {
	var st uchar.State
	for _, b := range []byte{0xED, 0xA0} {
		if _, err := uchar.Mbrtoc32(nil, []byte{b}, &st); !errors.Is(err, uchar.ErrIncompleteSequence) {
			t.Fatalf("0x%02X: expected incomplete sequence, got %v", b, err)
		}
	}
	if _, err := uchar.Mbrtoc32(nil, []byte{0x80}, &st); !errors.Is(err, uchar.ErrIllegalSequence) {
		t.Fatalf("expected illegal sequence, got %v", err)
	}
	if !uchar.Mbsinit(&st) {
		t.Fatalf("state not reset: %v", st.Bytes())
	}
}

func TestMbrtoc32CorruptedState(t *testing.T) {
	st := uchar.StateFromBytes([4]byte{0xF0, 0x9F, 0x98, 0x80})
	n, err := uchar.Mbrtoc32(nil, []byte{'a'}, &st)
	if !errors.Is(err, uchar.ErrIllegalSequence) || n != 0 {
		t.Fatalf("expected illegal sequence, got (%d, %v)", n, err)
	}
	if errno, _ := uchar.ErrnoOf(err); errno != uchar.EINVAL {
		t.Fatalf("expected EINVAL, got %v", errno)
	}
	if !uchar.Mbsinit(&st) {
		t.Fatalf("state not reset: %v", st.Bytes())
	}

	// the guard runs before the empty input check
	st = uchar.StateFromBytes([4]byte{0, 0, 0, 1})
	if _, err := uchar.Mbrtoc32(nil, nil, &st); !errors.Is(err, uchar.ErrIllegalSequence) {
		t.Fatalf("expected illegal sequence on empty input, got %v", err)
	}
}

func TestMbrtoc32NilState(t *testing.T) {
	var c rune
	n, err := uchar.Mbrtoc32(&c, []byte("😀"), nil)
	if err != nil || n != 4 || c != '😀' {
		t.Fatalf("expected (4, '😀', nil), got (%d, %q, %v)", n, c, err)
	}

	// without a state, progress is not carried between calls
	if _, err := uchar.Mbrtoc32(&c, []byte{0xF0, 0x9F}, nil); !errors.Is(err, uchar.ErrIncompleteSequence) {
		t.Fatalf("expected incomplete sequence, got %v", err)
	}
	if _, err := uchar.Mbrtoc32(&c, []byte{0x98, 0x80}, nil); !errors.Is(err, uchar.ErrIllegalSequence) {
		t.Fatalf("expected illegal sequence, got %v", err)
	}
}

func TestMbrtoc32NilOutput(t *testing.T) {
	var st uchar.State
	n, err := uchar.Mbrtoc32(nil, []byte("€"), &st)
	if err != nil || n != 3 {
		t.Fatalf("expected (3, nil), got (%d, %v)", n, err)
	}
}

func TestMbrlen(t *testing.T) {
	for _, s := range []string{"", "\x00", "a", "é", "€", "😀"} {
		var st1, st2 uchar.State
		var c rune
		n1, err1 := uchar.Mbrlen([]byte(s), &st1)
		n2, err2 := uchar.Mbrtoc32(&c, []byte(s), &st2)
		if n1 != n2 || !errors.Is(err1, err2) {
			t.Errorf("%q: Mbrlen = (%d, %v), Mbrtoc32 = (%d, %v)", s, n1, err1, n2, err2)
		}
	}
}

func TestMbsinit(t *testing.T) {
	if !uchar.Mbsinit(nil) {
		t.Fatal("nil state is not initial")
	}

	var st uchar.State
	if !uchar.Mbsinit(&st) {
		t.Fatal("zero state is not initial")
	}

	if _, err := uchar.Mbrtoc32(nil, []byte{0xE2, 0x82}, &st); !errors.Is(err, uchar.ErrIncompleteSequence) {
		t.Fatalf("expected incomplete sequence, got %v", err)
	}
	if uchar.Mbsinit(&st) {
		t.Fatal("state initial after incomplete sequence")
	}

	if _, err := uchar.Mbrtoc32(nil, []byte{0xAC}, &st); err != nil {
		t.Fatal(err)
	}
	if !uchar.Mbsinit(&st) {
		t.Fatal("state not initial after complete sequence")
	}
}

func TestSequenceError(t *testing.T) {
	var st uchar.State
	_, err := uchar.Mbrtoc32(nil, []byte{0x80}, &st)

	var serr *uchar.SequenceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *uchar.SequenceError, got %T", err)
	}
	want := "uchar: illegal multibyte sequence: invalid leading byte 0x80 (EILSEQ)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}

	if _, ok := uchar.ErrnoOf(uchar.ErrIncompleteSequence); ok {
		t.Fatal("incomplete sequence carries no errno")
	}
}
