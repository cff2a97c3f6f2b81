package utf8

// Expectation describes the multi-byte sequence announced by a leading byte.
type Expectation struct {
	// Total number of bytes in the sequence, including the leading byte.
	Length int
	// Mask extracting the payload bits of the leading byte.
	Mask byte
	// Smallest code point the sequence may encode;
	// anything below it is an overlong encoding.
	Min rune
}

var (
	expect2 = Expectation{Length: 2, Mask: mask2, Min: rune1Max + 1}
	expect3 = Expectation{Length: 3, Mask: mask3, Min: rune2Max + 1}
	expect4 = Expectation{Length: 4, Mask: mask4, Min: rune3Max + 1}
)

// Classify returns the expectation for a multi-byte sequence starting with lead.
// Classification:
//   - if lead = 110xxxxx, the sequence is 2 bytes long
//   - if lead = 1110xxxx, the sequence is 3 bytes long
//   - if lead = 11110xxx, the sequence is 4 bytes long
//   - any other byte (0xxxxxxx, 10xxxxxx, 11111xxx) starts no multi-byte sequence
func Classify(lead byte) (Expectation, bool) {
	switch {
	case lead < t2:
		// if lead == 0xxxxxxx or 10xxxxxx
		return Expectation{}, false
	case lead < t3:
		// if lead == 110xxxxx
		// total: 11 bits (5 + 6)
		return expect2, true
	case lead < t4:
		// if lead == 1110xxxx
		// total: 16 bits (4 + 6 + 6)
		return expect3, true
	case lead < t5:
		// if lead == 11110xxx
		// total: 21 bits (3 + 6 + 6 + 6)
		return expect4, true
	}

	// if lead == 11111xxx
	return Expectation{}, false
}

// IsContinuation reports whether b matches 10xxxxxx.
func IsContinuation(b byte) bool {
	return b&t2 == tx
}

// Payload returns the low 6 bits of the continuation byte b.
func Payload(b byte) rune {
	return rune(b & maskx)
}

// IsASCII reports whether b is a 7-bit, single byte sequence.
func IsASCII(b byte) bool {
	return b < tx
}

// ValidScalar reports whether r is a Unicode scalar value,
// i.e. neither a surrogate nor above MaxRune.
func ValidScalar(r rune) bool {
	switch {
	case r < 0 || r > MaxRune:
		return false
	case SurrogateMin <= r && r <= SurrogateMax:
		return false
	}
	return true
}
