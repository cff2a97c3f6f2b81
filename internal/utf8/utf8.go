// Package utf8 classifies the leading byte of a UTF-8 sequence.
package utf8

const (
	tx = 0x80 // 1000 0000
	t2 = 0xC0 // 1100 0000
	t3 = 0xE0 // 1110 0000
	t4 = 0xF0 // 1111 0000
	t5 = 0xF8 // 1111 1000

	maskx = 0x3F // 0011 1111
	mask2 = 0x1F // 0001 1111
	mask3 = 0x0F // 0000 1111
	mask4 = 0x07 // 0000 0111

	rune1Max = 1<<7 - 1
	rune2Max = 1<<11 - 1
	rune3Max = 1<<16 - 1
)

const (
	// MaxRune is the largest Unicode code point.
	MaxRune = 0x10FFFF
	// SurrogateMin and SurrogateMax bound the UTF-16 surrogate range,
	// which holds no Unicode scalar values.
	SurrogateMin = 0xD800
	SurrogateMax = 0xDFFF
)
