package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/icza/bitio"
)

// replacementChar is written in place of rejected bytes in binary output.
const replacementChar = 0xFFFD

var (
	codeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// printer writes decoding events.
type printer interface {
	Print(ev Event) error
	Close() error
}

// textPrinter writes one line per event.
type textPrinter struct {
	w   io.Writer
	eol string // "\r\n" while the terminal is in raw mode
}

func newTextPrinter(w io.Writer, eol string) *textPrinter {
	return &textPrinter{w: w, eol: eol}
}

func (p *textPrinter) Print(ev Event) error {
	hex := bytesStyle.Render(fmt.Sprintf("% X", ev.Bytes))
	if ev.Err != nil {
		_, err := fmt.Fprintf(p.w, "%s  %s%s", errorStyle.Render("invalid"), hex, p.eol)
		return err
	}

	_, err := fmt.Fprintf(p.w, "%s  %s  %s%s", codeStyle.Render(fmt.Sprintf("U+%04X", ev.Rune)), hex, quote(ev.Rune), p.eol)
	return err
}

func (p *textPrinter) Close() error {
	return nil
}

// quote returns the Go quoted form of r without the surrounding quotes.
func quote(r rune) string {
	return strings.Trim(strconv.QuoteRune(r), "'")
}

// utf32Printer writes code points as UTF-32BE.
type utf32Printer struct {
	bw *bitio.Writer
}

func newUTF32Printer(w io.Writer) *utf32Printer {
	return &utf32Printer{bw: bitio.NewWriter(w)}
}

func (p *utf32Printer) Print(ev Event) error {
	r := ev.Rune
	if ev.Err != nil {
		r = replacementChar
	}
	return p.bw.WriteBits(uint64(r), 32)
}

// Close flushes pending writes.
func (p *utf32Printer) Close() error {
	return p.bw.Close()
}
