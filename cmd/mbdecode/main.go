// Command mbdecode decodes UTF-8 input one byte at a time
// and prints every code point together with the bytes that encoded it.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Control characters ending raw terminal input: Ctrl-C and Ctrl-D.
const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// options holds the command line flags of a run.
type options struct {
	str    string
	file   string
	raw    bool
	format string
}

func main() {
	var (
		opts    options
		verbose bool
	)
	flag.StringVar(&opts.str, "s", "", "Decode the given string")
	flag.StringVar(&opts.file, "f", "", "Decode the given file (default stdin)")
	flag.BoolVar(&opts.raw, "raw", false, "Put a terminal stdin into raw mode and decode keystrokes (end with Ctrl-D)")
	flag.StringVar(&opts.format, "format", "text", "Output format: text or utf32be")
	flag.BoolVar(&verbose, "v", false, "Log decoding events to stderr")
	flag.Parse()

	if err := execute(opts, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs mbdecode on stdout, syncing the logger before returning.
func execute(opts options, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
	}
	defer logger.Sync()

	return run(opts, os.Stdout, logger)
}

func (o options) validate() error {
	if o.str != "" && o.file != "" {
		return errors.New("-s and -f are mutually exclusive")
	}
	if o.raw && (o.str != "" || o.file != "") {
		return errors.New("-raw reads stdin and cannot be combined with -s or -f")
	}
	return nil
}

func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	if err := opts.validate(); err != nil {
		return err
	}

	eol := "\n"
	if opts.raw {
		eol = "\r\n"
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	var p printer
	switch opts.format {
	case "text":
		p = newTextPrinter(out, eol)
	case "utf32be":
		p = newUTF32Printer(out)
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	var (
		in   io.Reader = os.Stdin
		stop func(byte) bool
	)
	switch {
	case opts.str != "":
		in = strings.NewReader(opts.str)
	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	case opts.raw:
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return errors.New("-raw requires stdin to be a terminal")
		}
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)

		stop = func(b byte) bool { return b == ctrlC || b == ctrlD }
		logger.Debug("terminal in raw mode", zap.Int("fd", fd))
	}

	err := decodeStream(bufio.NewReader(in), stop, func(ev Event) error {
		if ev.Err != nil {
			logger.Debug("illegal sequence", zap.String("bytes", fmt.Sprintf("% X", ev.Bytes)), zap.Error(ev.Err))
		} else {
			logger.Debug("decoded", zap.Int32("rune", ev.Rune), zap.Int("bytes", len(ev.Bytes)))
		}

		if err := p.Print(ev); err != nil {
			return err
		}
		// keystrokes must show up as they are typed
		if opts.raw {
			return out.Flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return p.Close()
}
