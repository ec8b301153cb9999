// Copyright (c) 2025 the conread authors
// released under the ISC license

package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxLineSize caps a single line read through the stdio console.
const maxLineSize = 1024 * 1024

var errLineTooLong = errors.New("line exceeds maximum length")

// Console is an abstract representation of keyboard input and screen output
type Console interface {
	io.Writer

	// ReadLine renders the prompt, then returns one line of input with its
	// terminator stripped.
	ReadLine(prompt string) (string, error)

	// ReadSecret is ReadLine without echoing what is typed.
	ReadSecret(prompt string) (string, error)

	// this is a hook to perform terminal cleanup, as in ergochat/readline
	Close() error
}

type stdioConsole struct {
	in  io.Reader
	out io.Writer
}

// NewStandardConsole returns the plain stdio implementation of Console.
// A nil in or out defaults to os.Stdin or os.Stdout. It consumes exactly
// one line per read, leaving the rest of the input for later readers.
func NewStandardConsole(in io.Reader, out io.Writer) (Console, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &stdioConsole{in: in, out: out}, nil
}

// readLine reads one byte at a time so nothing beyond the line terminator
// is buffered; a buffered reader here would steal input from whatever
// reads the stream next.
func (s *stdioConsole) readLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := s.in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			if sb.Len() >= maxLineSize {
				return "", errLineTooLong
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			return "", err
		}
	}
}

func (s *stdioConsole) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	return s.readLine()
}

func (s *stdioConsole) ReadSecret(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	if f, ok := s.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secretBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.out)
		return string(secretBytes), err
	}
	// piped input does not echo in the first place
	return s.readLine()
}

func (s *stdioConsole) Write(b []byte) (n int, err error) {
	return s.out.Write(b)
}

func (s *stdioConsole) Close() error {
	return nil
}
