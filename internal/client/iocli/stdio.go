package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализация IO поверх stdin/stdout
type Stdio struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewStdio creates IO over os.Stdin and os.Stdout
func NewStdio() *Stdio {
	return NewFileIO(os.Stdin, os.Stdout)
}

// NewFileIO creates IO over in and out
func NewFileIO(in *os.File, out io.Writer) *Stdio {
	return &Stdio{in: in, out: out, reader: bufio.NewReader(in)}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadSecret читает строку без эха, если stdin терминал
func (s *Stdio) ReadSecret(prompt string) (string, error) {
	if !s.IsInteractive() {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(int(s.in.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func (s *Stdio) IsInteractive() bool {
	return term.IsTerminal(int(s.in.Fd()))
}
