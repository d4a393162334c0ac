package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks for missing settings on an interactive terminal.
type prompter struct {
	in         *bufio.Reader
	out        io.Writer
	isTerminal func() bool
	readSecret func() ([]byte, error)
}

func newTerminalPrompter(in *os.File, out io.Writer) *prompter {
	fd := int(in.Fd())
	return &prompter{
		in:         bufio.NewReader(in),
		out:        out,
		isTerminal: func() bool { return term.IsTerminal(fd) },
		readSecret: func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

// Ask reads one line. Outside a terminal it fails naming the flag and
// environment variable that would have supplied the value.
func (p *prompter) Ask(label, flag, env string) (string, error) {
	if !p.isTerminal() {
		return "", missingValue(label, flag, env)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return nonEmpty(strings.TrimSpace(line), label, flag, env)
}

// AskSecret reads one line without echo.
func (p *prompter) AskSecret(label, flag, env string) (string, error) {
	if !p.isTerminal() {
		return "", missingValue(label, flag, env)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return nonEmpty(strings.TrimSpace(string(b)), label, flag, env)
}

func nonEmpty(v, label, flag, env string) (string, error) {
	if v == "" {
		return "", missingValue(label, flag, env)
	}
	return v, nil
}

func missingValue(label, flag, env string) error {
	return fmt.Errorf("%s is required: pass --%s or set %s", strings.ToLower(label), flag, env)
}
