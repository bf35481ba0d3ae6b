// Package prompt collects interactive answers from the operator.
// Every prompt blocks until it gets an answer; there are no timeouts.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/holon-run/blacky/pkg/changeset"
)

// Terminator ends multi-line input when it appears alone on a line.
const Terminator = "."

// ErrInputClosed is returned when input ends before a valid answer was given.
var ErrInputClosed = errors.New("input closed before a valid answer was given")

// Prompter reads answers from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its line ending.
// io.EOF is returned only when no more data is available.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Description reads Markdown lines until a line containing only "." or EOF.
// The lines are joined with "\n" and the result is trimmed; it may be empty.
func (p *Prompter) Description(question string) (string, error) {
	fmt.Fprintln(p.out, question)
	fmt.Fprintf(p.out, "Finish input with a single line '%s' or EOF (Ctrl+D):\n", Terminator)

	var lines []string
	for {
		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read description: %w", err)
		}
		if strings.TrimSpace(line) == Terminator {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// ChangeType asks until the answer is one of patch, minor or major.
func (p *Prompter) ChangeType() (changeset.Kind, error) {
	for {
		fmt.Fprintf(p.out, "Change type for this changeset? [%s]: ", strings.Join(changeset.KindNames(), "/"))
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrInputClosed
		}
		if err != nil {
			return "", fmt.Errorf("failed to read change type: %w", err)
		}

		kind, err := changeset.ParseKind(line)
		if err == nil {
			return kind, nil
		}
		fmt.Fprintln(p.out, "Please enter 'patch', 'minor' or 'major'.")
	}
}
