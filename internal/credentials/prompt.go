package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter asks the operator for the bootstrap secrets, one per line.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter reuses in when it is already a *bufio.Reader so later
// readers of the same stream see the remaining input.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &ConsolePrompter{in: br, out: out}
}

func (p *ConsolePrompter) Secrets(ctx context.Context) (Secrets, error) {
	secret, err := p.ask(ctx, "Enter secret: ")
	if err != nil {
		return Secrets{}, err
	}
	code, err := p.ask(ctx, "Enter code: ")
	if err != nil {
		return Secrets{}, err
	}
	pin, err := p.ask(ctx, "Enter pin: ")
	if err != nil {
		return Secrets{}, err
	}
	return Secrets{Secret: secret, Code: code, PIN: pin}, nil
}

func (p *ConsolePrompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading %q: %w", strings.TrimSpace(prompt), err)
	}
	return strings.TrimSpace(line), nil
}
