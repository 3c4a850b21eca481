package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrQuit is returned when the user types the quit sentinel
var ErrQuit = fmt.Errorf("quit requested")

// Prompter reads validated decimal amounts from an input stream
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a new Prompter
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// ReadLine prompts once and returns the trimmed, lowercased input
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text())), nil
}

// ReadAmount prompts until the user enters a valid non-negative amount,
// or types "q" to quit (ErrQuit). Negative numbers and leading-zero
// malformed input like "01" are rejected and re-prompted. "0.5" and "0"
// are accepted; the classifier decides what zero means.
func (p *Prompter) ReadAmount(prompt string) (decimal.Decimal, error) {
	for {
		raw, err := p.ReadLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		if raw == "q" {
			return decimal.Zero, ErrQuit
		}
		if strings.HasPrefix(raw, "-") {
			fmt.Fprintln(p.out, "Please enter a non-negative number or type q to quit.")
			continue
		}
		if len(raw) > 1 && strings.HasPrefix(raw, "0") && !strings.HasPrefix(raw, "0.") {
			fmt.Fprintln(p.out, "Please enter a valid number or type q to quit.")
			continue
		}

		value, err := decimal.NewFromString(raw)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid number or type q to quit.")
			continue
		}
		return value, nil
	}
}
