package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAmountAcceptsValidInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5000\n", "5000"},
		{"  3500.75 \n", "3500.75"},
		{"0\n", "0"},
		{"0.5\n", "0.5"},
	}
	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), io.Discard)
		got, err := p.ReadAmount("Amount: ")
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, got.String(), "input: %q", tt.input)
	}
}

func TestReadAmountRepromptsOnInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"negative", "-5\n100\n", "non-negative"},
		{"leading zero", "01\n100\n", "valid number"},
		{"not a number", "abc\n100\n", "valid number"},
		{"empty line", "\n100\n", "valid number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)
			got, err := p.ReadAmount("Amount: ")
			require.NoError(t, err)
			assert.Equal(t, "100", got.String())
			assert.Contains(t, out.String(), tt.msg)
		})
	}
}

func TestReadAmountQuit(t *testing.T) {
	p := NewPrompter(strings.NewReader("q\n"), io.Discard)
	_, err := p.ReadAmount("Amount: ")
	assert.ErrorIs(t, err, ErrQuit)

	// quit is case insensitive like the rest of the input
	p = NewPrompter(strings.NewReader("Q\n"), io.Discard)
	_, err = p.ReadAmount("Amount: ")
	assert.ErrorIs(t, err, ErrQuit)
}

func TestReadAmountEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard)
	_, err := p.ReadAmount("Amount: ")
	assert.ErrorIs(t, err, io.EOF)
}
