package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	ErrNotTerminal = errors.New("standard input is not a terminal")
	ErrKeyMismatch = errors.New("keys do not match")
)

// PromptKey reads a key from the terminal without echoing it.
// With confirm set, the key must be entered twice.
func PromptKey(out io.Writer, confirm bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	read := func(prompt string) ([]byte, error) {
		_, _ = fmt.Fprint(out, prompt)
		defer func() {
			_, _ = fmt.Fprintln(out)
		}()
		return term.ReadPassword(fd)
	}
	key, err := read("Enter key: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return key, nil
	}
	again, err := read("Confirm key: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(key, again) {
		return nil, ErrKeyMismatch
	}
	return key, nil
}
