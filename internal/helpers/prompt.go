package helpers

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

func PromptPassword(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, "read password")
	}
	if len(pw) == 0 {
		return nil, errors.New("empty password")
	}
	return pw, nil
}

// PromptNewPassword asks twice and requires both entries to match.
func PromptNewPassword() ([]byte, error) {
	pw, err := PromptPassword("New wallet password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := PromptPassword("Repeat password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pw, confirm) {
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

// IsTerminal reports whether stdin can be used for prompts.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
