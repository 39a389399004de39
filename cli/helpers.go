package cli

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const PasswordEnv = "HIHO_PASSWORD"

// ReadPassword prompts on w and reads a password from the terminal without
// echo. When stdin is not a terminal a plain line is read from in instead.
func ReadPassword(w io.Writer, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := readLine(in)
		if err != nil {
			return "", errors.Wrap(err, "failed to read password")
		}
		return line, nil
	}

	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	return string(pw), nil
}

// readPasswordConfirm reads a password twice and ensures both match.
func readPasswordConfirm(read func(prompt string) (string, error), first, second string) (string, error) {
	pw1, err := read(first)
	if err != nil {
		return "", err
	}
	pw2, err := read(second)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(pw1), []byte(pw2)) != 1 {
		return "", errors.New("passwords do not match")
	}
	if pw1 == "" {
		return "", errors.New("empty master password")
	}
	return pw1, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// passwordFromEnv returns the master password from HIHO_PASSWORD, if set.
func passwordFromEnv() (string, bool) {
	pw := os.Getenv(PasswordEnv)
	return pw, pw != ""
}
