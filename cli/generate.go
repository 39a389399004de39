package cli

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const (
	DefaultPasswordLength = 16

	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"
)

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GeneratePassword returns a random password of the given length. Unless
// simple is set it contains at least one lowercase letter, uppercase
// letter, digit and symbol.
func GeneratePassword(length int, simple bool) (string, error) {
	classes := []string{lowerChars, upperChars, digitChars}
	if !simple {
		classes = append(classes, symbolChars)
	}
	if length < len(classes) {
		return "", errors.Errorf("password length must be at least %d", len(classes))
	}

	var all string
	for _, c := range classes {
		all += c
	}

	out := make([]byte, 0, length)
	for _, c := range classes {
		i, err := randIndex(len(c))
		if err != nil {
			return "", errors.Wrap(err, "cannot generate password")
		}
		out = append(out, c[i])
	}
	for len(out) < length {
		i, err := randIndex(len(all))
		if err != nil {
			return "", errors.Wrap(err, "cannot generate password")
		}
		out = append(out, all[i])
	}

	// Fisher-Yates so the guaranteed characters are not always first.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", errors.Wrap(err, "cannot generate password")
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
