// Package password generates initial passwords for lab users.
package password

import (
	"crypto/rand"
	"math/big"
)

// Character classes exclude glyphs that read ambiguously when passwords are
// handed out on paper or screen-shared: I/O from uppercase, l from
// lowercase, 0/1 from digits.
const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_=+?"

	length      = 16
	perClassMin = 2
)

// Generate returns a 16-character random password containing at least two
// characters from each class. The result is never logged or persisted here;
// callers decide whether to surface it.
func Generate() (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	all := upperChars + lowerChars + digitChars + symbolChars

	chars := make([]byte, 0, length)
	for _, class := range classes {
		for i := 0; i < perClassMin; i++ {
			c, err := pick(class)
			if err != nil {
				return "", err
			}
			chars = append(chars, c)
		}
	}
	for len(chars) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates so the guaranteed class characters do not cluster at
	// fixed positions.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
