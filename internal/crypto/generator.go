package crypto

import (
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	specialChars   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	letterChars = uppercaseChars + lowercaseChars

	MinLength     = 8
	MaxLength     = 32
	DefaultLength = 12
)

var (
	ErrLengthTooShort = errors.New("password length must be at least 8")
	ErrLengthTooLong  = errors.New("password length must be at most 32")
)

// Policy configures the password generator. Letters are always part of the
// character set; digits and special characters are opt-in.
type Policy struct {
	Length         int  `json:"length"`
	IncludeDigits  bool `json:"include_digits"`
	IncludeSpecial bool `json:"include_special"`
}

// DefaultPolicy returns 12 characters with digits and special characters enabled.
func DefaultPolicy() Policy {
	return Policy{
		Length:         DefaultLength,
		IncludeDigits:  true,
		IncludeSpecial: true,
	}
}

// Validate reports whether the policy length is within [MinLength, MaxLength].
func (p Policy) Validate() error {
	if p.Length < MinLength {
		return ErrLengthTooShort
	}
	if p.Length > MaxLength {
		return ErrLengthTooLong
	}
	return nil
}

// Charset returns the candidate characters for the policy in a fixed order.
func (p Policy) Charset() string {
	var sb strings.Builder
	sb.WriteString(letterChars)
	if p.IncludeDigits {
		sb.WriteString(digitChars)
	}
	if p.IncludeSpecial {
		sb.WriteString(specialChars)
	}
	return sb.String()
}

// EntropyBits is the entropy of a password drawn under the policy:
// length * log2(charset size).
func (p Policy) EntropyBits() float64 {
	return float64(p.Length) * math.Log2(float64(len(p.Charset())))
}

// Generate creates a cryptographically secure random password. Every position
// is an independent uniform draw over the full charset, so a password generated
// with digits enabled is not guaranteed to contain a digit.
func Generate(p Policy) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	charset := p.Charset()
	result := make([]byte, p.Length)
	for i := range result {
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
