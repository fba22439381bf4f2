// Package generator creates random passwords that satisfy every character
// class the strength evaluator rewards.
//
// A password holds one lowercase letter, one uppercase letter, one digit and
// one symbol, is filled up from the union of all four alphabets, and is then
// shuffled with Fisher–Yates. All randomness comes from crypto/rand unless a
// different reader is injected for tests.
package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Alphabets used by the generator.
const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Length limits.
const (
	DefaultLength = 16
	MinLength     = 4
	MaxLength     = 128
)

// ErrLengthTooShort is returned when the requested length cannot fit one
// character of every class.
var ErrLengthTooShort = errors.New("generator: length too short")

// ErrLengthTooLong is returned when the requested length exceeds MaxLength.
var ErrLengthTooLong = errors.New("generator: length too long")

var classes = []string{Lowercase, Uppercase, Digits, Symbols}

// Generator produces passwords from a random source.
type Generator struct {
	rand io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewWithReader returns a Generator that draws randomness from r.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns a password of length characters. A length of 0 selects
// DefaultLength.
func (g *Generator) Generate(length int) (string, error) {
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength {
		return "", fmt.Errorf("%w: %d < %d", ErrLengthTooShort, length, MinLength)
	}
	if length > MaxLength {
		return "", fmt.Errorf("%w: %d > %d", ErrLengthTooLong, length, MaxLength)
	}

	all := Lowercase + Uppercase + Digits + Symbols
	buf := make([]byte, 0, length)

	for _, class := range classes {
		c, err := g.pick(class)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := g.pick(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	if err := g.shuffle(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// pick returns a uniformly chosen byte of alphabet.
func (g *Generator) pick(alphabet string) (byte, error) {
	i, err := g.intn(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

// shuffle permutes buf uniformly in place.
func (g *Generator) shuffle(buf []byte) error {
	for i := len(buf) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("generator: read random source: %w", err)
	}
	return int(v.Int64()), nil
}
