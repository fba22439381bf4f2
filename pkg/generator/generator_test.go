package generator

import (
	"bytes"
	"errors"
	"io"
	mrand "math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passmeter/passmeter/pkg/strength"
)

// seeded returns a deterministic random source.
func seeded(seed int64) io.Reader {
	return mrand.New(mrand.NewSource(seed))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerate_DefaultLength(t *testing.T) {
	pw, err := New().Generate(0)
	require.NoError(t, err)
	assert.Len(t, pw, DefaultLength)
}

func TestGenerate_ContainsEveryClass(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		for _, n := range []int{MinLength, 8, DefaultLength, 40} {
			pw, err := NewWithReader(seeded(seed)).Generate(n)
			require.NoError(t, err, "seed %d len %d", seed, n)
			require.Len(t, pw, n, "seed %d", seed)
			for _, class := range classes {
				assert.True(t, strings.ContainsAny(pw, class), "seed %d len %d: %q has no char from %q", seed, n, pw, class)
			}
		}
	}
}

func TestGenerate_OnlyAllowedCharacters(t *testing.T) {
	all := Lowercase + Uppercase + Digits + Symbols
	pw, err := NewWithReader(seeded(7)).Generate(MaxLength)
	require.NoError(t, err)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(all, r), "unexpected character %q", r)
	}
}

func TestGenerate_MeetsAllStrengthCriteria(t *testing.T) {
	// Every generator symbol is in the evaluator's special set.
	for seed := int64(0); seed < 50; seed++ {
		pw, err := NewWithReader(seeded(seed)).Generate(DefaultLength)
		require.NoError(t, err)
		assert.Equal(t, 5, strength.Evaluate(pw).MetCount, "seed %d: %q", seed, pw)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := NewWithReader(seeded(42)).Generate(20)
	require.NoError(t, err)
	b, err := NewWithReader(seeded(42)).Generate(20)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_LengthErrors(t *testing.T) {
	_, err := New().Generate(3)
	assert.ErrorIs(t, err, ErrLengthTooShort, "length 3")
	_, err = New().Generate(-1)
	assert.ErrorIs(t, err, ErrLengthTooShort, "length -1")
	_, err = New().Generate(MaxLength + 1)
	assert.ErrorIs(t, err, ErrLengthTooLong)
}

func TestGenerate_SourceErrorPropagates(t *testing.T) {
	_, err := NewWithReader(failingReader{}).Generate(DefaultLength)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}

func TestGenerate_ShortSourceFails(t *testing.T) {
	_, err := NewWithReader(bytes.NewReader([]byte{1, 2})).Generate(DefaultLength)
	assert.Error(t, err)
}

func TestSymbolsAreSpecial(t *testing.T) {
	for _, r := range Symbols {
		assert.True(t, strings.ContainsRune(strength.SpecialChars, r), "symbol %q is not accepted by the special-character criterion", r)
	}
}
