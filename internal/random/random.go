package random

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/myrjola/botornot/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n cryptographically random ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	upper := big.NewInt(int64(len(allowedLetters)))
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return "", errors.Wrap(err, "random int")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// NewRand returns a fast pseudo-random generator seeded from the operating system's entropy source.
//
// The generator is not safe for concurrent use.
func NewRand() (*mathrand.Rand, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, errors.Wrap(err, "read seed")
	}
	return mathrand.New(mathrand.NewChaCha8(seed)), nil
}

// NewSeededRand returns a deterministic generator for reproducible runs such as tests and the CLI.
func NewSeededRand(seed uint64) *mathrand.Rand {
	return mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:mnd // golden ratio constant
}
