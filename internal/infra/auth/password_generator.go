package auth

import (
	"crypto/rand"
	"math/big"

	"greenhood/config"
	"greenhood/internal/domain/service"
	"greenhood/internal/domain/validation"
	"greenhood/internal/errors"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
	allChars     = upperLetters + lowerLetters + digits

	defaultGeneratedLength = 10
)

// randomPasswordGenerator creates passwords that pass the strength rule by construction.
type randomPasswordGenerator struct {
	length int
}

// NewPasswordGenerator is the constructor for randomPasswordGenerator.
// A configured length is clamped to the range the password rule accepts.
func NewPasswordGenerator(cfg *config.Config) service.PasswordGenerator {
	length := defaultGeneratedLength
	if cfg != nil && cfg.Auth != nil && cfg.Auth.RandomPasswordLength > 0 {
		length = min(max(cfg.Auth.RandomPasswordLength, validation.MinPasswordLength), validation.MaxPasswordLength)
	}

	return &randomPasswordGenerator{length: length}
}

// Generate returns one upper case letter, one lower case letter and one digit
// plus uniform filler, shuffled.
func (g *randomPasswordGenerator) Generate() (string, error) {
	password := make([]byte, g.length)

	for i, alphabet := range []string{upperLetters, lowerLetters, digits} {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		password[i] = c
	}
	for i := 3; i < g.length; i++ {
		c, err := pick(allChars)
		if err != nil {
			return "", err
		}
		password[i] = c
	}

	// Fisher-Yates
	for i := len(password) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func pick(alphabet string) (byte, error) {
	i, err := randInt(len(alphabet))
	if err != nil {
		return 0, err
	}

	return alphabet[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, errors.Wrap(err, "failed to read random bytes")
	}

	return int(v.Int64()), nil
}
