package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordCost = 12
	AnswerCost   = 10
)

var ErrHash = errors.New("hash operation failed")

// Hasher hashes passwords and security answers with separate bcrypt costs.
type Hasher struct {
	passwordCost int
	answerCost   int
}

func NewHasher() Hasher { return Hasher{passwordCost: PasswordCost, answerCost: AnswerCost} }

// NewHasherWithCost is used by tests to keep bcrypt fast.
func NewHasherWithCost(passwordCost, answerCost int) Hasher {
	return Hasher{passwordCost: passwordCost, answerCost: answerCost}
}

func (h Hasher) HashPassword(p string) (string, error) { return hash(p, h.passwordCost) }

func (h Hasher) VerifyPassword(plain, digest string) (bool, error) { return verify(plain, digest) }

// NormalizeAnswer is applied before an answer is hashed or compared.
func NormalizeAnswer(a string) string { return strings.ToLower(strings.TrimSpace(a)) }

// answerKey digests the normalized answer to a fixed 44 bytes. bcrypt
// rejects inputs over 72 bytes, which a 60-rune accented answer exceeds.
func answerKey(a string) string {
	sum := sha256.Sum256([]byte(NormalizeAnswer(a)))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (h Hasher) HashAnswer(a string) (string, error) {
	return hash(answerKey(a), h.answerCost)
}

func (h Hasher) VerifyAnswer(plain, digest string) (bool, error) {
	return verify(answerKey(plain), digest)
}

func hash(s string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(s), cost)
	if err != nil {
		return "", errors.Join(ErrHash, err)
	}
	return string(b), nil
}

func verify(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrHash, err)
	}
}
