package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"communityticketing/internal/domain"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

type argonCodeHasher struct{}

// NewCodeHasher returns a CodeHasher that derives argon2id digests for
// one-time login codes. The salt is stored alongside the hash so a
// candidate code can be re-derived and compared at verification time.
func NewCodeHasher() domain.CodeHasher {
	return &argonCodeHasher{}
}

func (h *argonCodeHasher) GenerateSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

func (h *argonCodeHasher) Hash(salt, code string) string {
	key := argon2.IDKey([]byte(code), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

func (h *argonCodeHasher) Compare(hash, salt, code string) bool {
	candidate := h.Hash(salt, code)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}
