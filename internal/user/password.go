package user

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemeLegacy = "legacy"

	DefaultCost = bcrypt.DefaultCost
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	// NeedsRehash reports whether a stored hash should be replaced on the next successful login.
	NeedsRehash(hash string) bool
}

func NewHasher(scheme string, cost int) (PasswordHasher, error) {
	switch scheme {
	case "", SchemeBcrypt:
		if cost == 0 {
			cost = DefaultCost
		}

		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
		}

		return BcryptHasher{Cost: cost}, nil
	case SchemeLegacy:
		return LegacyHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// BcryptHasher stores salted bcrypt hashes and still accepts legacy encoded passwords.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(b), nil
}

func (h BcryptHasher) Verify(hash, password string) bool {
	if !isBcrypt(hash) {
		return LegacyHasher{}.Verify(hash, password)
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h BcryptHasher) NeedsRehash(hash string) bool {
	return !isBcrypt(hash)
}

// LegacyHasher is the reversible base64 encoding older snapshots were written with.
// It is not a security boundary.
type LegacyHasher struct{}

func (LegacyHasher) Hash(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

func (LegacyHasher) Verify(hash, password string) bool {
	encoded := base64.StdEncoding.EncodeToString([]byte(password))
	return subtle.ConstantTimeCompare([]byte(hash), []byte(encoded)) == 1
}

func (LegacyHasher) NeedsRehash(string) bool {
	return false
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
