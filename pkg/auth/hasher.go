// Package auth turns plaintext passwords into storable digests and checks
// candidates against them. It also signs the session tokens handed out on
// login (see token.go).
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Prefix     = "pbkdf2:sha256:"
	pbkdf2Iterations = 600000
	pbkdf2SaltLen    = 8
	pbkdf2KeyLen     = sha256.Size
	saltAlphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bcryptMaxBytes   = 72
)

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("auth: password cannot be empty")
	// ErrPasswordTooLong is returned when a password exceeds the hasher's input limit.
	ErrPasswordTooLong = errors.New("auth: password too long")
)

// PasswordLimiter is implemented by hashers that only accept a bounded
// password length. Zero means unlimited.
type PasswordLimiter interface {
	MaxPasswordBytes() int
}

// PasswordHasher produces digests that embed their own algorithm and salt.
type PasswordHasher interface {
	// Hash returns a digest of plain. Two calls with the same input differ.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches digest. A malformed or foreign
	// digest is simply a mismatch.
	Verify(digest, plain string) bool
}

// NewHasher returns the hasher selected by HASH_DRIVER. Whatever the driver,
// the result verifies every digest format this package knows.
func NewHasher(driver string) PasswordHasher {
	switch strings.ToLower(driver) {
	case "bcrypt":
		return NewMultiHasher(NewBcryptHasher(bcrypt.DefaultCost), NewPBKDF2Hasher(pbkdf2Iterations))
	default:
		return NewMultiHasher(NewPBKDF2Hasher(pbkdf2Iterations), NewBcryptHasher(bcrypt.DefaultCost))
	}
}

// PBKDF2Hasher writes digests as "pbkdf2:sha256:<iterations>$<salt>$<hex>",
// the layout used by werkzeug, so accounts created by earlier deployments
// keep working.
type PBKDF2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher creates a hasher. iterations <= 0 selects the default.
func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = pbkdf2Iterations
	}
	return &PBKDF2Hasher{iterations: iterations}
}

func (h *PBKDF2Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", oops.Code("AUTH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}

	salt, err := randomSalt(pbkdf2SaltLen)
	if err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := pbkdf2.Key([]byte(plain), []byte(salt), h.iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, h.iterations, salt, hex.EncodeToString(key)), nil
}

func (h *PBKDF2Hasher) MaxPasswordBytes() int { return 0 }

func (h *PBKDF2Hasher) Verify(digest, plain string) bool {
	if !strings.HasPrefix(digest, pbkdf2Prefix) {
		return false
	}

	parts := strings.SplitN(strings.TrimPrefix(digest, pbkdf2Prefix), "$", 3)
	if len(parts) != 3 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(plain), []byte(parts[1]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// BcryptHasher writes standard "$2a$" digests.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", oops.Code("AUTH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}
	if len(plain) > bcryptMaxBytes {
		return "", oops.Code("AUTH_PASSWORD_TOO_LONG").With("limit", bcryptMaxBytes).Wrap(ErrPasswordTooLong)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(digest, plain string) bool {
	if !strings.HasPrefix(digest, "$2") {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// MaxPasswordBytes is the bcrypt input limit; longer input is refused rather
// than silently truncated.
func (h *BcryptHasher) MaxPasswordBytes() int { return bcryptMaxBytes }

// MultiHasher hashes with its primary and verifies with whichever hasher
// recognises the digest.
type MultiHasher struct {
	primary PasswordHasher
	others  []PasswordHasher
}

func NewMultiHasher(primary PasswordHasher, others ...PasswordHasher) *MultiHasher {
	return &MultiHasher{primary: primary, others: others}
}

func (m *MultiHasher) Hash(plain string) (string, error) {
	return m.primary.Hash(plain)
}

// MaxPasswordBytes reports the primary hasher's limit, since only it hashes.
func (m *MultiHasher) MaxPasswordBytes() int {
	if l, ok := m.primary.(PasswordLimiter); ok {
		return l.MaxPasswordBytes()
	}
	return 0
}

func (m *MultiHasher) Verify(digest, plain string) bool {
	if m.primary.Verify(digest, plain) {
		return true
	}
	for _, h := range m.others {
		if h.Verify(digest, plain) {
			return true
		}
	}
	return false
}

func randomSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
