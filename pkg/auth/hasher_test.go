package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Low work factors keep the suite fast; the format is what matters here.
func testHashers() map[string]PasswordHasher {
	return map[string]PasswordHasher{
		"pbkdf2": NewPBKDF2Hasher(1000),
		"bcrypt": NewBcryptHasher(bcrypt.MinCost),
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			for _, pw := range []string{"pw1", "correct horse battery staple", "ünïcødé", " "} {
				digest, err := h.Hash(pw)
				require.NoError(t, err)
				assert.NotContains(t, digest, pw)
				assert.True(t, h.Verify(digest, pw))
				assert.False(t, h.Verify(digest, pw+"x"))
				assert.False(t, h.Verify(digest, ""))
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same")
			require.NoError(t, err)
			b, err := h.Hash("same")
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			_, err := h.Hash("")
			assert.ErrorIs(t, err, ErrEmptyPassword)
		})
	}
}

func TestPBKDF2DigestLayout(t *testing.T) {
	digest, err := NewPBKDF2Hasher(1000).Hash("pw")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(digest, "pbkdf2:sha256:1000$"))
	parts := strings.Split(strings.TrimPrefix(digest, "pbkdf2:sha256:"), "$")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 64)
}

func TestPBKDF2VerifiesWerkzeugDigest(t *testing.T) {
	// generate_password_hash("pw1", method="pbkdf2:sha256:1000") with salt "abcdEFGH"
	digest := "pbkdf2:sha256:1000$abcdEFGH$d36f53670d131a2789467e2e479d3b6422fad8cc623692a1a1321d5f4aa3beb3"
	h := NewPBKDF2Hasher(0)

	assert.True(t, h.Verify(digest, "pw1"), "iterations are read from the digest")
	assert.False(t, h.Verify(digest, "pw2"))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewHasher("pbkdf2")
	for _, digest := range []string{
		"",
		"plaintext",
		"pbkdf2:sha256:",
		"pbkdf2:sha256:abc$salt$00",
		"pbkdf2:sha256:1000$salt$not-hex",
		"pbkdf2:sha256:1000$salt",
		"$2a$broken",
	} {
		assert.False(t, h.Verify(digest, "pw"), digest)
	}
}

func TestMultiHasherVerifiesEitherFormat(t *testing.T) {
	pb := NewPBKDF2Hasher(1000)
	bc := NewBcryptHasher(bcrypt.MinCost)
	m := NewMultiHasher(pb, bc)

	d1, err := pb.Hash("pw")
	require.NoError(t, err)
	d2, err := bc.Hash("pw")
	require.NoError(t, err)

	assert.True(t, m.Verify(d1, "pw"))
	assert.True(t, m.Verify(d2, "pw"))

	d3, err := m.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d3, "pbkdf2:sha256:"))
}

func TestNewHasherSelectsPrimary(t *testing.T) {
	d, err := NewMultiHasher(NewBcryptHasher(bcrypt.MinCost)).Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$2a$"))

	assert.IsType(t, &MultiHasher{}, NewHasher("bcrypt"))
	assert.IsType(t, &MultiHasher{}, NewHasher("anything"))
}

func TestBcryptRefusesOverlongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.NotErrorIs(t, err, ErrEmptyPassword)

	digest, err := h.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, h.Verify(digest, strings.Repeat("a", 72)))
}

func TestMaxPasswordBytesFollowsPrimary(t *testing.T) {
	assert.Equal(t, 72, NewHasher("bcrypt").(PasswordLimiter).MaxPasswordBytes())
	assert.Equal(t, 0, NewHasher("pbkdf2").(PasswordLimiter).MaxPasswordBytes())
	assert.Equal(t, 0, NewPBKDF2Hasher(1000).MaxPasswordBytes())
}
