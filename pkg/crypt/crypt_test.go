package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripJSON(t *testing.T) {
	c, err := New("app-key")
	require.NoError(t, err)

	enc, err := c.EncryptJSON([]string{"one", "two"})
	require.NoError(t, err)

	var out []string
	require.NoError(t, c.DecryptJSON(enc, &out))
	assert.Equal(t, []string{"one", "two"}, out)
}

func TestDecryptRejectsTamperingAndForeignKeys(t *testing.T) {
	a, err := New("key-a")
	require.NoError(t, err)
	b, err := New("key-b")
	require.NoError(t, err)

	enc, err := a.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = b.Decrypt(enc)
	assert.ErrorIs(t, err, ErrDecrypt)

	tampered := []byte(enc)
	tampered[len(tampered)/2] ^= 1
	_, err = a.Decrypt(string(tampered))
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = a.Decrypt("!!not base64!!")
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = a.Decrypt("")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestDeriveKeySeparatesLabels(t *testing.T) {
	session, err := DeriveKey("app-key", "session")
	require.NoError(t, err)
	flash, err := DeriveKey("app-key", "flash")
	require.NoError(t, err)
	again, err := DeriveKey("app-key", "session")
	require.NoError(t, err)
	other, err := DeriveKey("other-key", "session")
	require.NoError(t, err)

	assert.Len(t, session, 64)
	assert.Equal(t, session, again)
	assert.NotEqual(t, session, flash)
	assert.NotEqual(t, session, other)
	assert.NotContains(t, session, "app-key")

	_, err = DeriveKey("", "session")
	assert.Error(t, err)
}
