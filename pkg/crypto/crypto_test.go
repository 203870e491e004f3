package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("a small legal brief"),
		[]byte(""),
		bytes.Repeat([]byte{0x42}, 1<<16),
	}

	for _, plaintext := range payloads {
		encrypted, err := Encrypt(plaintext, "correct-horse-battery")
		require.NoError(t, err)

		decrypted, err := Decrypt(encrypted, "correct-horse-battery")
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestDecryptWrongSecret(t *testing.T) {
	encrypted, err := Encrypt([]byte("confidential settlement terms"), "secret-one")
	require.NoError(t, err)

	_, err = Decrypt(encrypted, "secret-two")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	encrypted, err := Encrypt([]byte("confidential settlement terms"), "secret")
	require.NoError(t, err)

	// Flip a byte in the ciphertext region (past salt, nonce and tag).
	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = Decrypt(tampered, "secret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDecryptTamperedTag(t *testing.T) {
	encrypted, err := Encrypt([]byte("payload"), "secret")
	require.NoError(t, err)

	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	tampered[saltSize+nonceSize] ^= 0x01 // first tag byte

	_, err = Decrypt(tampered, "secret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDecryptTruncatedBuffer(t *testing.T) {
	_, err := Decrypt([]byte("too short"), "secret")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestEncryptProducesFreshSaltAndNonce(t *testing.T) {
	first, err := Encrypt([]byte("same input"), "secret")
	require.NoError(t, err)
	second, err := Encrypt([]byte("same input"), "secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, first[:saltSize], second[:saltSize])
}
