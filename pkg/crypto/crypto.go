package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/xdg-go/pbkdf2"
)

const (
	saltSize   = 16
	nonceSize  = 12
	tagSize    = 16
	keySize    = 32
	iterations = 10000
)

var ErrCiphertextTooShort = errors.New("encrypted buffer too short")
var ErrAuthenticationFailed = errors.New("authentication failed: wrong secret or corrupted data")

// deriveKey derives an AES-256 key from the secret and salt using
// PBKDF2 with SHA-256.
func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, iterations, keySize, sha256.New)
}

// Encrypt seals plaintext with AES-256-GCM under a key derived from secret
// and a fresh random salt. The output is self-describing:
//
//	salt (16) | nonce (12) | auth tag (16) | ciphertext
//
// so it can be decrypted independently given only the secret.
func Encrypt(plaintext []byte, secret string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Seal appends the tag to the ciphertext; reorder so the tag sits in
	// the header and the layout stays fixed-offset.
	sealed := aesgcm.Seal(nil, nonce, plaintext, nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	out := make([]byte, 0, saltSize+nonceSize+tagSize+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt inverts Encrypt. A tag mismatch (wrong secret, corruption,
// tampering) is a hard failure; no partial plaintext is ever returned.
func Decrypt(encrypted []byte, secret string) ([]byte, error) {
	if len(encrypted) < saltSize+nonceSize+tagSize {
		return nil, ErrCiphertextTooShort
	}

	salt := encrypted[:saltSize]
	nonce := encrypted[saltSize : saltSize+nonceSize]
	tag := encrypted[saltSize+nonceSize : saltSize+nonceSize+tagSize]
	ciphertext := encrypted[saltSize+nonceSize+tagSize:]

	block, err := aes.NewCipher(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}
