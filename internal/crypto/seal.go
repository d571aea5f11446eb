package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrEmptySecret    = errors.New("sealing secret must not be empty")
	ErrSealedTooShort = errors.New("sealed data is too short")
	ErrSealedTampered = errors.New("sealed data failed authentication")
)

// KeyParams configures the Argon2id derivation of the sealing key.
type KeyParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultKeyParams returns recommended Argon2id parameters for key derivation.
func DefaultKeyParams() KeyParams {
	return KeyParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		KeyLength:   chacha20poly1305.KeySize,
	}
}

// keySalt domain-separates the sealing key from any other use of the secret.
var keySalt = []byte("passgen/session-store/v1")

// Sealer encrypts session state at rest with XChaCha20-Poly1305.
type Sealer struct {
	key []byte
}

// NewSealer derives a sealing key from secret. Derivation is deliberately slow,
// so build one Sealer per process.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	params := DefaultKeyParams()
	key := argon2.IDKey([]byte(secret), keySalt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return &Sealer{key: key}, nil
}

// Seal returns nonce || ciphertext for plaintext. The optional associated data
// binds the ciphertext to its row (the session ID).
func (s *Sealer) Seal(plaintext, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("seal: generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, associated), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrSealedTooShort
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, associated)
	if err != nil {
		return nil, ErrSealedTampered
	}
	return plaintext, nil
}
