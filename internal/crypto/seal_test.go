package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func newTestSealer(t *testing.T, secret string) *Sealer {
	t.Helper()
	s, err := NewSealer(secret)
	if err != nil {
		t.Fatalf("NewSealer() unexpected error: %v", err)
	}
	return s
}

func TestNewSealerEmptySecret(t *testing.T) {
	if _, err := NewSealer(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("NewSealer(\"\") error = %v, want %v", err, ErrEmptySecret)
	}
}

func TestNewSealerDeterministicKey(t *testing.T) {
	a := newTestSealer(t, "same-secret")
	b := newTestSealer(t, "same-secret")
	c := newTestSealer(t, "other-secret")

	sealed, err := a.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}
	if _, err := b.Open(sealed, nil); err != nil {
		t.Errorf("sealer from the same secret could not open: %v", err)
	}
	if _, err := c.Open(sealed, nil); err == nil {
		t.Error("sealer from a different secret opened the payload")
	}
}

func TestSealOpen(t *testing.T) {
	s := newTestSealer(t, "test-secret")
	plaintext := []byte(`{"history":["a","b"]}`)

	sealed, err := s.Seal(plaintext, []byte("session-1"))
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatal("Seal() output contains plaintext")
	}

	opened, err := s.Open(sealed, []byte("session-1"))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Open() = %q, want %q", opened, plaintext)
	}
}

func TestSealProducesDifferentCiphertexts(t *testing.T) {
	s := newTestSealer(t, "test-secret")

	first, err := s.Seal([]byte("same"), nil)
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}
	second, err := s.Seal([]byte("same"), nil)
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("Seal() produced identical output for same plaintext (nonce should differ)")
	}
}

func TestOpenRejects(t *testing.T) {
	s := newTestSealer(t, "test-secret")
	sealed, err := s.Seal([]byte("payload"), []byte("session-1"))
	if err != nil {
		t.Fatalf("Seal() unexpected error: %v", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name       string
		sealed     []byte
		associated []byte
		sealer     *Sealer
		wantErr    error
	}{
		{"too short", []byte("short"), nil, s, ErrSealedTooShort},
		{"tampered", tampered, []byte("session-1"), s, ErrSealedTampered},
		{"wrong associated data", sealed, []byte("session-2"), s, ErrSealedTampered},
		{"wrong key", sealed, []byte("session-1"), newTestSealer(t, "other-secret"), ErrSealedTampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sealer.Open(tt.sealed, tt.associated)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
