package repository

import (
	"bytes"
	"errors"
	"testing"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/session"
)

func newTestRepository(t *testing.T) *SessionRepository {
	t.Helper()
	sealer, err := crypto.NewSealer("test-secret")
	if err != nil {
		t.Fatalf("NewSealer() unexpected error: %v", err)
	}
	return NewSessionRepository(nil, sealer)
}

func TestNewSessionRepository(t *testing.T) {
	repo := NewSessionRepository(nil, nil)
	if repo == nil {
		t.Fatal("expected non-nil SessionRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestEncodeDecode(t *testing.T) {
	repo := newTestRepository(t)

	s := session.New()
	s.AcceptGenerated("Xy7#pQ2!mN4$", 0)
	s.AcceptGenerated("second-one-123", 0)

	data, err := repo.encode(s)
	if err != nil {
		t.Fatalf("encode() unexpected error: %v", err)
	}
	if bytes.Contains(data, []byte("Xy7#pQ2!mN4$")) {
		t.Fatal("encoded state contains a plaintext password")
	}

	got, err := repo.decode(s.ID, data)
	if err != nil {
		t.Fatalf("decode() unexpected error: %v", err)
	}
	if got.ID != s.ID || got.Password != s.Password || got.Policy != s.Policy {
		t.Errorf("decode() = %+v, want %+v", got, s)
	}
	if string(got.History.Export()) != "Xy7#pQ2!mN4$\nsecond-one-123" {
		t.Errorf("decode() history = %v", got.History)
	}
}

func TestDecodeRejectsForeignRow(t *testing.T) {
	repo := newTestRepository(t)

	s := session.New()
	data, err := repo.encode(s)
	if err != nil {
		t.Fatalf("encode() unexpected error: %v", err)
	}

	_, err = repo.decode("another-session-id", data)
	if !errors.Is(err, crypto.ErrSealedTampered) {
		t.Fatalf("expected ErrSealedTampered, got %v", err)
	}
}

func TestDecodeEmptyHistoryIsNonNil(t *testing.T) {
	repo := newTestRepository(t)

	s := session.New()
	s.History = nil
	data, err := repo.encode(s)
	if err != nil {
		t.Fatalf("encode() unexpected error: %v", err)
	}

	got, err := repo.decode(s.ID, data)
	if err != nil {
		t.Fatalf("decode() unexpected error: %v", err)
	}
	if got.History == nil {
		t.Fatal("expected non-nil history")
	}
}

// SessionRepository must satisfy the store contract the service depends on.
var _ session.Store = (*SessionRepository)(nil)
