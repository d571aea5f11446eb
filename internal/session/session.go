// Package session holds the per-browser state of the password tool: the active
// policy, the current password and the history of generated passwords.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/passgen/passgen-go/internal/crypto"
)

// Session is one isolated user context. It is never shared between browsers.
type Session struct {
	ID        string        `json:"id"`
	Policy    crypto.Policy `json:"policy"`
	Password  string        `json:"password"`
	Generated bool          `json:"generated"`
	History   History       `json:"history"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New creates an empty session with the default policy.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		Policy:    crypto.DefaultPolicy(),
		History:   History{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPolicy replaces the policy after validating it.
func (s *Session) SetPolicy(p crypto.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.Policy = p
	return nil
}

// Type records manually entered text as the current password. Typed passwords
// are evaluated but never enter the history.
func (s *Session) Type(input string) {
	s.Password = input
	s.Generated = false
}

// AcceptGenerated makes password current, replacing any manual input, and
// appends it to the history.
func (s *Session) AcceptGenerated(password string, historyLimit int) {
	s.Password = password
	s.Generated = true
	s.History = s.History.Append(password, historyLimit)
}

// Reset clears the current password. The history is kept.
func (s *Session) Reset() {
	s.Password = ""
	s.Generated = false
}

// ClearHistory discards every history entry.
func (s *Session) ClearHistory() {
	s.History = s.History.Clear()
}

// Clone returns a deep copy so callers can read a snapshot without holding the store lock.
func (s *Session) Clone() *Session {
	c := *s
	c.History = append(History{}, s.History...)
	return &c
}
