package model

import (
	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/strength"
)

// SessionState is the snapshot the browser re-renders from after every action.
type SessionState struct {
	Policy    crypto.Policy     `json:"policy"`
	Password  string            `json:"password"`
	Generated bool              `json:"generated"`
	Strength  *strength.Result  `json:"strength,omitempty"`
	Notice    string            `json:"notice,omitempty"`
	History   []string          `json:"history"`
	Generate  *GenerateResponse `json:"generate,omitempty"`
}

// Tip is one line of security advice shown next to the generator.
type Tip struct {
	Text string `json:"text"`
}
