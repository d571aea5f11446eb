package model

import "github.com/passgen/passgen-go/internal/strength"

// PolicyRequest sets the generation policy.
// Pointers distinguish a missing field (nil -> keep current) from an explicit zero value.
type PolicyRequest struct {
	Length         *int  `json:"length"`
	IncludeDigits  *bool `json:"include_digits"`
	IncludeSpecial *bool `json:"include_special"`
}

// GenerateRequest optionally carries a policy to apply before generating.
type GenerateRequest struct {
	Policy *PolicyRequest `json:"policy,omitempty"`
}

// GenerateResponse describes the password that was just generated.
type GenerateResponse struct {
	Length      int     `json:"length"`
	PoolSize    int     `json:"pool_size"`
	EntropyBits float64 `json:"entropy_bits"`
	Celebrate   bool    `json:"celebrate"`
}

// InputRequest carries manually typed text.
type InputRequest struct {
	Password string `json:"password"`
}

// StrengthRequest asks for a stateless evaluation.
type StrengthRequest struct {
	Password string `json:"password"`
}

// StrengthResponse is the evaluation of one password.
type StrengthResponse struct {
	strength.Result
}
