package crypto

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr error
	}{
		{
			name:   "default policy",
			policy: DefaultPolicy(),
		},
		{
			name:   "letters only",
			policy: Policy{Length: 16},
		},
		{
			name:   "digits only",
			policy: Policy{Length: 16, IncludeDigits: true},
		},
		{
			name:   "special only",
			policy: Policy{Length: 16, IncludeSpecial: true},
		},
		{
			name:   "minimum length",
			policy: Policy{Length: MinLength, IncludeDigits: true, IncludeSpecial: true},
		},
		{
			name:   "maximum length",
			policy: Policy{Length: MaxLength, IncludeDigits: true, IncludeSpecial: true},
		},
		{
			name:    "length too short",
			policy:  Policy{Length: MinLength - 1, IncludeDigits: true},
			wantErr: ErrLengthTooShort,
		},
		{
			name:    "length too long",
			policy:  Policy{Length: MaxLength + 1, IncludeDigits: true},
			wantErr: ErrLengthTooLong,
		},
		{
			name:    "zero length",
			policy:  Policy{},
			wantErr: ErrLengthTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.policy)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				if result != "" {
					t.Error("Generate() should return empty string on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(result) != tt.policy.Length {
				t.Errorf("Generate() length = %d, want %d", len(result), tt.policy.Length)
			}
		})
	}
}

func TestGenerateEveryValidLength(t *testing.T) {
	for length := MinLength; length <= MaxLength; length++ {
		password, err := Generate(Policy{Length: length, IncludeDigits: true, IncludeSpecial: true})
		if err != nil {
			t.Fatalf("Generate(%d) unexpected error: %v", length, err)
		}
		if len(password) != length {
			t.Errorf("Generate(%d) length = %d", length, len(password))
		}
	}
}

func TestGenerateLettersOnly(t *testing.T) {
	for i := 0; i < 200; i++ {
		password, err := Generate(Policy{Length: MaxLength})
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		for _, ch := range password {
			if !strings.ContainsRune(letterChars, ch) {
				t.Fatalf("password %q contains non-letter %q", password, string(ch))
			}
		}
	}
}

func TestGenerateStaysWithinCharset(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"digits", Policy{Length: 32, IncludeDigits: true}},
		{"special", Policy{Length: 32, IncludeSpecial: true}},
		{"all", Policy{Length: 32, IncludeDigits: true, IncludeSpecial: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charset := tt.policy.Charset()
			for i := 0; i < 100; i++ {
				password, err := Generate(tt.policy)
				if err != nil {
					t.Fatalf("Generate() unexpected error: %v", err)
				}
				for _, ch := range password {
					if !strings.ContainsRune(charset, ch) {
						t.Fatalf("password contains unexpected character %q (not in %q)", string(ch), charset)
					}
				}
			}
		})
	}
}

// With 320,000 draws the standard deviation of each class share is below
// 0.1 percentage points, so a 1.5 point tolerance never trips on a fair source.
func TestGenerateClassDistribution(t *testing.T) {
	policy := Policy{Length: MaxLength, IncludeDigits: true, IncludeSpecial: true}
	const samples = 10000

	counts := map[string]int{}
	total := 0
	for i := 0; i < samples; i++ {
		password, err := Generate(policy)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		for _, ch := range password {
			switch {
			case strings.ContainsRune(uppercaseChars, ch):
				counts["upper"]++
			case strings.ContainsRune(lowercaseChars, ch):
				counts["lower"]++
			case strings.ContainsRune(digitChars, ch):
				counts["digit"]++
			case strings.ContainsRune(specialChars, ch):
				counts["special"]++
			default:
				t.Fatalf("unexpected character %q", string(ch))
			}
			total++
		}
	}

	size := float64(len(policy.Charset()))
	want := map[string]float64{
		"upper":   float64(len(uppercaseChars)) / size,
		"lower":   float64(len(lowercaseChars)) / size,
		"digit":   float64(len(digitChars)) / size,
		"special": float64(len(specialChars)) / size,
	}

	for class, share := range want {
		got := float64(counts[class]) / float64(total)
		if math.Abs(got-share) > 0.015 {
			t.Errorf("class %s frequency = %.4f, want %.4f", class, got, share)
		}
	}
}

func TestPolicyCharset(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		size   int
	}{
		{"letters", Policy{}, 52},
		{"digits", Policy{IncludeDigits: true}, 62},
		{"special", Policy{IncludeSpecial: true}, 84},
		{"all", Policy{IncludeDigits: true, IncludeSpecial: true}, 94},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.policy.Charset()); got != tt.size {
				t.Errorf("Charset() size = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestPolicyEntropyBits(t *testing.T) {
	p := Policy{Length: 10}
	want := 10 * math.Log2(52)
	if got := p.EntropyBits(); math.Abs(got-want) > 1e-9 {
		t.Errorf("EntropyBits() = %f, want %f", got, want)
	}
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password, err := Generate(DefaultPolicy())
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}
