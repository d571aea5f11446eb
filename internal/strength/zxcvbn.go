package strength

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
)

// Match is the part of a zxcvbn match the feedback rules look at.
type Match struct {
	Pattern        string
	Token          string
	DictionaryName string
}

// ZxcvbnScorer scores with zxcvbn and builds feedback from the longest match.
type ZxcvbnScorer struct {
	userInputs []string
}

// NewZxcvbnScorer creates a scorer. userInputs are site-specific words that
// should count as guessable (product name and the like).
func NewZxcvbnScorer(userInputs ...string) *ZxcvbnScorer {
	return &ZxcvbnScorer{userInputs: userInputs}
}

// Assess implements Scorer.
func (z *ZxcvbnScorer) Assess(password string) Assessment {
	result := zxcvbn.PasswordStrength(password, z.userInputs)

	matches := make([]Match, 0, len(result.MatchSequence))
	for _, m := range result.MatchSequence {
		matches = append(matches, Match{
			Pattern:        m.Pattern,
			Token:          m.Token,
			DictionaryName: m.DictionaryName,
		})
	}

	warning, suggestions := Feedback(result.Score, matches)
	return Assessment{
		Score:       result.Score,
		Warning:     warning,
		Suggestions: suggestions,
	}
}

const (
	suggestUseWords     = "Use a few words, avoid common phrases"
	suggestNoSymbols    = "No need for symbols, digits, or uppercase letters"
	suggestAnotherWord  = "Add another word or two. Uncommon words are better."
	suggestCapitals     = "Capitalization doesn't help very much"
	suggestAllUpper     = "All-uppercase is almost as easy to guess as all-lowercase"
	suggestKeyboard     = "Use a longer keyboard pattern with more turns"
	suggestRepeats      = "Avoid repeated words and characters"
	suggestSequences    = "Avoid sequences"
	suggestPersonalDate = "Avoid dates and years that are associated with you"
)

// Feedback derives a warning and suggestions the way zxcvbn's feedback module
// does: strong passwords get none, otherwise the longest match drives the advice.
func Feedback(score int, matches []Match) (string, []string) {
	if len(matches) == 0 {
		return "", []string{suggestUseWords, suggestNoSymbols}
	}
	if score > 2 {
		return "", []string{}
	}

	longest := matches[0]
	for _, m := range matches[1:] {
		if utf8.RuneCountInString(m.Token) > utf8.RuneCountInString(longest.Token) {
			longest = m
		}
	}

	warning, suggestions := matchFeedback(longest, len(matches) == 1)
	return warning, append([]string{suggestAnotherWord}, suggestions...)
}

func matchFeedback(m Match, sole bool) (string, []string) {
	switch strings.ToLower(m.Pattern) {
	case "dictionary":
		return dictionaryFeedback(m, sole)

	case "spatial":
		warning := "Short keyboard patterns are easy to guess"
		if isStraightRow(m.Token) {
			warning = "Straight rows of keys are easy to guess"
		}
		return warning, []string{suggestKeyboard}

	case "repeat":
		warning := `Repeats like "abcabcabc" are only slightly harder to guess than "abc"`
		if isSingleRuneRepeat(m.Token) {
			warning = `Repeats like "aaa" are easy to guess`
		}
		return warning, []string{suggestRepeats}

	case "sequence":
		return "Sequences like abc or 6543 are easy to guess", []string{suggestSequences}

	case "date":
		return "Dates are often easy to guess", []string{suggestPersonalDate}
	}

	return "", nil
}

func dictionaryFeedback(m Match, sole bool) (string, []string) {
	var warning string
	dict := strings.ToLower(m.DictionaryName)
	switch {
	case strings.Contains(dict, "password"):
		if sole {
			warning = "This is a very common password"
		} else {
			warning = "This is similar to a commonly used password"
		}
	case strings.Contains(dict, "english"):
		if sole {
			warning = "A word by itself is easy to guess"
		}
	case strings.Contains(dict, "name"):
		if sole {
			warning = "Names and surnames by themselves are easy to guess"
		} else {
			warning = "Common names and surnames are easy to guess"
		}
	}

	var suggestions []string
	switch {
	case isAllUpper(m.Token):
		suggestions = append(suggestions, suggestAllUpper)
	case startsUpper(m.Token):
		suggestions = append(suggestions, suggestCapitals)
	}

	return warning, suggestions
}

var keyboardRows = []string{
	"`1234567890-=",
	"qwertyuiop[]\\",
	"asdfghjkl;'",
	"zxcvbnm,./",
}

func isStraightRow(token string) bool {
	lower := strings.ToLower(token)
	for _, row := range keyboardRows {
		if strings.Contains(row, lower) {
			return true
		}
	}
	return false
}

func isSingleRuneRepeat(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return false
	}
	return strings.Repeat(string(r), utf8.RuneCountInString(s)) == s
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter && utf8.RuneCountInString(s) > 1
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
