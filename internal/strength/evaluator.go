// Package strength rates passwords through a pluggable scorer and maps the
// score to a display label.
package strength

import (
	"errors"
	"fmt"
)

const (
	MinScore = 0
	MaxScore = 4
)

var (
	ErrEmptyPassword     = errors.New("password is required")
	ErrScorerUnavailable = errors.New("strength scorer unavailable")
)

var labels = [...]string{
	"Very Weak",
	"Weak",
	"Moderate",
	"Strong",
	"Very Strong",
}

// Assessment is the raw output of a Scorer.
type Assessment struct {
	Score       int
	Warning     string
	Suggestions []string
}

// Scorer rates a password from 0 (trivially guessable) to 4.
type Scorer interface {
	Assess(password string) Assessment
}

// Result is what callers display.
type Result struct {
	Score       int      `json:"score"`
	Label       string   `json:"label"`
	Warning     string   `json:"warning,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// Label returns the display label for score. Scores outside [0,4] have no label.
func Label(score int) (string, bool) {
	if score < MinScore || score > MaxScore {
		return "", false
	}
	return labels[score], true
}

// Evaluator wraps a Scorer and never lets its failures escape as panics.
type Evaluator struct {
	scorer Scorer
}

// NewEvaluator creates an Evaluator. A nil scorer yields ErrScorerUnavailable
// on every call.
func NewEvaluator(scorer Scorer) *Evaluator {
	return &Evaluator{scorer: scorer}
}

// Evaluate scores password. It has no side effects.
func (e *Evaluator) Evaluate(password string) (res Result, err error) {
	if password == "" {
		return Result{}, ErrEmptyPassword
	}
	if e == nil || e.scorer == nil {
		return Result{}, ErrScorerUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("%w: %v", ErrScorerUnavailable, r)
		}
	}()

	a := e.scorer.Assess(password)
	label, ok := Label(a.Score)
	if !ok {
		return Result{}, fmt.Errorf("%w: score %d out of range", ErrScorerUnavailable, a.Score)
	}

	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return Result{
		Score:       a.Score,
		Label:       label,
		Warning:     a.Warning,
		Suggestions: suggestions,
	}, nil
}
