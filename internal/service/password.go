package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/session"
	"github.com/passgen/passgen-go/internal/strength"
)

// MaxInputLength caps manually typed passwords; zxcvbn cost grows with length.
const MaxInputLength = 128

// CelebrateLength is the generated length from which the UI celebrates.
const CelebrateLength = 16

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInputTooLong     = errors.New("password must be at most 128 characters")
	ErrPasswordRequired = errors.New("password is required")
)

const noticeScorerUnavailable = "Strength check is unavailable right now."

// Options tunes the password service.
type Options struct {
	// GenerateDelay is a pause before a generated password is returned. Zero disables it.
	GenerateDelay time.Duration
	HistoryLimit  int
}

// PasswordService handles generation, evaluation and history for sessions.
type PasswordService struct {
	store     session.Store
	evaluator *strength.Evaluator
	opts      Options
}

// NewPasswordService creates a new PasswordService.
func NewPasswordService(store session.Store, evaluator *strength.Evaluator, opts Options) *PasswordService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = session.DefaultHistoryLimit
	}
	return &PasswordService{
		store:     store,
		evaluator: evaluator,
		opts:      opts,
	}
}

// StartSession creates and stores a fresh session.
func (s *PasswordService) StartSession(ctx context.Context) (*session.Session, error) {
	sess := session.New()
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	slog.Info("session started", "session_id", sess.ID)
	return sess, nil
}

// Exists reports whether the session is still live and marks it active, so
// sessions that only read are not evicted while their cookie is valid.
func (s *PasswordService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Update(ctx, id, func(*session.Session) error { return nil })
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// State returns the current snapshot of a session.
func (s *PasswordService) State(ctx context.Context, id string) (model.SessionState, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	return s.snapshot(sess), nil
}

// SetPolicy updates the generation policy. Missing fields keep their current value.
func (s *PasswordService) SetPolicy(ctx context.Context, id string, req model.PolicyRequest) (model.SessionState, error) {
	sess, err := s.store.Update(ctx, id, func(sess *session.Session) error {
		return sess.SetPolicy(mergePolicy(sess.Policy, req))
	})
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	return s.snapshot(sess), nil
}

// Input records manually typed text as the current password.
func (s *PasswordService) Input(ctx context.Context, id string, req model.InputRequest) (model.SessionState, error) {
	if len([]rune(req.Password)) > MaxInputLength {
		return model.SessionState{}, ErrInputTooLong
	}

	sess, err := s.store.Update(ctx, id, func(sess *session.Session) error {
		sess.Type(req.Password)
		return nil
	})
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	return s.snapshot(sess), nil
}

// Generate draws a new password under the session policy, optionally replacing
// the policy first, and appends it to the history. The policy is resolved
// again after the delay so changes made while waiting are not lost.
func (s *PasswordService) Generate(ctx context.Context, id string, req model.GenerateRequest) (model.SessionState, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	if err := requestedPolicy(current.Policy, req).Validate(); err != nil {
		return model.SessionState{}, err
	}

	if err := s.pause(ctx); err != nil {
		return model.SessionState{}, err
	}

	var (
		policy   crypto.Policy
		password string
	)
	sess, err := s.store.Update(ctx, id, func(sess *session.Session) error {
		policy = requestedPolicy(sess.Policy, req)
		if err := sess.SetPolicy(policy); err != nil {
			return err
		}

		pw, err := crypto.Generate(policy)
		if err != nil {
			return err
		}
		password = pw
		sess.AcceptGenerated(password, s.opts.HistoryLimit)
		return nil
	})
	if err != nil {
		return model.SessionState{}, translate(err)
	}

	state := s.snapshot(sess)
	state.Generate = &model.GenerateResponse{
		Length:      len(password),
		PoolSize:    len(policy.Charset()),
		EntropyBits: policy.EntropyBits(),
		Celebrate:   len(password) >= CelebrateLength,
	}
	return state, nil
}

// Reset clears the current password and keeps the history.
func (s *PasswordService) Reset(ctx context.Context, id string) (model.SessionState, error) {
	sess, err := s.store.Update(ctx, id, func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	return s.snapshot(sess), nil
}

// ClearHistory discards the session history.
func (s *PasswordService) ClearHistory(ctx context.Context, id string) (model.SessionState, error) {
	sess, err := s.store.Update(ctx, id, func(sess *session.Session) error {
		sess.ClearHistory()
		return nil
	})
	if err != nil {
		return model.SessionState{}, translate(err)
	}
	return s.snapshot(sess), nil
}

// ExportHistory returns the history as newline-separated UTF-8 text.
func (s *PasswordService) ExportHistory(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	slog.Info("history exported", "session_id", id, "count", sess.History.Len())
	return sess.History.Export(), nil
}

// EndSession discards all state of the session.
func (s *PasswordService) EndSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return translate(err)
	}
	slog.Info("session ended", "session_id", id)
	return nil
}

// Evaluate scores a password without touching any session.
func (s *PasswordService) Evaluate(req model.StrengthRequest) (model.StrengthResponse, error) {
	if req.Password == "" {
		return model.StrengthResponse{}, ErrPasswordRequired
	}
	if len([]rune(req.Password)) > MaxInputLength {
		return model.StrengthResponse{}, ErrInputTooLong
	}

	res, err := s.evaluator.Evaluate(req.Password)
	if err != nil {
		return model.StrengthResponse{}, err
	}
	return model.StrengthResponse{Result: res}, nil
}

func (s *PasswordService) snapshot(sess *session.Session) model.SessionState {
	state := model.SessionState{
		Policy:    sess.Policy,
		Password:  sess.Password,
		Generated: sess.Generated,
		History:   append([]string{}, sess.History...),
	}

	if sess.Password == "" {
		return state
	}

	res, err := s.evaluator.Evaluate(sess.Password)
	if err != nil {
		slog.Warn("strength evaluation failed", "session_id", sess.ID, "error", err)
		state.Notice = noticeScorerUnavailable
		return state
	}
	state.Strength = &res
	return state
}

// pause waits out the configured generate delay unless ctx ends first.
func (s *PasswordService) pause(ctx context.Context) error {
	if s.opts.GenerateDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.opts.GenerateDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// requestedPolicy is the policy a generate request runs under: current, with
// any fields the request carries applied on top.
func requestedPolicy(current crypto.Policy, req model.GenerateRequest) crypto.Policy {
	if req.Policy == nil {
		return current
	}
	return mergePolicy(current, *req.Policy)
}

// mergePolicy applies the fields present in req on top of current.
func mergePolicy(current crypto.Policy, req model.PolicyRequest) crypto.Policy {
	next := current
	if req.Length != nil {
		next.Length = *req.Length
	}
	next.IncludeDigits = boolOrDefault(req.IncludeDigits, current.IncludeDigits)
	next.IncludeSpecial = boolOrDefault(req.IncludeSpecial, current.IncludeSpecial)
	return next
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func translate(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
