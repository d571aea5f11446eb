package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/session"
)

type fakeProvider struct {
	live    map[string]bool
	started int
}

func (f *fakeProvider) StartSession(context.Context) (*session.Session, error) {
	s := session.New()
	f.live[s.ID] = true
	f.started++
	return s, nil
}

func (f *fakeProvider) Exists(_ context.Context, id string) (bool, error) {
	return f.live[id], nil
}

var testOpts = SessionOptions{Secret: "test-secret", TTL: time.Hour}

func serveWithSession(t *testing.T, p *fakeProvider, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	h := Session(p, testOpts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := SessionIDFromContext(r.Context())
		if !ok {
			t.Fatal("expected session ID in context")
		}
		seen = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie")
	return nil
}

func TestSession_StartsNewSessionWithoutCookie(t *testing.T) {
	p := &fakeProvider{live: map[string]bool{}}

	id, rec := serveWithSession(t, p, nil)

	if p.started != 1 {
		t.Fatalf("expected one session started, got %d", p.started)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	claims, err := crypto.ValidateSessionToken(c.Value, testOpts.Secret)
	if err != nil {
		t.Fatalf("cookie token invalid: %v", err)
	}
	if claims.SessionID() != id {
		t.Errorf("cookie session %q, context session %q", claims.SessionID(), id)
	}
}

func TestSession_ReusesLiveSession(t *testing.T) {
	p := &fakeProvider{live: map[string]bool{}}

	first, rec := serveWithSession(t, p, nil)
	second, _ := serveWithSession(t, p, sessionCookie(t, rec))

	if first != second {
		t.Fatalf("expected session %q to be reused, got %q", first, second)
	}
	if p.started != 1 {
		t.Fatalf("expected one session started, got %d", p.started)
	}
}

func TestSession_ReplacesEndedSession(t *testing.T) {
	p := &fakeProvider{live: map[string]bool{}}

	first, rec := serveWithSession(t, p, nil)
	delete(p.live, first)

	second, _ := serveWithSession(t, p, sessionCookie(t, rec))
	if second == first {
		t.Fatal("expected a new session after the old one ended")
	}
}

func TestSession_RejectsForgedToken(t *testing.T) {
	p := &fakeProvider{live: map[string]bool{"victim": true}}

	forged, err := crypto.GenerateSessionToken("victim", "attacker-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, _ := serveWithSession(t, p, &http.Cookie{Name: CookieName, Value: forged})
	if id == "victim" {
		t.Fatal("forged token was accepted")
	}
}

func TestExpireSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ExpireSessionCookie(rec, true)

	c := sessionCookie(t, rec)
	if c.MaxAge >= 0 {
		t.Errorf("expected negative MaxAge, got %d", c.MaxAge)
	}
	if !c.Secure {
		t.Error("expected Secure cookie")
	}
}
