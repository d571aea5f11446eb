package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/session"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "passgen_session"

type contextKey string

const sessionIDKey contextKey = "sessionID"

// SessionProvider creates sessions, checks that they are still live and keeps
// them from expiring while the browser is active.
type SessionProvider interface {
	StartSession(ctx context.Context) (*session.Session, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Session resolves the browser's session from its cookie, starting a new one
// when the token is missing, invalid, expired or points at an ended session.
// The cookie is re-issued on every request so its expiry slides with activity.
func Session(provider SessionProvider, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionFromCookie(r, provider, opts.Secret)

			if id == "" {
				sess, err := provider.StartSession(r.Context())
				if err != nil {
					slog.Error("start session", "error", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				id = sess.ID
			}

			token, err := crypto.GenerateSessionToken(id, opts.Secret, opts.TTL)
			if err != nil {
				slog.Error("sign session token", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request, provider SessionProvider, secret string) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	claims, err := crypto.ValidateSessionToken(cookie.Value, secret)
	if err != nil {
		return ""
	}

	ok, err := provider.Exists(r.Context(), claims.SessionID())
	if err != nil {
		slog.Warn("session lookup failed", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return claims.SessionID()
}

// ExpireSessionCookie tells the browser to drop its session cookie.
func ExpireSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromContext extracts the session ID resolved by Session.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithSessionID returns ctx carrying id, for handlers driven without the middleware.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
