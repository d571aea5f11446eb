package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
	"github.com/passgen/passgen-go/internal/strength"
)

// HistoryFilename is the name offered to the browser for history downloads.
const HistoryFilename = "password_history.txt"

// PasswordHandler handles HTTP requests for the password tool.
type PasswordHandler struct {
	service       *service.PasswordService
	secureCookies bool
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(svc *service.PasswordService, secureCookies bool) *PasswordHandler {
	return &PasswordHandler{service: svc, secureCookies: secureCookies}
}

// HandleState handles GET /api/v1/session requests.
func (h *PasswordHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.service.State(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleSetPolicy handles PUT /api/v1/session/policy requests.
func (h *PasswordHandler) HandleSetPolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req model.PolicyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	state, err := h.service.SetPolicy(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleInput handles PUT /api/v1/session/input requests.
func (h *PasswordHandler) HandleInput(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req model.InputRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	state, err := h.service.Input(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleGenerate handles POST /api/v1/session/generate requests. The body is optional.
func (h *PasswordHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req model.GenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	state, err := h.service.Generate(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleReset handles POST /api/v1/session/reset requests.
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.service.Reset(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleClearHistory handles DELETE /api/v1/session/history requests.
func (h *PasswordHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.service.ClearHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleExportHistory handles GET /api/v1/session/history/export requests.
func (h *PasswordHandler) HandleExportHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+HistoryFilename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleEndSession handles DELETE /api/v1/session requests.
func (h *PasswordHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), id); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		h.writeError(w, r, err)
		return
	}

	middleware.ExpireSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// HandleStrength handles POST /api/v1/strength requests.
func (h *PasswordHandler) HandleStrength(w http.ResponseWriter, r *http.Request) {
	var req model.StrengthRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Evaluate(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleTips handles GET /api/v1/tips requests.
func (h *PasswordHandler) HandleTips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.Tips())
}

func (h *PasswordHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case r.Context().Err() != nil:
		// client went away; nobody is listening for a response
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, strength.ErrScorerUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("strength check is unavailable right now"))
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, crypto.ErrLengthTooShort) ||
		errors.Is(err, crypto.ErrLengthTooLong) ||
		errors.Is(err, service.ErrInputTooLong) ||
		errors.Is(err, service.ErrPasswordRequired)
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("no session"))
		return "", false
	}
	return id, true
}

// decodeJSON reads a JSON body of at most 1MB into dst. With allowEmpty an
// absent body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if r.Body == nil {
		if allowEmpty {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return true
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		}
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
