// Package handler exposes login, token refresh, logout, and the session
// stash over HTTP. Sessions are the gateway-issued bearer credential; the
// upstream token pair never leaves the server.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/platform/middleware"
	"legalbooks/internal/session"
	"legalbooks/internal/transport/http/shared"
	"legalbooks/internal/upstream"
	dErrors "legalbooks/pkg/domain-errors"
)

// maxStashBytes caps one stash value.
const maxStashBytes = 64 << 10

// Backend defines the upstream calls the handler depends on.
type Backend interface {
	CreateToken(ctx context.Context, email, password string) (*upstream.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*upstream.TokenPair, error)
	GoogleAuth(ctx context.Context, code, requestType string) (*upstream.GoogleProfile, error)
	Notifications(ctx context.Context, ts upstream.TokenSource) ([]upstream.Notification, error)
}

// Sessions defines the session manager operations the handler depends on.
type Sessions interface {
	Start(ctx context.Context, access, refresh string, userDetails json.RawMessage, userAgent string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Resolve(ctx context.Context, id string) error
	UpdateTokens(ctx context.Context, id, access, refresh string) error
	Clear(ctx context.Context, id string) error
	PutStash(ctx context.Context, id, key string, value json.RawMessage) error
	TakeStash(ctx context.Context, id, key string) (json.RawMessage, error)
	TokenSource(sessionID string) *session.TokenSource
}

// Handler handles session endpoints.
type Handler struct {
	logger   *slog.Logger
	backend  Backend
	sessions Sessions
	metrics  *metrics.Metrics
}

// New creates a session Handler.
func New(backend Backend, sessions Sessions, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		backend:  backend,
		sessions: sessions,
		metrics:  m,
	}
}

// LoginResponse is returned on successful login. The session ID is the
// bearer credential for all authenticated routes.
type LoginResponse struct {
	SessionID   string          `json:"session_id"`
	UserDetails json.RawMessage `json:"user_details,omitempty"`
	Device      session.Device  `json:"device"`
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Timeout(30 * time.Second))
	authRouter.Use(middleware.ContentTypeJSON)
	authRouter.Use(middleware.Latency(h.metrics, "auth"))
	authRouter.Post("/login", h.handleLogin)
	authRouter.Post("/google", h.handleGoogleAuth)

	sessionRouter := chi.NewRouter()
	sessionRouter.Use(middleware.Timeout(30 * time.Second))
	sessionRouter.Use(middleware.ContentTypeJSON)
	sessionRouter.Use(middleware.Latency(h.metrics, "session"))
	sessionRouter.Use(middleware.RequireSession(h.sessions, h.logger))
	sessionRouter.Post("/refresh", h.handleRefresh)
	sessionRouter.Post("/logout", h.handleLogout)
	sessionRouter.Get("/notifications", h.handleNotifications)
	sessionRouter.Put("/stash/{key}", h.handlePutStash)
	sessionRouter.Delete("/stash/{key}", h.handleTakeStash)

	r.Mount("/auth", authRouter)
	r.Mount("/session", sessionRouter)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "email and password are required"))
		return
	}

	pair, err := h.backend.CreateToken(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	s, err := h.sessions.Start(ctx, pair.Access, pair.Refresh, pair.UserDetails, r.UserAgent())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start session",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, LoginResponse{
		SessionID:   s.ID,
		UserDetails: s.UserDetails,
		Device:      s.Device,
	})
}

// handleGoogleAuth exchanges a Google authorization code for the profile of
// the Google account. The profile seeds a registration draft or a login
// attempt; no session is created here.
func (h *Handler) handleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Code        string `json:"code"`
		RequestType string `json:"request_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Code == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "authorization code is required"))
		return
	}

	profile, err := h.backend.GoogleAuth(ctx, req.Code, req.RequestType)
	if err != nil {
		h.logger.WarnContext(ctx, "google auth failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

// handleRefresh forces a token refresh for the current session. Routine
// refreshes happen transparently inside the upstream client; this endpoint
// exists for clients that want to refresh eagerly.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.GetSessionID(ctx)

	s, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	pair, err := h.backend.RefreshToken(ctx, s.Refresh)
	if err != nil {
		// A rejected refresh token ends the session.
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			_ = h.sessions.Clear(ctx, sessionID)
		}
		h.logger.WarnContext(ctx, "token refresh failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if err := h.sessions.UpdateTokens(ctx, sessionID, pair.Access, pair.Refresh); err != nil {
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sessions.Clear(ctx, middleware.GetSessionID(ctx)); err != nil {
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ts := h.sessions.TokenSource(middleware.GetSessionID(ctx))
	notifications, err := h.backend.Notifications(ctx, ts)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load notifications",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, struct {
		Notifications []upstream.Notification `json:"notifications"`
	}{Notifications: notifications})
}

func (h *Handler) handlePutStash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	value, err := io.ReadAll(io.LimitReader(r.Body, maxStashBytes+1))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}
	if len(value) > maxStashBytes {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "stash value exceeds the size limit"))
		return
	}
	if !json.Valid(value) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "stash value must be JSON"))
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.sessions.PutStash(ctx, middleware.GetSessionID(ctx), key, value); err != nil {
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTakeStash returns the stored value and removes it, matching the
// read-once handoff the stash exists for.
func (h *Handler) handleTakeStash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	value, err := h.sessions.TakeStash(ctx, middleware.GetSessionID(ctx), key)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}{Key: key, Value: value})
}
