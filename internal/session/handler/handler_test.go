package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/session"
	"legalbooks/internal/session/handler/mocks"
	"legalbooks/internal/upstream"
	dErrors "legalbooks/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Backend,Sessions
type SessionHandlerSuite struct {
	suite.Suite
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockBackend, *mocks.MockSessions) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	backend := mocks.NewMockBackend(ctrl)
	sessions := mocks.NewMockSessions(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(backend, sessions, logger, metrics.NewWith(prometheus.NewRegistry()))
	r := chi.NewRouter()
	handler.Register(r)
	return r, backend, sessions
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	} else {
		buf.WriteString("{}")
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionRequest(t *testing.T, method, target, sessionID string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	return req
}

func (s *SessionHandlerSuite) TestHandleLogin() {
	router, backend, sessions := newTestHandler(s.T())
	backend.EXPECT().CreateToken(gomock.Any(), "user@example.in", "Secret1!").
		Return(&upstream.TokenPair{
			Access:      "acc-1",
			Refresh:     "ref-1",
			UserDetails: json.RawMessage(`{"id":7}`),
		}, nil)
	sessions.EXPECT().Start(gomock.Any(), "acc-1", "ref-1", json.RawMessage(`{"id":7}`), gomock.Any()).
		Return(&session.Session{
			ID:          "sess-1",
			UserDetails: json.RawMessage(`{"id":7}`),
			Device:      session.Device{Browser: "Chrome"},
		}, nil)

	req := jsonRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{
		"email":    "user@example.in",
		"password": "Secret1!",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "sess-1", resp.SessionID)
	assert.Equal(s.T(), "Chrome", resp.Device.Browser)
}

func (s *SessionHandlerSuite) TestHandleLoginBadCredentials() {
	router, backend, _ := newTestHandler(s.T())
	backend.EXPECT().CreateToken(gomock.Any(), "user@example.in", "wrong").
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials"))

	req := jsonRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{
		"email":    "user@example.in",
		"password": "wrong",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Invalid credentials", resp["message"])
}

func (s *SessionHandlerSuite) TestHandleLoginMissingFields() {
	router, _, _ := newTestHandler(s.T())

	req := jsonRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{"email": "user@example.in"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *SessionHandlerSuite) TestHandleGoogleAuth() {
	router, backend, _ := newTestHandler(s.T())
	backend.EXPECT().GoogleAuth(gomock.Any(), "auth-code", "registration").
		Return(&upstream.GoogleProfile{Email: "user@gmail.com", Name: "Asha"}, nil)

	req := jsonRequest(s.T(), http.MethodPost, "/auth/google", map[string]string{
		"code":         "auth-code",
		"request_type": "registration",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "user@gmail.com", resp["email"])
}

func (s *SessionHandlerSuite) TestSessionRoutesRequireBearer() {
	router, _, _ := newTestHandler(s.T())

	req := jsonRequest(s.T(), http.MethodPost, "/session/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *SessionHandlerSuite) TestHandleRefresh() {
	router, backend, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().Get(gomock.Any(), "sess-1").
		Return(&session.Session{ID: "sess-1", Refresh: "ref-1"}, nil)
	backend.EXPECT().RefreshToken(gomock.Any(), "ref-1").
		Return(&upstream.TokenPair{Access: "acc-2", Refresh: "ref-2"}, nil)
	sessions.EXPECT().UpdateTokens(gomock.Any(), "sess-1", "acc-2", "ref-2").Return(nil)

	req := sessionRequest(s.T(), http.MethodPost, "/session/refresh", "sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code, w.Body.String())
}

func (s *SessionHandlerSuite) TestHandleRefreshRejectedEndsSession() {
	router, backend, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().Get(gomock.Any(), "sess-1").
		Return(&session.Session{ID: "sess-1", Refresh: "ref-stale"}, nil)
	backend.EXPECT().RefreshToken(gomock.Any(), "ref-stale").
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token rejected"))
	sessions.EXPECT().Clear(gomock.Any(), "sess-1").Return(nil)

	req := sessionRequest(s.T(), http.MethodPost, "/session/refresh", "sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *SessionHandlerSuite) TestHandleLogout() {
	router, _, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().Clear(gomock.Any(), "sess-1").Return(nil)

	req := sessionRequest(s.T(), http.MethodPost, "/session/logout", "sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *SessionHandlerSuite) TestHandleNotifications() {
	router, backend, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().TokenSource("sess-1").Return(&session.TokenSource{})
	backend.EXPECT().Notifications(gomock.Any(), gomock.Any()).
		Return([]upstream.Notification{{ID: 1, Message: "Welcome"}}, nil)

	req := sessionRequest(s.T(), http.MethodGet, "/session/notifications", "sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	notifications := resp["notifications"].([]any)
	require.Len(s.T(), notifications, 1)
	first := notifications[0].(map[string]any)
	assert.Equal(s.T(), "Welcome", first["message"])
}

func (s *SessionHandlerSuite) TestHandlePutStash() {
	router, _, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().PutStash(gomock.Any(), "sess-1", "pending_form", json.RawMessage(`{"step":2}`)).
		Return(nil)

	req := sessionRequest(s.T(), http.MethodPut, "/session/stash/pending_form", "sess-1", nil)
	req.Body = io.NopCloser(strings.NewReader(`{"step":2}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code, w.Body.String())
}

func (s *SessionHandlerSuite) TestHandlePutStashRejectsInvalidJSON() {
	router, _, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)

	req := sessionRequest(s.T(), http.MethodPut, "/session/stash/pending_form", "sess-1", nil)
	req.Body = io.NopCloser(strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *SessionHandlerSuite) TestHandleTakeStash() {
	router, _, sessions := newTestHandler(s.T())
	sessions.EXPECT().Resolve(gomock.Any(), "sess-1").Return(nil)
	sessions.EXPECT().TakeStash(gomock.Any(), "sess-1", "pending_form").
		Return(json.RawMessage(`{"step":2}`), nil)

	req := sessionRequest(s.T(), http.MethodDelete, "/session/stash/pending_form", "sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "pending_form", resp.Key)
	assert.JSONEq(s.T(), `{"step":2}`, string(resp.Value))
}
