package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooks/internal/platform/config"
	"legalbooks/internal/platform/metrics"
	dErrors "legalbooks/pkg/domain-errors"
)

func newTestClient(baseURL string, skew time.Duration) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.Upstream{
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		RefreshSkew: skew,
	}, logger, metrics.NewWith(prometheus.NewRegistry()))
}

// memTokens is a TokenSource over local state.
type memTokens struct {
	mu          sync.Mutex
	access      string
	refresh     string
	invalidated bool
}

func (m *memTokens) Tokens(_ context.Context) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh, nil
}

func (m *memTokens) UpdateTokens(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	return nil
}

func (m *memTokens) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = true
	return nil
}

// unsignedJWT builds a structurally valid token with the given exp claim.
// The client only peeks at claims and never verifies signatures.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

func TestGenerateOTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/otp/generate", r.URL.Path)
		var req OTPRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "asha@example.com", req.Entity)
		assert.Equal(t, "email", req.EntityType)
		assert.Equal(t, "register", req.RequestType)
		fmt.Fprint(w, `{"status":true,"status_code":200,"msg":"OTP sent"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	err := c.GenerateOTP(context.Background(), "asha@example.com", "email", "register")
	assert.NoError(t, err)
}

func TestValidateOTPRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":false,"status_code":400,"msg":"Invalid OTP"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	err := c.ValidateOTP(context.Background(), "asha@example.com", "email", "register", 1234)
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP", dErrors.MessageOf(err))
}

func TestRegisterEncodesMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))

		assert.Equal(t, "lawyer", r.FormValue("role"))
		assert.Equal(t, "Asha", r.FormValue("first_name"))
		assert.Equal(t, "email", r.FormValue("login_type"))
		assert.Equal(t, "1", r.FormValue("primary_area_of_practice"))
		assert.Equal(t, "[1,101,102]", r.FormValue("secondary_area_of_practices"))
		assert.Empty(t, r.FormValue("firm_name"), "person variants omit the firm name part")

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "profile.jpg", header.Filename, "unnamed photos get the default filename")
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8}, data)

		fmt.Fprint(w, `{"status":true,"status_code":201,"msg":"Registered successfully"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	result, err := c.Register(context.Background(), &RegisterPayload{
		Role:           "lawyer",
		FirstName:      "Asha",
		LastName:       "Rao",
		Email:          "asha@example.com",
		Mobile:         "9876543210",
		Password:       "Abcdefg1!",
		PrimaryArea:    1,
		SecondaryAreas: []int{1, 101, 102},
		Photo:          []byte{0xFF, 0xD8},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Registered successfully", result.Msg)
}

func TestRegisterFailureSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":false,"status_code":400,"msg":"Email already registered"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	_, err := c.Register(context.Background(), &RegisterPayload{Role: "lawyer"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", dErrors.MessageOf(err))
}

func TestCreateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/create", r.URL.Path)
		fmt.Fprint(w, `{"access":"acc-1","refresh":"ref-1","user_details":{"id":7}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	pair, err := c.CreateToken(context.Background(), "asha@example.com", "Abcdefg1!")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", pair.Access)
	assert.Equal(t, "ref-1", pair.Refresh)
	assert.JSONEq(t, `{"id":7}`, string(pair.UserDetails))
}

func TestCreateTokenRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	_, err := c.CreateToken(context.Background(), "asha@example.com", "wrong")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestNotificationsRefreshRetry(t *testing.T) {
	var notificationCalls, refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notifications":
			notificationCalls++
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `[{"id":1,"message":"Welcome"}]`)
		case "/token/refresh":
			refreshCalls++
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ref-1", body["refresh"])
			fmt.Fprint(w, `{"access":"fresh-access","refresh":"ref-2"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	ts := &memTokens{access: "stale-access", refresh: "ref-1"}

	notifications, err := c.Notifications(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Welcome", notifications[0].Message)

	assert.Equal(t, 2, notificationCalls, "original call plus exactly one retry")
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "fresh-access", ts.access)
	assert.Equal(t, "ref-2", ts.refresh)
}

func TestNotificationsRefreshFailureInvalidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notifications":
			w.WriteHeader(http.StatusUnauthorized)
		case "/token/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	ts := &memTokens{access: "stale-access", refresh: "dead-refresh"}

	_, err := c.Notifications(context.Background(), ts)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	assert.True(t, ts.invalidated, "failed refresh ends the session")
}

func TestNotificationsProactiveRefresh(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notifications":
			assert.Equal(t, "Bearer fresh-access", r.Header.Get("Authorization"),
				"near-expiry tokens refresh before the first call")
			fmt.Fprint(w, `[]`)
		case "/token/refresh":
			refreshCalls++
			fmt.Fprint(w, `{"access":"fresh-access"}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 30*time.Second)
	expiring := unsignedJWT(t, time.Now().Add(10*time.Second))
	ts := &memTokens{access: expiring, refresh: "ref-1"}

	_, err := c.Notifications(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "ref-1", ts.refresh, "empty refresh in the response keeps the old one")
}

func TestRolesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/roles", r.URL.Path)
		fmt.Fprint(w, `[{"id":1,"name":"lawyer"},{"id":2,"name":"firm"}]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	roles, err := c.Roles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestRegisterFieldsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lawyer", r.URL.Query().Get("role"))
		fmt.Fprint(w, `{"status":true,"status_code":200,"data":{"states":[{"id":5,"name":"Telangana","cities":[{"id":12,"name":"Hyderabad"}]}],"practices":[{"id":1,"practice_name":"Civil Law","specializations":[{"id":101,"specialization_name":"Property Disputes"}]}]}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	fields, err := c.RegisterFields(context.Background(), "lawyer")
	require.NoError(t, err)
	require.Len(t, fields.States, 1)
	assert.Equal(t, "Hyderabad", fields.States[0].Cities[0].Name)
	require.Len(t, fields.Practices, 1)
	assert.Equal(t, "Civil Law", fields.Practices[0].Name)
	assert.Equal(t, "Property Disputes", fields.Practices[0].Specializations[0].Name)
}
