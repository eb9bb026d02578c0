// Package upstream is the typed client for the LegalBooks API. The remote
// backend owns all durable state and business validation; this client owns
// transport concerns: bearer credentials, the one-shot refresh retry on
// authorization failures, per-request timeouts, and multipart assembly.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"legalbooks/internal/platform/config"
	"legalbooks/internal/platform/metrics"
	dErrors "legalbooks/pkg/domain-errors"
)

// TokenSource supplies and receives the token pair for one auth session.
// The session manager provides per-session implementations.
type TokenSource interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	// UpdateTokens stores a rotated pair. An empty refresh keeps the old one.
	UpdateTokens(ctx context.Context, access, refresh string) error
	// Invalidate marks the session dead after a failed refresh; the caller
	// redirects to login.
	Invalidate(ctx context.Context) error
}

// Client talks to the LegalBooks API.
type Client struct {
	baseURL     string
	http        *http.Client
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	refreshSkew time.Duration
}

// New builds a Client. The timeout applies per request; callers still pass
// contexts so handler deadlines cancel in-flight calls.
func New(cfg config.Upstream, logger *slog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
		metrics:     m,
		tracer:      otel.Tracer("legalbooks/upstream"),
		refreshSkew: cfg.RefreshSkew,
	}
}

// RegisterFields fetches the reference data for one registrant role.
func (c *Client) RegisterFields(ctx context.Context, role string) (*Fields, error) {
	var env Envelope
	q := url.Values{"role": {role}}
	if err := c.getJSON(ctx, "/register/fields?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	var fields Fields
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "malformed register fields response")
	}
	return &fields, nil
}

// Roles fetches the registrant role list. The endpoint returns a bare array,
// not the usual envelope.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.getJSON(ctx, "/roles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GenerateOTP asks the backend to send a one-time code to the given entity
// (email address or mobile number).
func (c *Client) GenerateOTP(ctx context.Context, entity, entityType, requestType string) error {
	env, err := c.postJSON(ctx, "/auth/otp/generate", OTPRequest{
		Entity:      entity,
		EntityType:  entityType,
		RequestType: requestType,
	})
	if err != nil {
		return err
	}
	if !env.Status {
		return dErrors.New(dErrors.CodeBadRequest, serverMsg(env, "failed to send OTP"))
	}
	return nil
}

// ValidateOTP checks a one-time code against the backend. Only an explicit
// success flag counts as verified.
func (c *Client) ValidateOTP(ctx context.Context, entity, entityType, requestType string, otp int) error {
	env, err := c.postJSON(ctx, "/auth/otp/validate", OTPRequest{
		Entity:      entity,
		EntityType:  entityType,
		RequestType: requestType,
		OTP:         otp,
	})
	if err != nil {
		return err
	}
	if !env.Status {
		return dErrors.New(dErrors.CodeBadRequest, serverMsg(env, "failed to verify OTP"))
	}
	return nil
}

// Register submits the assembled registration as multipart form data.
func (c *Client) Register(ctx context.Context, p *RegisterPayload) (*RegisterResult, error) {
	ctx, span := c.tracer.Start(ctx, "upstream.Register")
	defer span.End()

	body, contentType, err := encodeRegisterForm(p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode registration form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/register", body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues("/user/register").Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
	}
	defer resp.Body.Close()

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "an error occurred, please try again later")
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "an error occurred, please try again later")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return nil, dErrors.New(dErrors.CodeBadRequest, serverMsg(&env, "Registration failed. Please try again."))
	}

	var result RegisterResult
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "malformed registration response")
		}
	}
	result.Success = true
	result.Msg = env.Msg
	return &result, nil
}

// CreateToken exchanges credentials for a token pair.
func (c *Client) CreateToken(ctx context.Context, email, password string) (*TokenPair, error) {
	return c.tokenCall(ctx, "/token/create", map[string]string{
		"email":    email,
		"password": password,
	})
}

// RefreshToken exchanges a refresh token for a new pair.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	pair, err := c.tokenCall(ctx, "/token/refresh", map[string]string{"refresh": refresh})
	if err != nil {
		c.metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return nil, err
	}
	c.metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return pair, nil
}

// GoogleAuth exchanges an OAuth authorization code for the user's profile.
func (c *Client) GoogleAuth(ctx context.Context, code, requestType string) (*GoogleProfile, error) {
	env, err := c.postJSON(ctx, "/auth/google", map[string]string{
		"code":         code,
		"request_type": requestType,
	})
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, dErrors.New(dErrors.CodeUnauthorized, serverMsg(env, "Google sign-in failed"))
	}
	var profile GoogleProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "malformed google auth response")
	}
	return &profile, nil
}

// Notifications fetches the authenticated user's notifications, refreshing
// the access token once on an authorization failure.
func (c *Client) Notifications(ctx context.Context, ts TokenSource) ([]Notification, error) {
	var notifications []Notification
	err := c.doAuthenticated(ctx, ts, "/notifications", func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(&notifications)
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// doAuthenticated runs an authenticated GET against path. On a 401/403 it
// refreshes the token pair exactly once and retries the original call exactly
// once; a failed refresh invalidates the session.
func (c *Client) doAuthenticated(ctx context.Context, ts TokenSource, path string, decode func(*http.Response) error) error {
	ctx, span := c.tracer.Start(ctx, "upstream.authenticated "+path)
	defer span.End()

	access, refresh, err := ts.Tokens(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "no active session")
	}

	// Refresh proactively when the access token is about to expire; saves the
	// round trip that would bounce with a 401 anyway.
	if c.expiringSoon(access) {
		if access, err = c.refreshInto(ctx, ts, refresh); err != nil {
			return err
		}
	}

	resp, err := c.bearerGet(ctx, path, access)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		if access, err = c.refreshInto(ctx, ts, refresh); err != nil {
			return err
		}
		if resp, err = c.bearerGet(ctx, path, access); err != nil {
			c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dErrors.Newf(dErrors.CodeBadGateway, "upstream returned %d", resp.StatusCode)
	}
	if err := decode(resp); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadGateway, "an error occurred, please try again later")
	}
	return nil
}

// refreshInto rotates the token pair through the token source. A failed
// refresh invalidates the session so the caller can force a new login.
func (c *Client) refreshInto(ctx context.Context, ts TokenSource, refresh string) (string, error) {
	pair, err := c.RefreshToken(ctx, refresh)
	if err != nil {
		_ = ts.Invalidate(ctx)
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "session expired, please log in again")
	}
	if err := ts.UpdateTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store refreshed tokens")
	}
	return pair.Access, nil
}

// expiringSoon peeks at the unverified exp claim. The gateway never trusts
// these claims for authorization; the upstream verifies the signature.
func (c *Client) expiringSoon(access string) bool {
	if c.refreshSkew <= 0 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < c.refreshSkew
}

func (c *Client) bearerGet(ctx context.Context, path, access string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+access)
	return c.http.Do(req)
}

func (c *Client) tokenCall(ctx context.Context, path string, body map[string]string) (*TokenPair, error) {
	ctx, span := c.tracer.Start(ctx, "upstream"+path)
	defer span.End()

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "token endpoint returned %d", resp.StatusCode)
	}
	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "malformed token response")
	}
	if pair.Access == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token endpoint returned no access token")
	}
	return &pair, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	ctx, span := c.tracer.Start(ctx, "upstream GET "+path)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dErrors.Newf(dErrors.CodeBadGateway, "upstream returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadGateway, "an error occurred, please try again later")
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*Envelope, error) {
	ctx, span := c.tracer.Start(ctx, "upstream POST "+path)
	defer span.End()

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "an error occurred, please try again later")
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadGateway, "an error occurred, please try again later")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, dErrors.New(dErrors.CodeBadRequest, serverMsg(&env, fmt.Sprintf("upstream returned %d", resp.StatusCode)))
	}
	return &env, nil
}

func serverMsg(env *Envelope, fallback string) string {
	if env != nil && env.Msg != "" {
		return env.Msg
	}
	return fallback
}

func encodeRegisterForm(p *RegisterPayload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"role":              p.Role,
		"email":             p.Email,
		"mobile":            p.Mobile,
		"address":           p.Address,
		"state":             p.State,
		"city":              p.City,
		"pincode":           p.Pincode,
		"experience_years":  strconv.Itoa(p.ExperienceYears),
		"experience_months": strconv.Itoa(p.ExperienceMonths),
		"about":             p.About,
		"login_type":        "email",
		"password":          p.Password,
	}
	if p.FirstName != "" {
		fields["first_name"] = p.FirstName
	}
	if p.LastName != "" {
		fields["last_name"] = p.LastName
	}
	if p.FirmName != "" {
		fields["firm_name"] = p.FirmName
	}
	if p.PrimaryArea != 0 {
		fields["primary_area_of_practice"] = strconv.Itoa(p.PrimaryArea)
	}
	if p.Courts != "" {
		fields["courts"] = p.Courts
	}
	if len(p.SecondaryAreas) > 0 {
		secondary, err := json.Marshal(p.SecondaryAreas)
		if err != nil {
			return nil, "", err
		}
		fields["secondary_area_of_practices"] = string(secondary)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if len(p.Photo) > 0 {
		name := p.PhotoName
		if name == "" {
			name = "profile.jpg"
		}
		part, err := w.CreateFormFile("photo", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(p.Photo); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
