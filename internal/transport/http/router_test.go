package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"legalbooks/pkg/testutil"
)

type stubHealth struct {
	err error
}

func (h stubHealth) Health(ctx context.Context) error { return h.err }

type stubFeature struct{}

func (stubFeature) Register(r chi.Router) {
	r.Get("/feature/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthz(t *testing.T) {
	router := NewRouter(discardLogger(), nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "ok")
}

func TestReadyz(t *testing.T) {
	router := NewRouter(discardLogger(), stubHealth{})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/readyz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "ready")
}

func TestReadyzWithoutBackend(t *testing.T) {
	// No health checker configured means readiness is unconditional.
	router := NewRouter(discardLogger(), nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/readyz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyzUnavailable(t *testing.T) {
	router := NewRouter(discardLogger(), stubHealth{err: errors.New("redis down")})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/readyz"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	testutil.AssertJSONContains(t, rr, "status", "unavailable")
}

func TestFeatureRoutesMounted(t *testing.T) {
	router := NewRouter(discardLogger(), nil, stubFeature{})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/feature/ping"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRequestIDPropagated(t *testing.T) {
	router := NewRouter(discardLogger(), nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
