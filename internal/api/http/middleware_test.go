package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/metrics"
	"github.com/dtroode/quidalert-auth/internal/mocks"
	testhelpers "github.com/dtroode/quidalert-auth/internal/testutil"
)

func TestRequestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		wantIP     string
		wantID     string
	}{
		{
			name:       "peer address",
			remoteAddr: "192.0.2.10:41000",
			wantIP:     "192.0.2.10",
		},
		{
			name:       "first forwarded hop",
			remoteAddr: "10.0.0.2:41000",
			headers:    map[string]string{"X-Forwarded-For": " 198.51.100.4 , 10.0.0.1"},
			wantIP:     "198.51.100.4",
		},
		{
			name:       "garbage forwarded header",
			remoteAddr: "10.0.0.2:41000",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			wantIP:     "10.0.0.2",
		},
		{
			name:       "request id echoed",
			remoteAddr: "192.0.2.10:41000",
			headers:    map[string]string{"X-Request-ID": "req-abc"},
			wantIP:     "192.0.2.10",
			wantID:     "req-abc",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got logger.RequestInfo
			h := RequestContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = logger.RequestFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("User-Agent", strings.Repeat("x", 400))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantIP, got.IP)
			assert.Len(t, got.UserAgent, maxUserAgentLength)
			assert.Equal(t, got.ID, rec.Header().Get("X-Request-ID"))
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, got.ID)
			} else {
				assert.Len(t, got.ID, 36)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(testhelpers.MakeNoopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}

func TestLimitBody(t *testing.T) {
	var readErr error
	h := LimitBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(readErr, &tooLarge))
}

func TestMetrics_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/users/{id}", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		NewHealth(nil).Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		db := mocks.NewPinger(t)
		db.On("Ping", mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		NewHealth(map[string]Pinger{"postgres": db}).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok"}}`, rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()
		db := mocks.NewPinger(t)
		db.On("Ping", mock.Anything).Return(nil)
		cache := mocks.NewPinger(t)
		cache.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		rec := httptest.NewRecorder()
		NewHealth(map[string]Pinger{"postgres": db, "redis": cache}).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","checks":{"postgres":"ok","redis":"dial tcp: connection refused"}}`, rec.Body.String())
	})
}
