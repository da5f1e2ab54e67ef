package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/apierr"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/metric"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/middleware"
	"github.com/tuanvumaihuynh/bizdesk/internal/log"
	"github.com/tuanvumaihuynh/bizdesk/pkg/correlationid"
)

func TestCorrelationID(t *testing.T) {
	var seen string
	h := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should keep the incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "abc")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", rec.Header().Get(correlationid.Header))
	})

	t.Run("Should generate an id when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(correlationid.Header))
	})
}

func TestRecoverer(t *testing.T) {
	t.Run("Should turn a panic into a 500 error body", func(t *testing.T) {
		h := middleware.Recoverer(log.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body apierr.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apierr.InternalServerErr.Code, body.Code)
	})
}

func TestRateLimit(t *testing.T) {
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		res := apierr.New(err)
		w.WriteHeader(res.StatusCode)
	}

	t.Run("Should reject requests over the limit", func(t *testing.T) {
		mw, err := middleware.RateLimit("2-M", onError)
		require.NoError(t, err)
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	})

	t.Run("Should reject a malformed rate", func(t *testing.T) {
		_, err := middleware.RateLimit("lots", onError)
		assert.Error(t, err)
	})
}

func TestLoggingAndMetrics(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.New(buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})
	m := metric.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.Metrics(m), middleware.Logging(logger))
	r.Get("/api/clients/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clients/7", nil))

	t.Run("Should count requests by route pattern", func(t *testing.T) {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/api/clients/{id}", "200")))
	})

	t.Run("Should write an access log record", func(t *testing.T) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "http request", rec["msg"])
		assert.Equal(t, "/api/clients/7", rec["path"])
		assert.EqualValues(t, 200, rec["status"])
	})
}
