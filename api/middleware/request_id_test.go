package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

func TestRequestIDEchoesOrReplaces(t *testing.T) {
	var seen string
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	cases := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{name: "well formed", inbound: "req-42.a_b", keep: true},
		{name: "missing", inbound: ""},
		{name: "header injection", inbound: "abc\r\nSet-Cookie: x"},
		{name: "too long", inbound: strings.Repeat("a", maxRequestIDLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header[requestIDHeader] = []string{tc.inbound}
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			assert.Equal(t, got, seen)
			if tc.keep {
				assert.Equal(t, tc.inbound, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestLoggingRecordsRouteAndStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Format: logger.FormatJSON, Output: buf})

	r := chi.NewRouter()
	r.Use(RequestID(logg), Logging(logg))
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{}}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/123", nil)
	req.Header.Set(requestIDHeader, "trace-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := buf.String()
	require.Contains(t, entry, "request.complete")
	assert.Contains(t, entry, `"route":"/api/orders/{id}"`)
	assert.Contains(t, entry, `"status":404`)
	assert.Contains(t, entry, `"bytes":12`)
	assert.Contains(t, entry, `"request_id":"trace-1"`)
}
