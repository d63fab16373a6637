package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedObservation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	seen []recordedObservation
}

func (f *fakeObserver) Observe(method, route string, status int, elapsed time.Duration) {
	f.seen = append(f.seen, recordedObservation{method: method, route: route, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/plain", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/orders/123", "/plain"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if len(observer.seen) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observer.seen))
	}
	if got := observer.seen[0]; got.route != "/api/orders/{id}" || got.status != http.StatusTeapot {
		t.Fatalf("unexpected observation %+v", got)
	}
	if got := observer.seen[1]; got.status != http.StatusOK {
		t.Fatalf("expected implicit 200, got %+v", got)
	}
}
