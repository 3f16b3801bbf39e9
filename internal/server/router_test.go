package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubHandler struct {
	routes []string
}

func (s stubHandler) Routes() []string { return s.routes }

func (s stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.Pattern))
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware runs in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/ping", okHandler())

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("expected first,second, got %v", order)
		}
	})

	t.Run("handler routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(stubHandler{routes: []string{"GET /a/{id}", "POST /a"}})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a/7", nil))
		if rec.Body.String() != "GET /a/{id}" {
			t.Errorf("expected matched pattern, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/a", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestLibraryHandlerRoutes(t *testing.T) {
	routes := NewLibraryHandler(nil, 1, nil).Routes()

	want := []string{
		"GET /api/liked",
		"GET /api/playlists/liked",
		"POST /api/liked/songs/{songId}/toggle",
		"PUT /api/playlists/{id}/songs",
	}
	for _, w := range want {
		found := false
		for _, r := range routes {
			if r == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing route %q", w)
		}
	}

	for i := 1; i < len(routes); i++ {
		if routes[i-1] > routes[i] {
			t.Fatalf("routes not sorted: %q before %q", routes[i-1], routes[i])
		}
	}
}
