package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewServer returns an HTTP server exposing a liveness probe. It answers 200
// "ok" on both "/" and "/healthz" so platform default probes work unchanged.
func NewServer(addr string) *http.Server {
	r := chi.NewRouter()
	r.Get("/", handle)
	r.Get("/healthz", handle)
	return &http.Server{Addr: addr, Handler: r}
}

func handle(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
