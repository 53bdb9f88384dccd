package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 15 * time.Second

type Server struct{ mux *chi.Mux }

// New builds the router. timeout bounds each request; analyses fetch every venue
// live, so callers usually pass more than the default.
func New(timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := chi.NewRouter()

	// RealIP first so the access log sees the client address.
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(Instrument(log.Logger))
	m.Use(chimw.Recoverer)
	m.Use(Deadline(timeout))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
