// Package server carries the HTTP endpoint layer: it parses and validates
// requests, calls into the injected store and blob backends, and maps
// errors to statuses.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"roomdrop/internal/blob"
	"roomdrop/internal/store"
)

type Config struct {
	Addr  string // e.g. ":8080"
	Store store.Store
	Blobs blob.Store

	// MaxUploadBytes caps multipart uploads; 0 means no limit.
	MaxUploadBytes int64

	Log *logrus.Logger
}

type Server struct {
	httpServer *http.Server
}

func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Logger("router", cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.healthHandler)
	r.Get("/ready", cfg.readyHandler)

	// Room creation is the only endpoint that can burn through the code
	// space, so it gets its own limiter.
	createLimiter := newRateLimiter(30, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.With(createLimiter.middleware).Post("/rooms", cfg.createRoomHandler)
		r.Get("/rooms/{code}", cfg.getRoomHandler)
		r.Delete("/rooms/{roomId}", cfg.deleteRoomHandler)

		r.Get("/rooms/{roomId}/content", cfg.listContentHandler)
		r.Post("/rooms/{roomId}/content", cfg.createContentHandler)
		r.Post("/rooms/{roomId}/upload", cfg.uploadHandler)
		r.Delete("/rooms/{roomId}/content/{contentId}", cfg.deleteContentHandler)

		r.Get("/files/{ref}", cfg.downloadHandler)
	})

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: s}
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
