// Package app is the entry package of the example server. Its module names the
// packages whose services are registered.
package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
	"github.com/Ngone6325/autoinject/example/users"
)

// Info reports the server start time.
type Info struct {
	autoinject.Injectable `inject:"singleton"`

	Started time.Time
}

func NewInfo() *Info { return &Info{Started: time.Now()} }

type scopeKey struct{}

// Scope opens one container scope per request. Handlers reach it through ScopeFrom.
func Scope(c *di.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := c.NewScope()
			defer s.Reset()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey{}, s)))
		})
	}
}

// ScopeFrom returns the request scope opened by Scope, or nil.
func ScopeFrom(ctx context.Context) *di.Scope {
	s, _ := ctx.Value(scopeKey{}).(*di.Scope)
	return s
}

// NewRouter serves the example endpoints from the services registered in c.
func NewRouter(c *di.Container, logger *zap.Logger) http.Handler {
	h := &handlers{container: c, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))
	r.Use(Scope(c))

	r.Get("/health", h.health)
	r.Get("/services", h.services)
	r.Route("/users", func(r chi.Router) {
		r.Get("/me", h.me)
		r.Get("/greet/{name}", h.greet)
	})
	return r
}

type handlers struct {
	container *di.Container
	logger    *zap.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	info, err := di.Resolve[*Info](h.container)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(info.Started).Round(time.Second).String(),
	})
}

func (h *handlers) services(w http.ResponseWriter, r *http.Request) {
	type service struct {
		Service        string `json:"service"`
		Implementation string `json:"implementation"`
		Lifetime       string `json:"lifetime"`
	}
	var out []service
	for _, d := range h.container.Descriptors() {
		out = append(out, service{
			Service:        d.ServiceType.String(),
			Implementation: d.ImplementationType.String(),
			Lifetime:       d.Lifetime.String(),
		})
	}
	h.json(w, http.StatusOK, out)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	s := ScopeFrom(r.Context())
	svc, err := di.ScopeGet[users.IUserService](s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	log, err := di.ScopeGet[users.IUserLog](s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]string{
		"name":       svc.GetUserName(),
		"repo":       svc.RepoID(),
		"request_id": log.RequestID(),
		"log":        log.LogUserID("me"),
	})
}

func (h *handlers) greet(w http.ResponseWriter, r *http.Request) {
	g, err := di.ScopeGet[*users.Greeter](ScopeFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]string{"message": g.Greet(chi.URLParam(r, "name"))})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	h.json(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (h *handlers) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}
