// Package server exposes the qualification pipeline over HTTP: a JSON API
// for direct invocation, a Twilio-style SMS webhook, and a health endpoint.
// It only adapts transport to pipeline.Run; contact/conversation CRUD,
// authentication, and UI belong to the host application.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Quinntas/max/internal/agent"
	"github.com/Quinntas/max/internal/dealership"
	"github.com/Quinntas/max/internal/lead"
	maxotel "github.com/Quinntas/max/internal/otel"
	"github.com/Quinntas/max/internal/pipeline"
)

const requestTimeout = 90 * time.Second

// ConsentChecker reports whether a contact has on-file consent for a
// channel. The host application owns consent records; the default checker
// allows everything, which is only suitable for development.
type ConsentChecker func(phone string, ch lead.Channel) bool

// Server holds the HTTP dependencies.
type Server struct {
	router         *chi.Mux
	pipe           *pipeline.Pipeline
	registry       *dealership.Registry
	agents         *agent.Cache
	hasConsent     ConsentChecker
	authToken      string
	webhookBaseURL string
	startTime      time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithConsentChecker sets the consent lookup used by the webhook path.
func WithConsentChecker(fn ConsentChecker) Option {
	return func(s *Server) { s.hasConsent = fn }
}

// WithWebhookAuth enables signature verification on inbound webhooks.
// baseURL is the public URL prefix signatures are computed over.
func WithWebhookAuth(authToken, baseURL string) Option {
	return func(s *Server) { s.authToken, s.webhookBaseURL = authToken, baseURL }
}

// WithAgentCache exposes the shared agent cache for the admin clear endpoint.
func WithAgentCache(c *agent.Cache) Option {
	return func(s *Server) { s.agents = c }
}

// New creates a server over the pipeline and dealership registry.
func New(pipe *pipeline.Pipeline, registry *dealership.Registry, opts ...Option) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		pipe:       pipe,
		registry:   registry,
		hasConsent: func(string, lead.Channel) bool { return true },
		startTime:  time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))
	s.router.Use(maxotel.Middleware())

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/v1/qualify", s.handleQualify)
	s.router.Post("/webhooks/sms", s.handleSMSWebhook)
	s.router.Post("/v1/agents/clear", s.handleAgentsClear)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
