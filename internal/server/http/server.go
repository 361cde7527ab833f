// Package http exposes the authentication API over HTTP using chi.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 30 * time.Second
)

// AuthService is the subset of services.AuthService the handlers call.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.TokenPair, error)
	Login(ctx context.Context, in services.LoginInput) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, in services.RefreshInput) (*services.TokenPair, error)
	Logout(ctx context.Context, administratorID, refreshToken string) error
	Profile(ctx context.Context, administratorID string) (*models.AdministratorProfile, error)
	RegisterDevice(ctx context.Context, administratorID, token string, deviceType models.DeviceType) (*models.Device, error)
}

// TokenVerifier turns a bearer token into the authenticated principal.
type TokenVerifier interface {
	ParseAccessToken(token string) (auth.Principal, error)
}

type Server struct {
	svc            AuthService
	verifier       TokenVerifier
	log            logging.Logger
	allowedOrigins []string
}

func NewServer(svc AuthService, verifier TokenVerifier, log logging.Logger, allowedOrigins []string) *Server {
	return &Server{
		svc:            svc,
		verifier:       verifier,
		log:            log,
		allowedOrigins: allowedOrigins,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/devices", s.authenticated(s.handleRegisterDevice))
		r.Post("/logout", s.authenticated(s.handleLogout))
		r.Get("/me", s.authenticated(s.handleMe))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r
}
