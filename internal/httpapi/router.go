// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package httpapi exposes the auth service over HTTP with the JSON shapes the
// GiftLink frontend expects.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/observability"
)

// Route paths.
const (
	PathRegister = "/api/auth/register"
	PathLogin    = "/api/auth/login"
	PathUpdate   = "/api/auth/update"
	PathHealth   = "/healthz"
)

// AuthService is the part of *auth.Service the handlers call.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Update(ctx context.Context, in auth.UpdateInput) (*auth.UpdateResult, error)
}

// TokenDecoder verifies bearer tokens.
type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

// Options tunes the router. The zero value is usable.
type Options struct {
	// UpdateRequiresToken rejects updates that carry no bearer token.
	UpdateRequiresToken bool
	// Metrics may be nil.
	Metrics *observability.Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type handler struct {
	svc                 AuthService
	tokens              TokenDecoder
	updateRequiresToken bool
	metrics             *observability.Metrics
	logger              *slog.Logger
}

// NewRouter builds the API engine.
func NewRouter(svc AuthService, tokens TokenDecoder, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{
		svc:                 svc,
		tokens:              tokens,
		updateRequiresToken: opts.UpdateRequiresToken,
		metrics:             opts.Metrics,
		logger:              logger,
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestID(), h.accessLog(), gin.CustomRecovery(h.recover))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	r.GET(PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/auth")
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.PUT("/update", h.update)

	return r
}

// NewServer wraps the router in an http.Server for addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
