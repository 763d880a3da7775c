package rest

import (
	"net/http"

	"github.com/KretovDmitry/order-workflow/pkg/accesslog"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/KretovDmitry/order-workflow/pkg/unzip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nanmu42/gzip"
)

// InitChi creates the root router with the middlewares shared by every route.
func InitChi(logger logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(accesslog.Handler(logger))
	router.Use(middleware.Recoverer)
	router.Use(gzip.DefaultHandler().WrapHandler)
	router.Use(unzip.Middleware(logger, unzip.DefaultMaxBodyBytes))

	return router
}

type (
	MiddlewareFunc func(http.Handler) http.Handler

	ChiServerOptions struct {
		BaseRouter  chi.Router
		BaseURL     string
		Middlewares []MiddlewareFunc
	}
)
