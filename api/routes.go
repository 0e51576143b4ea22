package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/secure"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/account"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/statistics"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/status"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/metrics"
	"github.com/carson-networks/wallet-server/internal/service"
	"github.com/carson-networks/wallet-server/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// rateLimitedPaths accept credentials and are limited per client IP.
var rateLimitedPaths = []string{
	"/v1/users/signup",
	"/v1/users/login",
	"/v1/users/tokens",
}

type Rest struct {
	Logger        *logrus.Logger
	Port          string
	Service       *service.Service
	Storage       storage.Backend
	Metrics       *metrics.Metrics
	AuthRateLimit int
	Development   bool
}

// badRequestStatus reports request schema violations as 400 like every
// other input error. huma answers them with 422.
type badRequestStatus struct {
	humaContext
}

// humaContext renames the embedded field so it does not shadow Context().
type humaContext = huma.Context

func (c badRequestStatus) SetStatus(code int) {
	if code == http.StatusUnprocessableEntity {
		code = http.StatusBadRequest
	}
	c.humaContext.SetStatus(code)
}

func useBadRequestForSchemaErrors(ctx huma.Context, next func(huma.Context)) {
	next(badRequestStatus{ctx})
}

// schemaErrorBody keeps the problem body's status in line with the header.
func schemaErrorBody(_ huma.Context, _ string, v any) (any, error) {
	if e, ok := v.(*huma.ErrorModel); ok && e.Status == http.StatusUnprocessableEntity {
		e.Status = http.StatusBadRequest
	}
	return v, nil
}

// Router builds the full HTTP handler: middleware, the v1 API, /status and
// /metrics.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(r.Logger))
	router.Use(middleware.Recoverer)
	router.Use(r.Metrics.Middleware)
	router.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      r.Development,
	}).Handler)
	if r.AuthRateLimit > 0 {
		router.Use(limitPaths(httprate.LimitByIP(r.AuthRateLimit, time.Minute), rateLimitedPaths...))
	}

	statusHandler := status.NewHandler(r.Storage)
	router.Get("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))
	router.Handle("/metrics", r.Metrics.Handler())

	config := huma.DefaultConfig("Wallet API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		common.SecurityScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	config.Transformers = append(config.Transformers, schemaErrorBody)
	api := humachi.New(router, config)
	api.UseMiddleware(useBadRequestForSchemaErrors)

	accounts := r.Service.Account
	account.NewSignupHandler(accounts).Register(api)
	account.NewLoginHandler(accounts).Register(api)
	account.NewRefreshTokensHandler(accounts).Register(api)
	account.NewLogoutHandler(accounts).Register(api)
	account.NewCurrentHandler(accounts).Register(api)

	transactions := r.Service.Transaction
	transaction.NewAddTransactionHandler(transactions).Register(api)
	transaction.NewUpdateTransactionHandler(transactions).Register(api)
	transaction.NewDeleteTransactionHandler(transactions).Register(api)
	transaction.NewListCategoriesHandler(transactions).Register(api)
	statistics.NewGetStatisticsHandler(transactions).Register(api)

	return router
}

func limitPaths(limiter func(http.Handler) http.Handler, paths ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(paths))
	for _, p := range paths {
		limited[p] = true
	}
	return func(next http.Handler) http.Handler {
		withLimit := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if limited[req.URL.Path] {
				withLimit.ServeHTTP(w, req)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Serve listens until ctx is cancelled and then shuts the server down,
// letting in-flight requests finish.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
