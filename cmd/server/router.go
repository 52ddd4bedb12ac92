package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mmynk/dangidongi/docs"
	"github.com/mmynk/dangidongi/internal/auth"
	"github.com/mmynk/dangidongi/internal/metrics"
	"github.com/mmynk/dangidongi/internal/middleware"
	"github.com/mmynk/dangidongi/internal/service"
	"github.com/mmynk/dangidongi/internal/storage"
	"github.com/mmynk/dangidongi/pkg/api/apiconnect"
)

type routerDeps struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
	logger     *slog.Logger
	staticDir  string
}

// newRouter wires the Connect services, operational endpoints and the
// static frontend.
func newRouter(d routerDeps) http.Handler {
	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(d.jwtManager),
		middleware.LoggingInterceptor(d.logger),
		d.metrics.Interceptor(),
		middleware.RequireAuth(d.jwtManager, service.AuthenticatedProcedures...),
	)

	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(d.store, d.metrics),
		interceptors,
	)
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(d.store), d.jwtManager, d.store, d.logger),
		interceptors,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(d.logger))
	r.Use(middleware.CORS)

	r.Handle(settlementPath+"*", settlementHandler)
	r.Handle(authPath+"*", authHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", d.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.NotFound(staticHandler(d.staticDir))

	return r
}

// staticHandler serves the frontend, falling back to index.html for
// unknown paths.
func staticHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+apiconnect.SettlementServiceName) ||
			strings.HasPrefix(r.URL.Path, "/"+apiconnect.AuthServiceName) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
