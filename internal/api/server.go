// Package api exposes the export pipeline over HTTP: submit an export job,
// poll its status.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/config"
	"github.com/bizledger/report-exporter/internal/service"
	"github.com/bizledger/report-exporter/pkg/log"
	"github.com/bizledger/report-exporter/pkg/requestid"
)

const gracefulShutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	svc      *service.ExportService
	listener net.Listener
}

func New(cfg *config.Config, svc *service.ExportService, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		svc:      svc,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()
	router.Use(
		cors.Handler(cors.Options{
			AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		requestid.Middleware,
		log.Logger(zap.L(), "api_server"),
		chiMiddleware.Recoverer,
	)

	h := NewHandler(s.svc)
	router.Post("/api/v1/reports/{name}/export", h.CreateExport)
	router.Get("/api/v1/exports/{id}", h.GetExportStatus)
	router.Get("/api/v1/snapshots", h.ListSnapshots)
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
