package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/api"
	"github.com/bizledger/report-exporter/internal/artifact"
	"github.com/bizledger/report-exporter/internal/config"
	"github.com/bizledger/report-exporter/internal/export"
	"github.com/bizledger/report-exporter/internal/queue"
	"github.com/bizledger/report-exporter/internal/report"
	"github.com/bizledger/report-exporter/internal/report/demo"
	"github.com/bizledger/report-exporter/internal/service"
	"github.com/bizledger/report-exporter/internal/store"
	"github.com/bizledger/report-exporter/internal/worker"
	"github.com/bizledger/report-exporter/pkg/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	logger := log.InitLog(cfg.Service.LogLevel)
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	zap.S().Info("Starting report exporter")
	defer zap.S().Info("Report exporter stopped")

	dataStore, err := newStore(cfg)
	if err != nil {
		zap.S().Fatalf("initializing data store: %v", err)
	}
	defer dataStore.Close()

	if err := dataStore.InitialMigration(); err != nil {
		zap.S().Fatalf("running initial migration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	artifacts, err := newArtifactStore(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("initializing artifact store: %v", err)
	}

	engine := report.NewEngine(demo.SalesQuery{}, demo.InvoiceQuery{}, demo.PurchaseQuery{}, demo.InventoryQuery{})
	submissions := queue.New(cfg.Service.QueueCapacity)

	pool := worker.NewPool(dataStore, submissions, engine, export.NewRenderers(), artifacts, cfg.Service.WorkerCount)
	pool.Start(ctx)

	reconciler := worker.NewReconciler(dataStore, submissions, cfg.Service.ReconcileInterval, cfg.Service.QueuedStaleAfter)
	go reconciler.Run(ctx)

	svc := service.NewExportService(dataStore, submissions)

	go func() {
		listener, err := net.Listen("tcp", cfg.Service.Address)
		if err != nil {
			zap.S().Fatalf("creating listener: %s", err)
		}

		server := api.New(cfg, svc, listener)
		if err := server.Run(ctx); err != nil {
			zap.S().Fatalf("Error running server: %s", err)
		}
		cancel()
	}()

	<-ctx.Done()
	pool.Wait()
}

func newStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Type == "memory" {
		return store.NewMemoryStore(), nil
	}
	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewStore(db), nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config) (artifact.Store, error) {
	if cfg.Service.Artifact.S3Endpoint != "" {
		return artifact.NewMinioStore(ctx, artifact.MinioConfig{
			Endpoint:  cfg.Service.Artifact.S3Endpoint,
			AccessKey: cfg.Service.Artifact.S3AccessKey,
			SecretKey: cfg.Service.Artifact.S3SecretKey,
			Bucket:    cfg.Service.Artifact.S3Bucket,
			UseSSL:    cfg.Service.Artifact.S3UseSSL,
		})
	}
	return artifact.NewLocalStore(cfg.Service.Artifact.Dir)
}
