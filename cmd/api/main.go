package main

import (
	"context"
	"log"
	"os"
	"time"

	"procurement-flow/internal/core/cache"
	"procurement-flow/internal/core/config"
	"procurement-flow/internal/core/logger"
	"procurement-flow/internal/core/server"
	flowadapter "procurement-flow/internal/features/flows/adapters"
	flowdomain "procurement-flow/internal/features/flows/domain"
	flowhandler "procurement-flow/internal/features/flows/handler"
	flowservice "procurement-flow/internal/features/flows/service"
	workflowadapter "procurement-flow/internal/features/workflow/adapters"
	workflowhandler "procurement-flow/internal/features/workflow/handler"
	"procurement-flow/internal/features/workflow/ports"
	workflowservice "procurement-flow/internal/features/workflow/service"

	"go.uber.org/zap"
)

// @title Procurement Flow API
// @version 1.0
// @description BFF for the procurement purchase-order status workflow: edit sessions, transition validation and the status flow registry.
// @contact.name API Support
// @contact.email support@procurementflow.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	// Initialize Redis cache and verify connectivity
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Initialize Procurement Adapter and run Health Check
	procAdapter := workflowadapter.NewProcurementAdapter(cfg.Procurement)
	if err := procAdapter.HealthCheck(ctx); err != nil {
		l.Fatal("Procurement API Health Check Failed", zap.Error(err))
	}
	l.Info("Procurement API connection verified")

	// Load the optional transition guard pack
	var guard ports.TransitionGuard
	if cfg.Workflow.GuardPackPath != "" {
		pack, err := workflowadapter.LoadGuardPack(cfg.Workflow.GuardPackPath)
		if err != nil {
			l.Fatal("Failed to load guard pack", zap.String("path", cfg.Workflow.GuardPackPath), zap.Error(err))
		}
		guard, err = workflowadapter.NewJsonLogicGuard(pack)
		if err != nil {
			l.Fatal("Invalid guard pack", zap.String("path", cfg.Workflow.GuardPackPath), zap.Error(err))
		}
		l.Info("Guard pack loaded", zap.String("path", cfg.Workflow.GuardPackPath), zap.Int("rules", len(pack.Guards)))
	}

	// Initialize Workflow Service & Handler
	snapshotTTL := time.Duration(cfg.Redis.SnapshotTTLSeconds) * time.Second
	transitionSvc := workflowservice.NewTransitionService(procAdapter, guard, redisCache, snapshotTTL)
	transitionHdl := workflowhandler.NewTransitionHandler(transitionSvc)

	// Initialize Flow Service & Handler, seeding the registry from the
	// status flow file when it exists
	var fallback *flowdomain.Flow
	if _, err := os.Stat(cfg.Workflow.StatusFlowPath); err == nil {
		fallback, err = flowadapter.LoadFlow(cfg.Workflow.StatusFlowPath)
		if err != nil {
			l.Fatal("Failed to load status flow file", zap.String("path", cfg.Workflow.StatusFlowPath), zap.Error(err))
		}
		l.Info("Status flow loaded from file", zap.String("path", cfg.Workflow.StatusFlowPath))
	}

	flowRepo := flowadapter.NewRedisFlowRepository(redisCache)
	flowSvc := flowservice.NewFlowService(flowRepo, fallback)
	if err := flowSvc.Bootstrap(ctx); err != nil {
		l.Fatal("Failed to bootstrap status flow", zap.Error(err))
	}
	flowHdl := flowhandler.NewFlowHandler(flowSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/orders/:id/edit-session", transitionHdl.GetEditSession)
	srv.App.Post("/orders/:id/transitions", transitionHdl.SubmitTransition)
	srv.App.Get("/flows/procurement", flowHdl.GetFlow)
	srv.App.Put("/flows/procurement", flowHdl.ReplaceFlow)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
