package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coopcredit/credit-engine/internal/config"
	"github.com/coopcredit/credit-engine/internal/handler"
	"github.com/coopcredit/credit-engine/internal/logging"
	"github.com/coopcredit/credit-engine/internal/middleware"
	"github.com/coopcredit/credit-engine/internal/repository"
	"github.com/coopcredit/credit-engine/internal/riskcentral"
	"github.com/coopcredit/credit-engine/internal/service"
	"github.com/coopcredit/credit-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	memberRepo := repository.NewMemberRepository(db)
	appRepo := repository.NewCreditApplicationRepository(db)
	evalRepo := repository.NewRiskEvaluationRepository(db)
	userRepo := repository.NewUserRepository(db)

	riskClient := riskcentral.NewClient(cfg.RiskCentral)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.GetJWTExpiration())

	memberService := service.NewMemberService(memberRepo, appRepo)
	applicationService := service.NewApplicationService(appRepo, memberRepo, cfg)
	evaluationService := service.NewEvaluationService(appRepo, memberRepo, evalRepo, riskClient, redisClient, cfg, logger)
	authService := service.NewAuthService(userRepo, authMiddleware)

	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService)
	applicationHandler := handler.NewApplicationHandler(applicationService, evaluationService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(authHandler, memberHandler, applicationHandler, healthHandler, authMiddleware, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting credit engine server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server terminated with error", zap.Error(err))
	}

	logger.Info("server exited")
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	applicationHandler *handler.ApplicationHandler,
	healthHandler *handler.HealthHandler,
	auth *middleware.AuthMiddleware,
	logger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Public auth routes
	public := router.PathPrefix("/api/v1").Subrouter()
	public.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	public.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Authenticated API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)

	adminOnly := auth.RequireRole("ADMIN")
	analystOrAdmin := auth.RequireRole("ANALYST", "ADMIN")

	api.HandleFunc("/members", adminOnly(memberHandler.Create)).Methods("POST")
	api.HandleFunc("/members", memberHandler.List).Methods("GET")
	api.HandleFunc("/members/{id}", memberHandler.Get).Methods("GET")
	api.HandleFunc("/members/{id}", adminOnly(memberHandler.Update)).Methods("PUT")
	api.HandleFunc("/members/{id}", adminOnly(memberHandler.Delete)).Methods("DELETE")

	api.HandleFunc("/credit-applications", applicationHandler.Create).Methods("POST")
	api.HandleFunc("/credit-applications", applicationHandler.List).Methods("GET")
	api.HandleFunc("/credit-applications/{id}", applicationHandler.Get).Methods("GET")
	api.HandleFunc("/credit-applications/{id}/evaluate", analystOrAdmin(applicationHandler.Evaluate)).Methods("POST")
	api.HandleFunc("/credit-applications/{id}/evaluation", applicationHandler.GetEvaluation).Methods("GET")

	return router
}
