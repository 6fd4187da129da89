// The scheduler sweeps credit applications stuck in PENDING beyond a
// configured age and runs the automated evaluation on each of them.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/coopcredit/credit-engine/internal/config"
	"github.com/coopcredit/credit-engine/internal/logging"
	"github.com/coopcredit/credit-engine/internal/repository"
	"github.com/coopcredit/credit-engine/internal/riskcentral"
	"github.com/coopcredit/credit-engine/internal/service"
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

	memberRepo := repository.NewMemberRepository(db)
	appRepo := repository.NewCreditApplicationRepository(db)
	evalRepo := repository.NewRiskEvaluationRepository(db)

	riskClient := riskcentral.NewClient(cfg.RiskCentral)
	evaluationService := service.NewEvaluationService(appRepo, memberRepo, evalRepo, riskClient, nil, cfg, logger)

	sweeper := &pendingSweeper{
		appRepo:     appRepo,
		evaluations: evaluationService,
		maxAge:      cfg.GetPendingMaxAge(),
		logger:      logger,
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Scheduler.CronSpec, sweeper.run); err != nil {
		logger.Fatal("failed to schedule pending sweep", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started", zap.String("cron_spec", cfg.Scheduler.CronSpec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

type pendingSweeper struct {
	appRepo     repository.CreditApplicationRepository
	evaluations *service.EvaluationService
	maxAge      time.Duration
	logger      *zap.Logger
}

// run evaluates every PENDING application older than maxAge. Failures on
// one application never stop the sweep.
func (s *pendingSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.maxAge)

	apps, err := s.appRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to list stale pending applications", zap.Error(err))
		return
	}

	s.logger.Info("pending sweep started",
		zap.Time("cutoff", cutoff),
		zap.Int("applications", len(apps)),
	)

	for _, app := range apps {
		evaluation, err := s.evaluations.Evaluate(ctx, app.ID)
		if err != nil {
			s.logger.Warn("sweep evaluation failed",
				zap.String("application_id", app.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("sweep evaluation complete",
			zap.String("application_id", app.ID.String()),
			zap.String("decision", evaluation.FinalDecision),
		)
	}
}
