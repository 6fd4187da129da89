package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coopcredit/credit-engine/internal/config"
	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/repository"
	"github.com/coopcredit/credit-engine/internal/riskcentral"
	"github.com/coopcredit/credit-engine/internal/rules"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

// RiskScorer is the port to the external risk-scoring service.
type RiskScorer interface {
	Evaluate(ctx context.Context, document string, requestedAmount decimal.Decimal) (*riskcentral.Evaluation, error)
}

const (
	evaluationCacheKeyPrefix = "evaluation:"
	evaluationCacheTTL       = 24 * time.Hour
)

// Conservative substitution applied when the scorer is down and the
// fallback is explicitly enabled. Never LOW, never approving by itself.
const (
	fallbackScore  = 600
	fallbackDetail = "Risk Central service unavailable - using default evaluation"
)

// EvaluationService is the decision engine: it combines the eligibility
// rules, the configured risk classifier and the external risk score into
// one immutable RiskEvaluation and settles the application's status.
type EvaluationService struct {
	appRepo    repository.CreditApplicationRepository
	memberRepo repository.MemberRepository
	evalRepo   repository.RiskEvaluationRepository
	scorer     RiskScorer
	redis      *redis.Client
	config     *config.Config
	logger     *zap.Logger
}

func NewEvaluationService(
	appRepo repository.CreditApplicationRepository,
	memberRepo repository.MemberRepository,
	evalRepo repository.RiskEvaluationRepository,
	scorer RiskScorer,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		appRepo:    appRepo,
		memberRepo: memberRepo,
		evalRepo:   evalRepo,
		scorer:     scorer,
		redis:      redisClient,
		config:     cfg,
		logger:     logger,
	}
}

// Evaluate runs the one-time automated decision for a PENDING credit
// application. Preconditions are checked in a fixed order and abort before
// any write; rules are evaluated independently so the stored reason lists
// every violated criterion, not just the first.
func (s *EvaluationService) Evaluate(ctx context.Context, applicationID uuid.UUID) (*domain.RiskEvaluation, error) {
	// Fast-path duplicate check; the unique constraint in the repository
	// is what holds under concurrency.
	exists, err := s.evalRepo.ExistsByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, customError.WrapAlreadyEvaluated(applicationID.String())
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !app.IsPending() {
		return nil, customError.WrapNotPending(app.ID.String(), app.Status)
	}

	member, err := s.memberRepo.GetByID(ctx, app.MemberID)
	if err != nil {
		return nil, err
	}

	score, riskLevel, detail, err := s.obtainRiskScore(ctx, member.Document, app.RequestedAmount)
	if err != nil {
		return nil, err
	}

	ratio, err := rules.PaymentToIncomeRatio(member, app)
	if err != nil {
		return nil, err
	}

	business := s.config.Business
	ceiling := s.config.GetPaymentRatioCeiling()

	now := time.Now()
	meetsSeniority := rules.MeetsSeniority(member, now, business.MinSeniorityMonths)
	meetsMaxAmount := rules.MeetsMaxAmount(member, app, business.SalaryMultiple)
	meetsPaymentRatio := ratio.Cmp(ceiling) <= 0

	// Reason order is fixed and part of the persisted record.
	var rejectionReasons []string
	if !meetsSeniority {
		rejectionReasons = append(rejectionReasons,
			fmt.Sprintf("Insufficient seniority (minimum %d months required)", business.MinSeniorityMonths))
	}
	if !meetsMaxAmount {
		rejectionReasons = append(rejectionReasons,
			fmt.Sprintf("Requested amount exceeds maximum allowed (%dx salary)", business.SalaryMultiple))
	}
	if !meetsPaymentRatio {
		rejectionReasons = append(rejectionReasons,
			fmt.Sprintf("Payment to income ratio exceeds %s%%", ceiling.Shift(2).String()))
	}
	if riskLevel == domain.RiskLevelHigh {
		rejectionReasons = append(rejectionReasons, "High risk score from central risk service")
	}

	decision := domain.DecisionApproved
	reason := domain.ReasonAllCriteriaMet
	if len(rejectionReasons) > 0 {
		decision = domain.DecisionRejected
		reason = strings.Join(rejectionReasons, "; ")
	}

	evaluation := &domain.RiskEvaluation{
		ID:                   uuid.New(),
		CreditApplicationID:  app.ID,
		Score:                score,
		RiskLevel:            riskLevel,
		PaymentToIncomeRatio: ratio,
		MeetsSeniority:       meetsSeniority,
		MeetsMaxAmount:       meetsMaxAmount,
		FinalDecision:        decision,
		Reason:               reason,
		RiskCentralDetail:    detail,
		CreatedAt:            now,
	}

	if decision == domain.DecisionApproved {
		app.Status = domain.ApplicationStatusApproved
	} else {
		app.Status = domain.ApplicationStatusRejected
	}

	if err := s.evalRepo.SaveWithDecision(ctx, evaluation, app); err != nil {
		var businessErr *customError.BusinessError
		if errors.As(err, &businessErr) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("credit application evaluated",
		zap.String("application_id", app.ID.String()),
		zap.Int("score", score),
		zap.String("risk_level", riskLevel),
		zap.String("decision", decision),
	)

	s.cacheEvaluation(ctx, evaluation)

	return evaluation, nil
}

// obtainRiskScore calls the external scorer and classifies the score with
// the configured bands. The remote tier hint is kept only inside the detail
// text. When the scorer is unreachable and the conservative fallback is
// enabled, a logged MEDIUM substitution is applied instead of failing.
func (s *EvaluationService) obtainRiskScore(ctx context.Context, document string, amount decimal.Decimal) (int, string, string, error) {
	result, err := s.scorer.Evaluate(ctx, document, amount)
	if err != nil {
		if s.config.RiskCentral.FallbackEnabled && errors.Is(err, riskcentral.ErrUnavailable) {
			s.logger.Warn("risk central unavailable, applying conservative MEDIUM fallback",
				zap.String("document", document),
				zap.Error(err),
			)
			return fallbackScore, domain.RiskLevelMedium, fallbackDetail, nil
		}
		return 0, "", "", customError.WrapRiskServiceUnavailable(err)
	}

	classifier := rules.Classifier{
		LowMin:    s.config.Business.RiskScoreLowMin,
		MediumMin: s.config.Business.RiskScoreMediumMin,
	}

	return result.Score, classifier.Classify(result.Score), result.Detail, nil
}

// GetByApplicationID returns the stored evaluation for an application,
// read through the cache. Evaluations are immutable, so a cached copy
// never goes stale.
func (s *EvaluationService) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.RiskEvaluation, error) {
	if cached := s.cachedEvaluation(ctx, applicationID); cached != nil {
		return cached, nil
	}

	evaluation, err := s.evalRepo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	s.cacheEvaluation(ctx, evaluation)

	return evaluation, nil
}

func (s *EvaluationService) cacheEvaluation(ctx context.Context, evaluation *domain.RiskEvaluation) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(evaluation)
	if err != nil {
		return
	}

	key := evaluationCacheKeyPrefix + evaluation.CreditApplicationID.String()
	if err := s.redis.Set(ctx, key, payload, evaluationCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache evaluation", zap.String("key", key), zap.Error(err))
	}
}

func (s *EvaluationService) cachedEvaluation(ctx context.Context, applicationID uuid.UUID) *domain.RiskEvaluation {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, evaluationCacheKeyPrefix+applicationID.String()).Bytes()
	if err != nil {
		return nil
	}

	var evaluation domain.RiskEvaluation
	if err := json.Unmarshal(payload, &evaluation); err != nil {
		return nil
	}

	return &evaluation
}
