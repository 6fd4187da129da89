package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coopcredit/credit-engine/internal/config"
	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/mocks"
	"github.com/coopcredit/credit-engine/internal/riskcentral"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			MinSeniorityMonths:  6,
			SalaryMultiple:      4,
			PaymentRatioCeiling: "0.40",
			RiskScoreLowMin:     701,
			RiskScoreMediumMin:  501,
		},
	}
}

func newEvaluationFixture(cfg *config.Config) (*EvaluationService, *mocks.MockCreditApplicationRepository, *mocks.MockMemberRepository, *mocks.MockRiskEvaluationRepository, *mocks.MockRiskScorer) {
	appRepo := new(mocks.MockCreditApplicationRepository)
	memberRepo := new(mocks.MockMemberRepository)
	evalRepo := new(mocks.MockRiskEvaluationRepository)
	scorer := new(mocks.MockRiskScorer)
	svc := NewEvaluationService(appRepo, memberRepo, evalRepo, scorer, nil, cfg, zap.NewNop())
	return svc, appRepo, memberRepo, evalRepo, scorer
}

func activeMember(salary string, affiliatedMonthsAgo int) *domain.Member {
	return &domain.Member{
		ID:              uuid.New(),
		Document:        "1234567890",
		Name:            "Ana Torres",
		Salary:          decimal.RequireFromString(salary),
		AffiliationDate: time.Now().AddDate(0, -affiliatedMonthsAgo, -1),
		Status:          domain.MemberStatusActive,
	}
}

func pendingApplication(memberID uuid.UUID, amount string, term int, rate string) *domain.CreditApplication {
	return &domain.CreditApplication{
		ID:              uuid.New(),
		MemberID:        memberID,
		RequestedAmount: decimal.RequireFromString(amount),
		TermMonths:      term,
		ProposedRate:    decimal.RequireFromString(rate),
		ApplicationDate: time.Now(),
		Status:          domain.ApplicationStatusPending,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name            string
		member          *domain.Member
		application     func(memberID uuid.UUID) *domain.CreditApplication
		score           int
		wantDecision    string
		wantRiskLevel   string
		wantReason      string
		reasonContains  []string
		wantAppStatus   string
	}{
		{
			name:   "all criteria met approves",
			member: activeMember("5000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "10000", 12, "0.015")
			},
			score:         750,
			wantDecision:  domain.DecisionApproved,
			wantRiskLevel: domain.RiskLevelLow,
			wantReason:    domain.ReasonAllCriteriaMet,
			wantAppStatus: domain.ApplicationStatusApproved,
		},
		{
			name:   "insufficient seniority rejects",
			member: activeMember("5000", 3),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "10000", 12, "0.015")
			},
			score:          750,
			wantDecision:   domain.DecisionRejected,
			wantRiskLevel:  domain.RiskLevelLow,
			reasonContains: []string{"Insufficient seniority (minimum 6 months required)"},
			wantAppStatus:  domain.ApplicationStatusRejected,
		},
		{
			name:   "amount above salary multiple rejects",
			member: activeMember("5000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "20000.01", 60, "0")
			},
			score:          750,
			wantDecision:   domain.DecisionRejected,
			wantRiskLevel:  domain.RiskLevelLow,
			reasonContains: []string{"Requested amount exceeds maximum allowed (4x salary)"},
			wantAppStatus:  domain.ApplicationStatusRejected,
		},
		{
			name:   "payment ratio above ceiling rejects",
			member: activeMember("2000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				// zero-rate payment of 1000 against salary 2000 is a 50% ratio
				return pendingApplication(memberID, "6000", 6, "0")
			},
			score:          750,
			wantDecision:   domain.DecisionRejected,
			wantRiskLevel:  domain.RiskLevelLow,
			reasonContains: []string{"Payment to income ratio exceeds 40%"},
			wantAppStatus:  domain.ApplicationStatusRejected,
		},
		{
			name:   "high risk score rejects",
			member: activeMember("5000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "10000", 12, "0.015")
			},
			score:          320,
			wantDecision:   domain.DecisionRejected,
			wantRiskLevel:  domain.RiskLevelHigh,
			reasonContains: []string{"High risk score from central risk service"},
			wantAppStatus:  domain.ApplicationStatusRejected,
		},
		{
			name:   "multiple violations accumulate in order",
			member: activeMember("2000", 3),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "12000", 6, "0")
			},
			score:         320,
			wantDecision:  domain.DecisionRejected,
			wantRiskLevel: domain.RiskLevelHigh,
			reasonContains: []string{
				"Insufficient seniority (minimum 6 months required); " +
					"Requested amount exceeds maximum allowed (4x salary); " +
					"Payment to income ratio exceeds 40%; " +
					"High risk score from central risk service",
			},
			wantAppStatus: domain.ApplicationStatusRejected,
		},
		{
			name:   "boundary amount at exactly four times salary approves",
			member: activeMember("5000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "20000", 60, "0")
			},
			score:         750,
			wantDecision:  domain.DecisionApproved,
			wantRiskLevel: domain.RiskLevelLow,
			wantReason:    domain.ReasonAllCriteriaMet,
			wantAppStatus: domain.ApplicationStatusApproved,
		},
		{
			name:   "medium score alone does not reject",
			member: activeMember("5000", 24),
			application: func(memberID uuid.UUID) *domain.CreditApplication {
				return pendingApplication(memberID, "10000", 12, "0.015")
			},
			score:         600,
			wantDecision:  domain.DecisionApproved,
			wantRiskLevel: domain.RiskLevelMedium,
			wantReason:    domain.ReasonAllCriteriaMet,
			wantAppStatus: domain.ApplicationStatusApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(testConfig())

			app := tt.application(tt.member.ID)

			evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
			appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			memberRepo.On("GetByID", mock.Anything, tt.member.ID).Return(tt.member, nil)
			scorer.On("Evaluate", mock.Anything, tt.member.Document, app.RequestedAmount).
				Return(&riskcentral.Evaluation{Score: tt.score, RiskLevel: "IGNORED", Detail: "remote detail"}, nil)
			evalRepo.On("SaveWithDecision", mock.Anything,
				mock.AnythingOfType("*domain.RiskEvaluation"),
				mock.MatchedBy(func(saved *domain.CreditApplication) bool {
					return saved.Status == tt.wantAppStatus
				})).Return(nil)

			evaluation, err := svc.Evaluate(context.Background(), app.ID)
			require.NoError(t, err)
			require.NotNil(t, evaluation)

			assert.Equal(t, app.ID, evaluation.CreditApplicationID)
			assert.Equal(t, tt.score, evaluation.Score)
			assert.Equal(t, tt.wantRiskLevel, evaluation.RiskLevel)
			assert.Equal(t, tt.wantDecision, evaluation.FinalDecision)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, evaluation.Reason)
			}
			for _, fragment := range tt.reasonContains {
				assert.Contains(t, evaluation.Reason, fragment)
			}
			assert.Equal(t, "remote detail", evaluation.RiskCentralDetail)

			evalRepo.AssertExpectations(t)
			appRepo.AssertExpectations(t)
			memberRepo.AssertExpectations(t)
			scorer.AssertExpectations(t)
		})
	}
}

func TestEvaluateRatioPrecision(t *testing.T) {
	svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	scorer.On("Evaluate", mock.Anything, member.Document, app.RequestedAmount).
		Return(&riskcentral.Evaluation{Score: 750, RiskLevel: "LOW", Detail: "ok"}, nil)
	evalRepo.On("SaveWithDecision", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	require.NoError(t, err)

	// payment 983.33 against salary 5000, four decimal places half-up
	assert.True(t, evaluation.PaymentToIncomeRatio.Equal(decimal.RequireFromString("0.1967")),
		"got %s", evaluation.PaymentToIncomeRatio)
	assert.True(t, evaluation.MeetsSeniority)
	assert.True(t, evaluation.MeetsMaxAmount)
}

func TestEvaluateAlreadyEvaluated(t *testing.T) {
	svc, _, _, evalRepo, _ := newEvaluationFixture(testConfig())

	applicationID := uuid.New()
	evalRepo.On("ExistsByApplicationID", mock.Anything, applicationID).Return(true, nil)

	evaluation, err := svc.Evaluate(context.Background(), applicationID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrAlreadyEvaluated)
}

func TestEvaluateApplicationNotFound(t *testing.T) {
	svc, appRepo, _, evalRepo, _ := newEvaluationFixture(testConfig())

	applicationID := uuid.New()
	evalRepo.On("ExistsByApplicationID", mock.Anything, applicationID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, applicationID).
		Return(nil, customError.WrapNotFound("Credit application", "id", applicationID))

	evaluation, err := svc.Evaluate(context.Background(), applicationID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestEvaluateNotPending(t *testing.T) {
	svc, appRepo, _, evalRepo, _ := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")
	app.Status = domain.ApplicationStatusRejected

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrNotPending)
}

func TestEvaluateMemberNotFound(t *testing.T) {
	svc, appRepo, memberRepo, evalRepo, _ := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).
		Return(nil, customError.WrapNotFound("Member", "id", member.ID))

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestEvaluateScorerUnavailable(t *testing.T) {
	svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	scorer.On("Evaluate", mock.Anything, member.Document, app.RequestedAmount).
		Return(nil, riskcentral.ErrUnavailable)

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrRiskServiceUnavailable)

	// no write must happen when the scorer fails without fallback
	evalRepo.AssertNotCalled(t, "SaveWithDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateFallbackEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.RiskCentral.FallbackEnabled = true
	svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(cfg)

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	scorer.On("Evaluate", mock.Anything, member.Document, app.RequestedAmount).
		Return(nil, riskcentral.ErrUnavailable)
	evalRepo.On("SaveWithDecision", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	require.NoError(t, err)

	assert.Equal(t, 600, evaluation.Score)
	assert.Equal(t, domain.RiskLevelMedium, evaluation.RiskLevel)
	assert.Equal(t, "Risk Central service unavailable - using default evaluation", evaluation.RiskCentralDetail)
	// MEDIUM substitution is conservative but not a rejection by itself
	assert.Equal(t, domain.DecisionApproved, evaluation.FinalDecision)
}

func TestEvaluateConcurrentLoser(t *testing.T) {
	svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	scorer.On("Evaluate", mock.Anything, member.Document, app.RequestedAmount).
		Return(&riskcentral.Evaluation{Score: 750, RiskLevel: "LOW", Detail: "ok"}, nil)
	// a concurrent evaluation won the unique constraint race at commit time
	evalRepo.On("SaveWithDecision", mock.Anything, mock.Anything, mock.Anything).
		Return(customError.WrapAlreadyEvaluated(app.ID.String()))

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrAlreadyEvaluated)
}

func TestEvaluateSaveFailure(t *testing.T) {
	svc, appRepo, memberRepo, evalRepo, scorer := newEvaluationFixture(testConfig())

	member := activeMember("5000", 24)
	app := pendingApplication(member.ID, "10000", 12, "0.015")

	evalRepo.On("ExistsByApplicationID", mock.Anything, app.ID).Return(false, nil)
	appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	memberRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	scorer.On("Evaluate", mock.Anything, member.Document, app.RequestedAmount).
		Return(&riskcentral.Evaluation{Score: 750, RiskLevel: "LOW", Detail: "ok"}, nil)
	evalRepo.On("SaveWithDecision", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	evaluation, err := svc.Evaluate(context.Background(), app.ID)
	assert.Nil(t, evaluation)

	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeDatabaseError, businessErr.Code)
}

func TestGetByApplicationID(t *testing.T) {
	svc, _, _, evalRepo, _ := newEvaluationFixture(testConfig())

	applicationID := uuid.New()
	stored := &domain.RiskEvaluation{
		ID:                  uuid.New(),
		CreditApplicationID: applicationID,
		Score:               720,
		RiskLevel:           domain.RiskLevelMedium,
		FinalDecision:       domain.DecisionApproved,
		Reason:              domain.ReasonAllCriteriaMet,
	}
	evalRepo.On("GetByApplicationID", mock.Anything, applicationID).Return(stored, nil)

	evaluation, err := svc.GetByApplicationID(context.Background(), applicationID)
	require.NoError(t, err)
	assert.Equal(t, stored, evaluation)
}

func TestGetByApplicationIDNotFound(t *testing.T) {
	svc, _, _, evalRepo, _ := newEvaluationFixture(testConfig())

	applicationID := uuid.New()
	evalRepo.On("GetByApplicationID", mock.Anything, applicationID).
		Return(nil, customError.WrapNotFound("Risk evaluation", "credit_application_id", applicationID))

	evaluation, err := svc.GetByApplicationID(context.Background(), applicationID)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, customError.ErrNotFound)
}
