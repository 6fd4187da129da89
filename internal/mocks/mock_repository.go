package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/coopcredit/credit-engine/internal/domain"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByDocument(ctx context.Context, document string) (*domain.Member, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	args := m.Called(ctx, document)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCreditApplicationRepository struct {
	mock.Mock
}

func (m *MockCreditApplicationRepository) Create(ctx context.Context, app *domain.CreditApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockCreditApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditApplication), args.Error(1)
}

func (m *MockCreditApplicationRepository) List(ctx context.Context) ([]*domain.CreditApplication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditApplication), args.Error(1)
}

func (m *MockCreditApplicationRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.CreditApplication, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditApplication), args.Error(1)
}

func (m *MockCreditApplicationRepository) ListByStatus(ctx context.Context, status string) ([]*domain.CreditApplication, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditApplication), args.Error(1)
}

func (m *MockCreditApplicationRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.CreditApplication, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditApplication), args.Error(1)
}

type MockRiskEvaluationRepository struct {
	mock.Mock
}

func (m *MockRiskEvaluationRepository) ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, applicationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRiskEvaluationRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.RiskEvaluation, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskEvaluation), args.Error(1)
}

func (m *MockRiskEvaluationRepository) SaveWithDecision(ctx context.Context, eval *domain.RiskEvaluation, app *domain.CreditApplication) error {
	args := m.Called(ctx, eval, app)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
