package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/coopcredit/credit-engine/internal/config"
	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/repository"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

type ApplicationService struct {
	appRepo    repository.CreditApplicationRepository
	memberRepo repository.MemberRepository
	config     *config.Config
}

func NewApplicationService(
	appRepo repository.CreditApplicationRepository,
	memberRepo repository.MemberRepository,
	config *config.Config,
) *ApplicationService {
	return &ApplicationService{
		appRepo:    appRepo,
		memberRepo: memberRepo,
		config:     config,
	}
}

// Create registers a new PENDING credit application. The owning member
// must exist, be ACTIVE and already meet the minimum seniority.
func (s *ApplicationService) Create(ctx context.Context, request *domain.CreateApplicationRequest) (*domain.CreditApplication, error) {
	if request.RequestedAmount.Sign() <= 0 {
		return nil, customError.WrapValidationError(errors.New("requested amount must be greater than 0"))
	}
	if request.ProposedRate.Sign() < 0 {
		return nil, customError.WrapValidationError(errors.New("proposed rate must not be negative"))
	}

	member, err := s.memberRepo.GetByID(ctx, request.MemberID)
	if err != nil {
		return nil, err
	}

	if !member.IsActive() {
		return nil, customError.WrapMemberInactive(member.ID.String())
	}

	minSeniority := s.config.Business.MinSeniorityMonths
	if member.SeniorityInMonths(time.Now()) < minSeniority {
		return nil, customError.WrapInsufficientSeniority(member.ID.String(), minSeniority)
	}

	now := time.Now()
	app := &domain.CreditApplication{
		ID:              uuid.New(),
		MemberID:        request.MemberID,
		RequestedAmount: request.RequestedAmount,
		TermMonths:      request.TermMonths,
		ProposedRate:    request.ProposedRate,
		ApplicationDate: now,
		Status:          domain.ApplicationStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*domain.CreditApplication, error) {
	return s.appRepo.GetByID(ctx, id)
}

// List returns applications, optionally filtered by member or status.
// A member filter takes precedence over a status filter.
func (s *ApplicationService) List(ctx context.Context, memberID *uuid.UUID, status string) ([]*domain.CreditApplication, error) {
	var (
		apps []*domain.CreditApplication
		err  error
	)

	switch {
	case memberID != nil:
		apps, err = s.appRepo.ListByMemberID(ctx, *memberID)
	case status != "":
		apps, err = s.appRepo.ListByStatus(ctx, status)
	default:
		apps, err = s.appRepo.List(ctx)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return apps, nil
}
