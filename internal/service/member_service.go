package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/repository"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

const affiliationDateLayout = "2006-01-02"

type MemberService struct {
	memberRepo repository.MemberRepository
	appRepo    repository.CreditApplicationRepository
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	appRepo repository.CreditApplicationRepository,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		appRepo:    appRepo,
	}
}

// Create registers a new member. The document is a unique natural key and
// the salary must be positive.
func (s *MemberService) Create(ctx context.Context, request *domain.CreateMemberRequest) (*domain.Member, error) {
	if request.Salary.Sign() <= 0 {
		return nil, customError.WrapValidationError(errors.New("salary must be greater than 0"))
	}

	affiliationDate, err := time.Parse(affiliationDateLayout, request.AffiliationDate)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	exists, err := s.memberRepo.ExistsByDocument(ctx, request.Document)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, customError.WrapConflict("Member", "document", request.Document)
	}

	now := time.Now()
	member := &domain.Member{
		ID:              uuid.New(),
		Document:        request.Document,
		Name:            request.Name,
		Salary:          request.Salary,
		AffiliationDate: affiliationDate,
		Status:          domain.MemberStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

func (s *MemberService) List(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return members, nil
}

// Update changes name, salary and status only. Document and affiliation
// date are immutable after creation.
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateMemberRequest) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		member.Name = *request.Name
	}
	if request.Salary != nil {
		if request.Salary.Sign() <= 0 {
			return nil, customError.WrapValidationError(errors.New("salary must be greater than 0"))
		}
		member.Salary = *request.Salary
	}
	if request.Status != nil {
		member.Status = *request.Status
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// Delete removes a member, refusing while any of its applications is
// PENDING or APPROVED. Members with only REJECTED applications can go.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	applications, err := s.appRepo.ListByMemberID(ctx, id)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, app := range applications {
		if app.Status == domain.ApplicationStatusPending || app.Status == domain.ApplicationStatusApproved {
			return customError.WrapMemberHasActiveApplications(member.ID.String())
		}
	}

	return s.memberRepo.Delete(ctx, id)
}
