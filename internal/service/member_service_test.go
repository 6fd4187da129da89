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

	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/mocks"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

func TestCreateMember(t *testing.T) {
	tests := []struct {
		name          string
		request       *domain.CreateMemberRequest
		setupMocks    func(*mocks.MockMemberRepository)
		expectedError bool
		errorIs       error
	}{
		{
			name: "Success - valid member",
			request: &domain.CreateMemberRequest{
				Document:        "1234567890",
				Name:            "Ana Torres",
				Salary:          decimal.RequireFromString("5000"),
				AffiliationDate: "2024-01-15",
			},
			setupMocks: func(memberRepo *mocks.MockMemberRepository) {
				memberRepo.On("ExistsByDocument", mock.Anything, "1234567890").Return(false, nil)
				memberRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Member) bool {
					return m.Document == "1234567890" && m.Status == domain.MemberStatusActive
				})).Return(nil)
			},
		},
		{
			name: "Failure - non-positive salary",
			request: &domain.CreateMemberRequest{
				Document:        "1234567890",
				Name:            "Ana Torres",
				Salary:          decimal.Zero,
				AffiliationDate: "2024-01-15",
			},
			setupMocks:    func(memberRepo *mocks.MockMemberRepository) {},
			expectedError: true,
		},
		{
			name: "Failure - malformed affiliation date",
			request: &domain.CreateMemberRequest{
				Document:        "1234567890",
				Name:            "Ana Torres",
				Salary:          decimal.RequireFromString("5000"),
				AffiliationDate: "15/01/2024",
			},
			setupMocks:    func(memberRepo *mocks.MockMemberRepository) {},
			expectedError: true,
		},
		{
			name: "Failure - duplicate document",
			request: &domain.CreateMemberRequest{
				Document:        "1234567890",
				Name:            "Ana Torres",
				Salary:          decimal.RequireFromString("5000"),
				AffiliationDate: "2024-01-15",
			},
			setupMocks: func(memberRepo *mocks.MockMemberRepository) {
				memberRepo.On("ExistsByDocument", mock.Anything, "1234567890").Return(true, nil)
			},
			expectedError: true,
			errorIs:       customError.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memberRepo := new(mocks.MockMemberRepository)
			appRepo := new(mocks.MockCreditApplicationRepository)
			tt.setupMocks(memberRepo)

			svc := NewMemberService(memberRepo, appRepo)
			member, err := svc.Create(context.Background(), tt.request)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, member)
				if tt.errorIs != nil {
					assert.ErrorIs(t, err, tt.errorIs)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, member)
				assert.Equal(t, tt.request.Document, member.Document)
				assert.Equal(t, domain.MemberStatusActive, member.Status)
				assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), member.AffiliationDate)
			}

			memberRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateMember(t *testing.T) {
	memberID := uuid.New()
	existing := &domain.Member{
		ID:       memberID,
		Document: "1234567890",
		Name:     "Ana Torres",
		Salary:   decimal.RequireFromString("5000"),
		Status:   domain.MemberStatusActive,
	}

	newName := "Ana Maria Torres"
	newSalary := decimal.RequireFromString("6500")
	inactive := domain.MemberStatusInactive

	memberRepo := new(mocks.MockMemberRepository)
	appRepo := new(mocks.MockCreditApplicationRepository)
	memberRepo.On("GetByID", mock.Anything, memberID).Return(existing, nil)
	memberRepo.On("Update", mock.Anything, mock.MatchedBy(func(m *domain.Member) bool {
		return m.Name == newName && m.Salary.Equal(newSalary) && m.Status == inactive
	})).Return(nil)

	svc := NewMemberService(memberRepo, appRepo)
	member, err := svc.Update(context.Background(), memberID, &domain.UpdateMemberRequest{
		Name:   &newName,
		Salary: &newSalary,
		Status: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, newName, member.Name)
	memberRepo.AssertExpectations(t)
}

func TestUpdateMemberRejectsNonPositiveSalary(t *testing.T) {
	memberID := uuid.New()
	memberRepo := new(mocks.MockMemberRepository)
	appRepo := new(mocks.MockCreditApplicationRepository)
	memberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID}, nil)

	badSalary := decimal.RequireFromString("-100")
	svc := NewMemberService(memberRepo, appRepo)
	_, err := svc.Update(context.Background(), memberID, &domain.UpdateMemberRequest{Salary: &badSalary})

	assert.Error(t, err)
	memberRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteMember(t *testing.T) {
	tests := []struct {
		name          string
		applications  []*domain.CreditApplication
		expectDeleted bool
		errorIs       error
	}{
		{
			name:          "no applications",
			applications:  nil,
			expectDeleted: true,
		},
		{
			name: "only rejected applications",
			applications: []*domain.CreditApplication{
				{Status: domain.ApplicationStatusRejected},
			},
			expectDeleted: true,
		},
		{
			name: "pending application blocks deletion",
			applications: []*domain.CreditApplication{
				{Status: domain.ApplicationStatusPending},
			},
			errorIs: customError.ErrMemberHasActiveApps,
		},
		{
			name: "approved application blocks deletion",
			applications: []*domain.CreditApplication{
				{Status: domain.ApplicationStatusRejected},
				{Status: domain.ApplicationStatusApproved},
			},
			errorIs: customError.ErrMemberHasActiveApps,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memberID := uuid.New()
			memberRepo := new(mocks.MockMemberRepository)
			appRepo := new(mocks.MockCreditApplicationRepository)

			memberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID}, nil)
			appRepo.On("ListByMemberID", mock.Anything, memberID).Return(tt.applications, nil)
			if tt.expectDeleted {
				memberRepo.On("Delete", mock.Anything, memberID).Return(nil)
			}

			svc := NewMemberService(memberRepo, appRepo)
			err := svc.Delete(context.Background(), memberID)

			if tt.expectDeleted {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.errorIs)
				memberRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
			memberRepo.AssertExpectations(t)
			appRepo.AssertExpectations(t)
		})
	}
}

func TestGetMemberNotFound(t *testing.T) {
	memberID := uuid.New()
	memberRepo := new(mocks.MockMemberRepository)
	appRepo := new(mocks.MockCreditApplicationRepository)
	memberRepo.On("GetByID", mock.Anything, memberID).
		Return(nil, customError.WrapNotFound("Member", "id", memberID))

	svc := NewMemberService(memberRepo, appRepo)
	member, err := svc.Get(context.Background(), memberID)

	assert.Nil(t, member)
	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestListMembersDatabaseError(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	appRepo := new(mocks.MockCreditApplicationRepository)
	memberRepo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewMemberService(memberRepo, appRepo)
	members, err := svc.List(context.Background())

	assert.Nil(t, members)
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeDatabaseError, businessErr.Code)
}
