package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coopcredit/credit-engine/internal/domain"
)

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	// Create inserts a new member
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// GetByDocument retrieves a member by its unique document
	GetByDocument(ctx context.Context, document string) (*domain.Member, error)

	// ExistsByDocument reports whether a member with the document exists
	ExistsByDocument(ctx context.Context, document string) (bool, error)

	// List retrieves all members
	List(ctx context.Context) ([]*domain.Member, error)

	// Update updates name, salary and status of a member
	Update(ctx context.Context, member *domain.Member) error

	// Delete removes a member by id
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditApplicationRepository defines the interface for application data operations
type CreditApplicationRepository interface {
	// Create inserts a new credit application
	Create(ctx context.Context, app *domain.CreditApplication) error

	// GetByID retrieves an application by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditApplication, error)

	// List retrieves all applications
	List(ctx context.Context) ([]*domain.CreditApplication, error)

	// ListByMemberID retrieves all applications for a member
	ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.CreditApplication, error)

	// ListByStatus retrieves all applications with the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.CreditApplication, error)

	// ListPendingOlderThan retrieves PENDING applications created before cutoff
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.CreditApplication, error)
}

// RiskEvaluationRepository defines the interface for evaluation data operations
type RiskEvaluationRepository interface {
	// ExistsByApplicationID reports whether an evaluation exists for the application
	ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error)

	// GetByApplicationID retrieves the evaluation for an application
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.RiskEvaluation, error)

	// SaveWithDecision inserts the evaluation and moves the application to its
	// final status in a single transaction. The unique constraint on
	// credit_application_id makes concurrent duplicate evaluations fail at
	// commit time with ErrAlreadyEvaluated.
	SaveWithDecision(ctx context.Context, eval *domain.RiskEvaluation, app *domain.CreditApplication) error
}

// UserRepository defines the interface for auth user data operations
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
