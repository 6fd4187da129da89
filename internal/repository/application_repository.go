package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coopcredit/credit-engine/internal/domain"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

type creditApplicationRepository struct {
	db *sqlx.DB
}

func NewCreditApplicationRepository(db *sqlx.DB) CreditApplicationRepository {
	return &creditApplicationRepository{db: db}
}

const applicationColumns = `
	id, member_id, requested_amount, term_months, proposed_rate, application_date, status, created_at, updated_at
`

func (r *creditApplicationRepository) Create(ctx context.Context, app *domain.CreditApplication) error {
	query := `
		INSERT INTO credit_applications (id, member_id, requested_amount, term_months, proposed_rate, application_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.MemberID,
		app.RequestedAmount,
		app.TermMonths,
		app.ProposedRate,
		app.ApplicationDate,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)

	return err
}

func (r *creditApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE id = $1`

	var app domain.CreditApplication
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapNotFound("CreditApplication", "id", id)
	}
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (r *creditApplicationRepository) List(ctx context.Context) ([]*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications ORDER BY created_at`

	var apps []*domain.CreditApplication
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *creditApplicationRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE member_id = $1 ORDER BY created_at`

	var apps []*domain.CreditApplication
	if err := r.db.SelectContext(ctx, &apps, query, memberID); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *creditApplicationRepository) ListByStatus(ctx context.Context, status string) ([]*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE status = $1 ORDER BY created_at`

	var apps []*domain.CreditApplication
	if err := r.db.SelectContext(ctx, &apps, query, status); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *creditApplicationRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE status = $1 AND created_at < $2 ORDER BY created_at`

	var apps []*domain.CreditApplication
	if err := r.db.SelectContext(ctx, &apps, query, domain.ApplicationStatusPending, cutoff); err != nil {
		return nil, err
	}

	return apps, nil
}
