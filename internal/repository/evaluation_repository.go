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

type riskEvaluationRepository struct {
	db *sqlx.DB
}

func NewRiskEvaluationRepository(db *sqlx.DB) RiskEvaluationRepository {
	return &riskEvaluationRepository{db: db}
}

func (r *riskEvaluationRepository) ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM risk_evaluations WHERE credit_application_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, applicationID); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *riskEvaluationRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.RiskEvaluation, error) {
	query := `
		SELECT id, credit_application_id, score, risk_level, payment_to_income_ratio,
		       meets_seniority, meets_max_amount, final_decision, reason, risk_central_detail, created_at
		FROM risk_evaluations
		WHERE credit_application_id = $1
	`

	var eval domain.RiskEvaluation
	err := r.db.GetContext(ctx, &eval, query, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapNotFound("RiskEvaluation", "credit_application_id", applicationID)
	}
	if err != nil {
		return nil, err
	}

	return &eval, nil
}

// SaveWithDecision writes the evaluation and the application's final status
// as one transaction. The pre-read existence check in the evaluation service
// is only a fast path: the unique constraint on credit_application_id is
// what actually guarantees at-most-one evaluation under concurrency, so the
// losing writer of a race sees ErrAlreadyEvaluated here at commit time.
func (r *riskEvaluationRepository) SaveWithDecision(ctx context.Context, eval *domain.RiskEvaluation, app *domain.CreditApplication) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO risk_evaluations (id, credit_application_id, score, risk_level, payment_to_income_ratio,
		                              meets_seniority, meets_max_amount, final_decision, reason, risk_central_detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		eval.ID,
		eval.CreditApplicationID,
		eval.Score,
		eval.RiskLevel,
		eval.PaymentToIncomeRatio,
		eval.MeetsSeniority,
		eval.MeetsMaxAmount,
		eval.FinalDecision,
		eval.Reason,
		eval.RiskCentralDetail,
		eval.CreatedAt,
	)
	if isUniqueViolation(err, "risk_evaluations_application_key") {
		return customError.WrapAlreadyEvaluated(eval.CreditApplicationID.String())
	}
	if err != nil {
		return err
	}

	updateQuery := `
		UPDATE credit_applications
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := tx.ExecContext(ctx, updateQuery,
		app.ID,
		app.Status,
		time.Now(),
		domain.ApplicationStatusPending,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Application left PENDING between the precondition check and here.
		return customError.WrapNotPending(app.ID.String(), "unknown")
	}

	return tx.Commit()
}
