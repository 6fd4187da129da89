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

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, document, name, salary, affiliation_date, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.Document,
		member.Name,
		member.Salary,
		member.AffiliationDate,
		member.Status,
		member.UserID,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if isUniqueViolation(err, "members_document_key") {
		return customError.WrapConflict("Member", "document", member.Document)
	}

	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT id, document, name, salary, affiliation_date, status, user_id, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var member domain.Member
	err := r.db.GetContext(ctx, &member, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapNotFound("Member", "id", id)
	}
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) GetByDocument(ctx context.Context, document string) (*domain.Member, error) {
	query := `
		SELECT id, document, name, salary, affiliation_date, status, user_id, created_at, updated_at
		FROM members
		WHERE document = $1
	`

	var member domain.Member
	err := r.db.GetContext(ctx, &member, query, document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapNotFound("Member", "document", document)
	}
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM members WHERE document = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, document); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *memberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT id, document, name, salary, affiliation_date, status, user_id, created_at, updated_at
		FROM members
		ORDER BY created_at
	`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET name = $2, salary = $3, status = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Salary,
		member.Status,
		time.Now(),
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.WrapNotFound("Member", "id", member.ID)
	}

	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.WrapNotFound("Member", "id", id)
	}

	return nil
}
