package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MemberStatusActive   = "ACTIVE"
	MemberStatusInactive = "INACTIVE"
)

// Member represents a cooperative affiliate eligible to request credit.
type Member struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Document        string          `json:"document" db:"document"`
	Name            string          `json:"name" db:"name"`
	Salary          decimal.Decimal `json:"salary" db:"salary"`
	AffiliationDate time.Time       `json:"affiliation_date" db:"affiliation_date"`
	Status          string          `json:"status" db:"status"`
	UserID          *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// SeniorityInMonths returns the whole calendar months elapsed between the
// affiliation date and now. Trailing fractional days are truncated, so a
// member affiliated today has seniority 0.
func (m *Member) SeniorityInMonths(now time.Time) int {
	affiliation := m.AffiliationDate
	months := (now.Year()-affiliation.Year())*12 + int(now.Month()) - int(affiliation.Month())
	if now.Day() < affiliation.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// MaxCreditAmount returns the maximum amount the member may request,
// as a multiple of the salary.
func (m *Member) MaxCreditAmount(salaryMultiple int64) decimal.Decimal {
	return m.Salary.Mul(decimal.NewFromInt(salaryMultiple))
}

func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// DTOs for requests and responses

type CreateMemberRequest struct {
	Document        string          `json:"document" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Salary          decimal.Decimal `json:"salary" validate:"required"`
	AffiliationDate string          `json:"affiliation_date" validate:"required,datetime=2006-01-02"`
}

type UpdateMemberRequest struct {
	Name   *string          `json:"name,omitempty"`
	Salary *decimal.Decimal `json:"salary,omitempty"`
	Status *string          `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
