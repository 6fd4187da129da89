package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ApplicationStatusPending  = "PENDING"
	ApplicationStatusApproved = "APPROVED"
	ApplicationStatusRejected = "REJECTED"
)

// CreditApplication represents a member's request for a loan amount,
// term and rate. Status moves from PENDING to APPROVED or REJECTED
// exactly once, driven by the evaluation service.
type CreditApplication struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	MemberID        uuid.UUID       `json:"member_id" db:"member_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount" db:"requested_amount"`
	TermMonths      int             `json:"term_months" db:"term_months"`
	ProposedRate    decimal.Decimal `json:"proposed_rate" db:"proposed_rate"`
	ApplicationDate time.Time       `json:"application_date" db:"application_date"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// MonthlyPayment calculates the periodic payment for the application:
// (principal + principal * rate * term) / term, rounded to 2 decimal
// places half-up.
func (a *CreditApplication) MonthlyPayment() decimal.Decimal {
	if a.TermMonths <= 0 {
		return decimal.Zero
	}
	term := decimal.NewFromInt(int64(a.TermMonths))
	totalInterest := a.RequestedAmount.Mul(a.ProposedRate).Mul(term)
	totalAmount := a.RequestedAmount.Add(totalInterest)
	return totalAmount.DivRound(term, 2)
}

func (a *CreditApplication) IsPending() bool {
	return a.Status == ApplicationStatusPending
}

// DTOs for requests and responses

type CreateApplicationRequest struct {
	MemberID        uuid.UUID       `json:"member_id" validate:"required"`
	RequestedAmount decimal.Decimal `json:"requested_amount" validate:"required"`
	TermMonths      int             `json:"term_months" validate:"required,gt=0"`
	ProposedRate    decimal.Decimal `json:"proposed_rate" validate:"required"`
}
