package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// ReasonAllCriteriaMet is the stored reason when an application is approved.
const ReasonAllCriteriaMet = "All criteria met"

// RiskEvaluation is the one-time automated decision record for a credit
// application. At most one evaluation exists per application, enforced by
// a unique constraint on credit_application_id. Immutable once created.
type RiskEvaluation struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	CreditApplicationID  uuid.UUID       `json:"credit_application_id" db:"credit_application_id"`
	Score                int             `json:"score" db:"score"`
	RiskLevel            string          `json:"risk_level" db:"risk_level"`
	PaymentToIncomeRatio decimal.Decimal `json:"payment_to_income_ratio" db:"payment_to_income_ratio"`
	MeetsSeniority       bool            `json:"meets_seniority" db:"meets_seniority"`
	MeetsMaxAmount       bool            `json:"meets_max_amount" db:"meets_max_amount"`
	FinalDecision        string          `json:"final_decision" db:"final_decision"`
	Reason               string          `json:"reason" db:"reason"`
	RiskCentralDetail    string          `json:"risk_central_detail" db:"risk_central_detail"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

func (e *RiskEvaluation) IsApproved() bool {
	return e.FinalDecision == DecisionApproved
}
