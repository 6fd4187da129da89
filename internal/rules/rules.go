// Package rules contains the pure eligibility predicates and the risk
// classifier used by the credit evaluation service. Nothing here performs
// I/O or holds state; every function is deterministic over its inputs.
package rules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/credit-engine/internal/domain"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

// ratioPrecision is the number of decimal places kept for the
// payment-to-income ratio.
const ratioPrecision = 4

// MeetsSeniority reports whether the member has been affiliated for at
// least minMonths whole calendar months as of now.
func MeetsSeniority(member *domain.Member, now time.Time, minMonths int) bool {
	return member.SeniorityInMonths(now) >= minMonths
}

// MeetsMaxAmount reports whether the requested amount is within the
// member's credit ceiling (salary times salaryMultiple). The boundary is
// inclusive: exactly salaryMultiple times the salary passes.
func MeetsMaxAmount(member *domain.Member, app *domain.CreditApplication, salaryMultiple int64) bool {
	return app.RequestedAmount.Cmp(member.MaxCreditAmount(salaryMultiple)) <= 0
}

// PaymentToIncomeRatio returns the application's monthly payment divided
// by the member's salary, rounded to 4 decimal places half-up. Member
// creation guarantees a positive salary, so the zero-salary branch is a
// defensive guard rather than an expected path.
func PaymentToIncomeRatio(member *domain.Member, app *domain.CreditApplication) (decimal.Decimal, error) {
	if member.Salary.IsZero() {
		return decimal.Zero, customError.WrapDivisionByZeroSalary(member.ID.String())
	}
	return app.MonthlyPayment().DivRound(member.Salary, ratioPrecision), nil
}

// Classifier maps an external credit score to a discrete risk tier. The
// band thresholds are deployment configuration; the evaluation service
// never hardcodes a banding.
type Classifier struct {
	LowMin    int // lowest score classified LOW
	MediumMin int // lowest score classified MEDIUM
}

// Classify is total over all integers the scorer can return: scores at or
// above LowMin are LOW, at or above MediumMin are MEDIUM, everything else
// is HIGH.
func (c Classifier) Classify(score int) string {
	switch {
	case score >= c.LowMin:
		return domain.RiskLevelLow
	case score >= c.MediumMin:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelHigh
	}
}
