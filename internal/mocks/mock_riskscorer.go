package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/coopcredit/credit-engine/internal/riskcentral"
)

type MockRiskScorer struct {
	mock.Mock
}

func (m *MockRiskScorer) Evaluate(ctx context.Context, document string, requestedAmount decimal.Decimal) (*riskcentral.Evaluation, error) {
	args := m.Called(ctx, document, requestedAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riskcentral.Evaluation), args.Error(1)
}
