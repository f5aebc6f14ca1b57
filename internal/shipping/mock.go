package shipping

import (
	"context"
)

// MockProvider is a test implementation of Provider.
type MockProvider struct {
	GetRatesFunc func(ctx context.Context, params RateParams) ([]Rate, error)
	Calls        []RateParams
}

// NewMockProvider returns a provider quoting a single rate of costCents.
func NewMockProvider(costCents int64) *MockProvider {
	return &MockProvider{
		GetRatesFunc: func(ctx context.Context, params RateParams) ([]Rate, error) {
			return []Rate{{RateID: "MOCK", Carrier: "Mock", ServiceCode: "MOCK", CostCents: costCents}}, nil
		},
	}
}

// GetRates records the call and delegates to GetRatesFunc.
func (m *MockProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	m.Calls = append(m.Calls, params)
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, params)
	}
	return nil, ErrNoRates
}
