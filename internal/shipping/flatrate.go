package shipping

import (
	"context"
	"time"
)

// DefaultFlatRateCents is the standard delivery charge (₹50).
const DefaultFlatRateCents = 5000

// FlatRateProvider returns predefined flat-rate shipping options.
type FlatRateProvider struct {
	rates []FlatRate
	now   func() time.Time
}

// FlatRate defines a single flat-rate shipping option.
type FlatRate struct {
	ServiceName string
	ServiceCode string
	CostCents   int64
	DaysMin     int
	DaysMax     int

	// FreeOverCents waives the charge when the subtotal reaches it. Zero disables.
	FreeOverCents int64
}

// NewFlatRateProvider creates a new flat-rate shipping provider.
func NewFlatRateProvider(rates []FlatRate) Provider {
	return &FlatRateProvider{rates: rates, now: time.Now}
}

// StandardRates is the single standard delivery option at costCents.
func StandardRates(costCents int64) []FlatRate {
	return []FlatRate{{
		ServiceName: "Standard Delivery",
		ServiceCode: "STD",
		CostCents:   costCents,
		DaysMin:     3,
		DaysMax:     7,
	}}
}

// GetRates converts flat rates to Rate objects.
func (p *FlatRateProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if params.ItemCount <= 0 {
		return nil, ErrNoItems
	}
	if len(p.rates) == 0 {
		return nil, ErrNoRates
	}

	now := p.now()
	result := make([]Rate, len(p.rates))
	for i, fr := range p.rates {
		cost := fr.CostCents
		if fr.FreeOverCents > 0 && params.SubtotalCents >= fr.FreeOverCents {
			cost = 0
		}
		result[i] = Rate{
			RateID:                fr.ServiceCode,
			Carrier:               "Flat Rate",
			ServiceName:           fr.ServiceName,
			ServiceCode:           fr.ServiceCode,
			CostCents:             cost,
			EstimatedDaysMin:      fr.DaysMin,
			EstimatedDaysMax:      fr.DaysMax,
			EstimatedDeliveryDate: now.AddDate(0, 0, fr.DaysMax),
		}
	}
	return result, nil
}
