package shipping

import (
	"context"
	"time"
)

// Provider quotes delivery options for an order.
type Provider interface {
	// GetRates returns available shipping options for a shipment.
	GetRates(ctx context.Context, params RateParams) ([]Rate, error)
}

// RateParams describes the shipment being quoted.
type RateParams struct {
	Destination   Address
	SubtotalCents int64
	ItemCount     int64
}

// Address is the delivery destination.
type Address struct {
	City       string
	State      string
	PostalCode string
	Country    string
}

// Rate represents a shipping rate option.
type Rate struct {
	RateID                string
	Carrier               string
	ServiceName           string
	ServiceCode           string
	CostCents             int64
	EstimatedDaysMin      int
	EstimatedDaysMax      int
	EstimatedDeliveryDate time.Time
}

// Cheapest returns the lowest cost rate, preferring the earlier entry on ties.
func Cheapest(rates []Rate) (Rate, error) {
	if len(rates) == 0 {
		return Rate{}, ErrNoRates
	}
	best := rates[0]
	for _, r := range rates[1:] {
		if r.CostCents < best.CostCents {
			best = r
		}
	}
	return best, nil
}

// Quote fetches rates from p and returns the cheapest.
func Quote(ctx context.Context, p Provider, params RateParams) (Rate, error) {
	rates, err := p.GetRates(ctx, params)
	if err != nil {
		return Rate{}, err
	}
	return Cheapest(rates)
}
