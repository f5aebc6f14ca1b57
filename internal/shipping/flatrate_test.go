package shipping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/bookworld/internal/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardParams() shipping.RateParams {
	return shipping.RateParams{
		Destination: shipping.Address{
			City:       "Pune",
			State:      "MH",
			PostalCode: "411001",
			Country:    "India",
		},
		SubtotalCents: 20000,
		ItemCount:     2,
	}
}

func TestFlatRateProvider_GetRates_SingleRate(t *testing.T) {
	provider := shipping.NewFlatRateProvider(shipping.StandardRates(shipping.DefaultFlatRateCents))

	result, err := provider.GetRates(context.Background(), standardParams())

	require.NoError(t, err)
	require.Len(t, result, 1)

	rate := result[0]
	assert.Equal(t, "STD", rate.RateID)
	assert.Equal(t, "Flat Rate", rate.Carrier)
	assert.Equal(t, "Standard Delivery", rate.ServiceName)
	assert.Equal(t, int64(5000), rate.CostCents)
	assert.Equal(t, 3, rate.EstimatedDaysMin)
	assert.Equal(t, 7, rate.EstimatedDaysMax)
	assert.True(t, rate.EstimatedDeliveryDate.After(time.Now()))
}

func TestFlatRateProvider_GetRates_MultipleRates(t *testing.T) {
	provider := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{ServiceName: "Express", ServiceCode: "EXP", CostCents: 15000, DaysMin: 1, DaysMax: 2},
		{ServiceName: "Standard", ServiceCode: "STD", CostCents: 5000, DaysMin: 3, DaysMax: 7},
	})

	result, err := provider.GetRates(context.Background(), standardParams())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "EXP", result[0].ServiceCode)
	assert.Equal(t, "STD", result[1].ServiceCode)

	cheapest, err := shipping.Cheapest(result)
	require.NoError(t, err)
	assert.Equal(t, "STD", cheapest.ServiceCode)
}

func TestFlatRateProvider_GetRates_FreeOverThreshold(t *testing.T) {
	provider := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{ServiceName: "Standard", ServiceCode: "STD", CostCents: 5000, DaysMax: 7, FreeOverCents: 50000},
	})

	params := standardParams()
	params.SubtotalCents = 49999
	result, err := provider.GetRates(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), result[0].CostCents)

	params.SubtotalCents = 50000
	result, err = provider.GetRates(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result[0].CostCents)
}

func TestFlatRateProvider_GetRates_EmptyRates(t *testing.T) {
	provider := shipping.NewFlatRateProvider(nil)

	_, err := provider.GetRates(context.Background(), standardParams())
	assert.True(t, errors.Is(err, shipping.ErrNoRates))
}

func TestFlatRateProvider_GetRates_RequiresItems(t *testing.T) {
	provider := shipping.NewFlatRateProvider(shipping.StandardRates(5000))

	params := standardParams()
	params.ItemCount = 0
	_, err := provider.GetRates(context.Background(), params)
	assert.True(t, errors.Is(err, shipping.ErrNoItems))

	var se *shipping.ShippingError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "invalid", se.ErrorCode())
	assert.Equal(t, "At least one item is required", se.ErrorMessage())
}

func TestFlatRateProvider_GetRates_IgnoresDestination(t *testing.T) {
	provider := shipping.NewFlatRateProvider(shipping.StandardRates(5000))

	domestic, err := provider.GetRates(context.Background(), standardParams())
	require.NoError(t, err)

	params := standardParams()
	params.Destination = shipping.Address{City: "Kathmandu", Country: "Nepal"}
	abroad, err := provider.GetRates(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, domestic[0].CostCents, abroad[0].CostCents)
}

func TestQuote(t *testing.T) {
	mock := shipping.NewMockProvider(4200)

	rate, err := shipping.Quote(context.Background(), mock, standardParams())
	require.NoError(t, err)
	assert.Equal(t, int64(4200), rate.CostCents)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, int64(2), mock.Calls[0].ItemCount)

	_, err = shipping.Cheapest(nil)
	assert.True(t, errors.Is(err, shipping.ErrNoRates))
}
