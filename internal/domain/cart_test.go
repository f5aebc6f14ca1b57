package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Totals(t *testing.T) {
	c := &Cart{Lines: []CartLine{
		{BookID: uuid.New(), Quantity: 2, PriceCents: 10000},
		{BookID: uuid.New(), Quantity: 1, PriceCents: 45050},
		{BookID: uuid.New(), Quantity: 3, PriceCents: 0},
	}}

	assert.Equal(t, int64(65050), c.Subtotal())
	assert.Equal(t, int64(6), c.ItemCount())
	assert.False(t, c.IsEmpty())
}

func TestCart_Empty(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Subtotal())
	assert.Equal(t, int64(0), c.ItemCount())
	assert.True(t, c.IsEmpty())
}

func TestCart_ItemCountDoesNotWrap(t *testing.T) {
	c := &Cart{Lines: []CartLine{
		{BookID: uuid.New(), Quantity: 1 << 30},
		{BookID: uuid.New(), Quantity: 1 << 30},
	}}
	assert.Equal(t, int64(1<<31), c.ItemCount())
}

func TestCheckLineQuantity(t *testing.T) {
	assert.NoError(t, CheckLineQuantity(1))
	assert.NoError(t, CheckLineQuantity(MaxLineQuantity))
	assert.ErrorIs(t, CheckLineQuantity(0), ErrInvalidQuantity)
	assert.ErrorIs(t, CheckLineQuantity(-3), ErrInvalidQuantity)
	assert.ErrorIs(t, CheckLineQuantity(MaxLineQuantity+1), ErrQuantityTooLarge)
	assert.ErrorIs(t, CheckLineQuantity(1<<31), ErrQuantityTooLarge)
	assert.Equal(t, EINVALID, ErrorCode(CheckLineQuantity(1<<31)))
}

func TestSummarize_ReportsPriceDrift(t *testing.T) {
	changed := uuid.New()
	same := uuid.New()
	gone := uuid.New()
	c := &Cart{Lines: []CartLine{
		{BookID: changed, Quantity: 1, PriceCents: 10000},
		{BookID: same, Quantity: 2, PriceCents: 5000},
		{BookID: gone, Quantity: 1, PriceCents: 3000},
	}}
	current := map[uuid.UUID]*Book{
		changed: {ID: changed, PriceCents: 12000, Stock: 10},
		same:    {ID: same, PriceCents: 5000, Stock: 1},
	}

	s := Summarize(c, current)
	require.Len(t, s.Items, 3)

	assert.True(t, s.Items[0].PriceChanged)
	assert.Equal(t, int32(12000), s.Items[0].CurrentPriceCents)
	assert.True(t, s.Items[0].Available)

	assert.False(t, s.Items[1].PriceChanged)
	assert.False(t, s.Items[1].Available, "two requested, one in stock")

	assert.False(t, s.Items[2].Available)

	// totals always use the snapshot price
	assert.Equal(t, int64(23000), s.SubtotalCents)
	assert.Equal(t, int64(4), s.ItemCount)
}

func TestBookFilter_Normalize(t *testing.T) {
	f := BookFilter{Sort: "bogus", Page: 0, Limit: 1000}
	f.Normalize()
	assert.Equal(t, SortNewest, f.Sort)
	assert.Equal(t, int32(1), f.Page)
	assert.Equal(t, int32(MaxPageSize), f.Limit)

	f = BookFilter{Page: 3, Limit: 10}
	f.Normalize()
	assert.Equal(t, int32(20), f.Offset())
}

func TestBookPage_Pages(t *testing.T) {
	assert.Equal(t, int64(3), BookPage{Total: 25, Limit: 12}.Pages())
	assert.Equal(t, int64(0), BookPage{Total: 0, Limit: 12}.Pages())
}

func TestBookParams_Validate(t *testing.T) {
	p := BookParams{Title: "Godaan", Author: "Premchand", PriceCents: 25000, Stock: 3, Rating: 4.5}
	require.NoError(t, p.Validate("book.create"))
	assert.Equal(t, "English", p.Language)

	p = BookParams{PriceCents: -1, Rating: 6}
	err := p.Validate("book.create")
	require.Error(t, err)
	fields := GetValidationFields(err)
	assert.Len(t, fields, 4)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "book.create", ve.Op)
}

func TestOutOfStock(t *testing.T) {
	err := OutOfStock("order.place", "Godaan")
	assert.Equal(t, ECONFLICT, ErrorCode(err))
	assert.Equal(t, "Not enough stock for Godaan", ErrorMessage(err))
}
