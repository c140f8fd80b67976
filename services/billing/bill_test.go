package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Empty(t *testing.T) {
	totals := Compute(nil)
	assert.Equal(t, Totals{}, totals)
}

func TestCompute_FinalIsSubtotalMinusDiscount(t *testing.T) {
	cases := [][]Item{
		{{Quantity: 1, UnitPrice: 50}},
		{{Quantity: 2, UnitPrice: 19.99, DiscountPercent: 10}, {Quantity: 30, UnitPrice: 1.5, DiscountPercent: 33.3}},
		{{Quantity: 0, UnitPrice: 10, DiscountPercent: 100}, {Quantity: 3.7, UnitPrice: 0.1, DiscountPercent: 7}},
		{{Quantity: 1, UnitPrice: 10, DiscountPercent: 100}},
	}
	for _, items := range cases {
		totals := Compute(items)
		assert.Equal(t, totals.Subtotal-totals.DiscountAmount, totals.FinalTotal)
	}
}

func TestCompute_Values(t *testing.T) {
	totals := Compute([]Item{
		{Quantity: 2, UnitPrice: 25, DiscountPercent: 10},
		{Quantity: 1, UnitPrice: 50},
	})
	assert.InDelta(t, 100.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 5.0, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 95.0, totals.FinalTotal, 1e-9)
}

func TestItem_LineTotal(t *testing.T) {
	item := Item{Quantity: 4, UnitPrice: 2.5, DiscountPercent: 20}
	assert.InDelta(t, 8.0, item.LineTotal(), 1e-9)
	assert.GreaterOrEqual(t, Item{Quantity: 1, UnitPrice: 1, DiscountPercent: 100}.LineTotal(), 0.0)
}

func TestBill_EditsRecomputeTotals(t *testing.T) {
	var b Bill
	a := b.Add(Item{Kind: KindService, Quantity: 1, UnitPrice: 40})
	p := b.Add(Item{Kind: KindProduct, Quantity: 1, UnitPrice: 10})
	require.NotEmpty(t, a.ID)

	require.NoError(t, b.SetQuantity(p.ID, 3))
	require.NoError(t, b.SetDiscount(a.ID, 50))
	totals := b.Totals()
	assert.InDelta(t, 70.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 50.0, totals.FinalTotal, 1e-9)

	require.NoError(t, b.Remove(a.ID))
	assert.Len(t, b.Items, 1)
	assert.InDelta(t, 30.0, b.Totals().FinalTotal, 1e-9)
}

func TestBill_RejectsBadEdits(t *testing.T) {
	var b Bill
	it := b.Add(Item{Quantity: 1, UnitPrice: 5})

	assert.ErrorIs(t, b.SetQuantity(it.ID, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, b.SetDiscount(it.ID, 101), ErrInvalidDiscount)
	assert.ErrorIs(t, b.SetDiscount(it.ID, -5), ErrInvalidDiscount)
	assert.ErrorIs(t, b.SetQuantity("missing", 1), ErrItemNotFound)
	assert.ErrorIs(t, b.Remove("missing"), ErrItemNotFound)
	assert.Equal(t, 1.0, b.Items[0].Quantity)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.13, RoundMoney(10.125))
	assert.Equal(t, 3.33, RoundMoney(10.0/3))
}
