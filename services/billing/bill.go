package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound    = errors.New("billing item not found")
	ErrInvalidQuantity = errors.New("quantity must be zero or more")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
)

// Totals is the bill-level reduction over all items.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalTotal     float64 `json:"finalTotal"`
}

// Compute reduces items into totals. FinalTotal is always Subtotal minus
// DiscountAmount.
func Compute(items []Item) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Gross()
		t.DiscountAmount += it.Discount()
	}
	t.FinalTotal = t.Subtotal - t.DiscountAmount
	return t
}

// RoundMoney rounds to cents for persistence.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Bill is an ordered, editable list of items.
type Bill struct {
	Items []Item `json:"items"`
}

func (b *Bill) Add(item Item) Item {
	if item.ID == "" {
		item.ID = newItemID()
	}
	b.Items = append(b.Items, item)
	return item
}

func (b *Bill) Remove(id string) error {
	for i := range b.Items {
		if b.Items[i].ID == id {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (b *Bill) SetQuantity(id string, qty float64) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	it, err := b.find(id)
	if err != nil {
		return err
	}
	it.Quantity = qty
	return nil
}

func (b *Bill) SetDiscount(id string, pct float64) error {
	if pct < 0 || pct > 100 {
		return ErrInvalidDiscount
	}
	it, err := b.find(id)
	if err != nil {
		return err
	}
	it.DiscountPercent = pct
	return nil
}

func (b *Bill) Totals() Totals {
	return Compute(b.Items)
}

func (b *Bill) find(id string) (*Item, error) {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return &b.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}
