package billing

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"bookpos-backend/models"
)

var (
	ErrNoPricing      = errors.New("no variants or pricing information")
	ErrInvalidVolume  = errors.New("invalid volume")
	ErrVariantMissing = errors.New("variant does not belong to product")
)

// Selection is the outcome of picking a product. Exactly one of Item or
// Choices is set: Choices means the caller has to ask which variant to bill.
type Selection struct {
	Item    *Item
	Choices []models.ProductVariant
}

// NeedsChoice reports whether a variant chooser must be shown.
func (s Selection) NeedsChoice() bool {
	return s.Item == nil && len(s.Choices) > 0
}

// FromService bills one unit of a service at its list price.
func FromService(s models.Service) Item {
	return Item{
		ID:          newItemID(),
		Kind:        KindService,
		ServiceID:   ptr(s.ID),
		Name:        s.Name,
		Description: s.Description,
		Quantity:    1,
		UnitPrice:   s.Price,
	}
}

// SelectProduct applies the product selection rules:
// no variants and a base price bills the product directly, a single usable
// variant is picked automatically, several usable variants need a choice, and
// anything else has no pricing.
func SelectProduct(p models.Product, variants []models.ProductVariant) (Selection, error) {
	if len(variants) == 0 {
		if p.BasePrice > 0 {
			return Selection{Item: &Item{
				ID:          newItemID(),
				Kind:        KindProduct,
				ProductID:   ptr(p.ID),
				Name:        p.Name,
				Description: p.Description,
				Quantity:    1,
				UnitPrice:   p.BasePrice,
				Unit:        p.Unit,
			}}, nil
		}
		return Selection{}, ErrNoPricing
	}

	usable := UsableVariants(variants)
	switch len(usable) {
	case 0:
		return Selection{}, ErrNoPricing
	case 1:
		item, err := FromVariant(p, usable[0])
		if err != nil {
			return Selection{}, err
		}
		return Selection{Item: &item}, nil
	default:
		return Selection{Choices: usable}, nil
	}
}

// UsableVariants keeps active variants that carry a price.
func UsableVariants(variants []models.ProductVariant) []models.ProductVariant {
	var usable []models.ProductVariant
	for _, v := range variants {
		if v.IsActive && v.Price > 0 {
			usable = append(usable, v)
		}
	}
	return usable
}

// FromVariant bills a chosen variant. A "volume" attribute such as "30ml"
// turns the line into 30 units of ml priced per ml, keeping the variant price
// as the display price.
func FromVariant(p models.Product, v models.ProductVariant) (Item, error) {
	if v.ProductID != p.ID {
		return Item{}, ErrVariantMissing
	}
	if !v.IsActive || v.Price <= 0 {
		return Item{}, ErrNoPricing
	}

	name := p.Name
	if v.Name != "" {
		name = p.Name + " - " + v.Name
	}
	item := Item{
		ID:          newItemID(),
		Kind:        KindProduct,
		ProductID:   ptr(p.ID),
		VariantID:   ptr(v.ID),
		Name:        name,
		Description: p.Description,
		Quantity:    1,
		UnitPrice:   v.Price,
		Unit:        p.Unit,
	}

	if raw := v.Attribute("volume"); raw != "" {
		amount, unit, err := ParseVolume(raw)
		if err != nil {
			return Item{}, err
		}
		item.Quantity = amount
		item.UnitPrice = v.Price / amount
		item.DisplayPrice = ptr(v.Price)
		item.Unit = unit
	}
	return item, nil
}

var volumePattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]+)\s*$`)

// ParseVolume splits "30ml" into 30 and "ml".
func ParseVolume(s string) (float64, string, error) {
	m := volumePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidVolume, s)
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidVolume, s)
	}
	return amount, m[2], nil
}
