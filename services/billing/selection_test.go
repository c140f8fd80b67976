package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"bookpos-backend/models"
)

func product(basePrice float64) models.Product {
	return models.Product{ID: uuid.New(), Name: "Argan Oil", BasePrice: basePrice, Unit: "pc", IsActive: true}
}

func variant(p models.Product, name string, price float64, active bool, attrs datatypes.JSONMap) models.ProductVariant {
	return models.ProductVariant{ID: uuid.New(), ProductID: p.ID, Name: name, Price: price, IsActive: active, Attributes: attrs}
}

func TestSelectProduct_NoVariantsWithBasePrice(t *testing.T) {
	p := product(12.5)

	sel, err := SelectProduct(p, nil)
	require.NoError(t, err)
	require.NotNil(t, sel.Item)
	assert.False(t, sel.NeedsChoice())
	assert.Equal(t, KindProduct, sel.Item.Kind)
	assert.Equal(t, 1.0, sel.Item.Quantity)
	assert.Equal(t, 12.5, sel.Item.UnitPrice)
	assert.Equal(t, p.ID, *sel.Item.ProductID)
	assert.Nil(t, sel.Item.VariantID)
}

func TestSelectProduct_NoVariantsNoPrice(t *testing.T) {
	sel, err := SelectProduct(product(0), nil)
	assert.ErrorIs(t, err, ErrNoPricing)
	assert.Nil(t, sel.Item)
}

func TestSelectProduct_SingleActiveVariantIsAutoSelected(t *testing.T) {
	p := product(0)
	inactive := variant(p, "Old", 9, false, nil)
	active := variant(p, "Large", 20, true, nil)

	sel, err := SelectProduct(p, []models.ProductVariant{inactive, active})
	require.NoError(t, err)
	require.NotNil(t, sel.Item)
	assert.Equal(t, active.ID, *sel.Item.VariantID)
	assert.Equal(t, 20.0, sel.Item.UnitPrice)
	assert.Equal(t, "Argan Oil - Large", sel.Item.Name)
}

func TestSelectProduct_SeveralVariantsNeedChoice(t *testing.T) {
	p := product(0)
	vs := []models.ProductVariant{
		variant(p, "S", 10, true, nil),
		variant(p, "M", 15, true, nil),
		variant(p, "L", 0, true, nil),
	}

	sel, err := SelectProduct(p, vs)
	require.NoError(t, err)
	assert.True(t, sel.NeedsChoice())
	assert.Len(t, sel.Choices, 2)
}

func TestSelectProduct_VariantsWithoutUsablePricing(t *testing.T) {
	p := product(30)
	vs := []models.ProductVariant{
		variant(p, "S", 0, true, nil),
		variant(p, "M", 15, false, nil),
	}

	_, err := SelectProduct(p, vs)
	assert.ErrorIs(t, err, ErrNoPricing)
	assert.EqualError(t, err, "no variants or pricing information")
}

func TestFromVariant_Volume(t *testing.T) {
	p := product(0)
	v := variant(p, "30ml", 45, true, datatypes.JSONMap{"volume": "30ml"})

	item, err := FromVariant(p, v)
	require.NoError(t, err)
	assert.Equal(t, 30.0, item.Quantity)
	assert.InDelta(t, 1.5, item.UnitPrice, 1e-9)
	require.NotNil(t, item.DisplayPrice)
	assert.Equal(t, 45.0, *item.DisplayPrice)
	assert.Equal(t, 45.0, item.Price())
	assert.Equal(t, "ml", item.Unit)
	assert.InDelta(t, 45.0, item.Quantity*item.UnitPrice, 1e-9)
	assert.InDelta(t, 45.0, item.LineTotal(), 1e-9)
}

func TestFromVariant_VolumeWithAwkwardDivision(t *testing.T) {
	p := product(0)
	v := variant(p, "7ml", 10, true, datatypes.JSONMap{"volume": "7ml"})

	item, err := FromVariant(p, v)
	require.NoError(t, err)
	assert.Equal(t, 7.0, item.Quantity)
	assert.InDelta(t, 10.0, item.Quantity*item.UnitPrice, 1e-9)
	assert.Equal(t, 10.0, item.Price())
}

func TestFromVariant_InvalidVolume(t *testing.T) {
	p := product(0)
	for _, raw := range []string{"ml30", "thirty ml", "0ml", "30"} {
		v := variant(p, "bad", 45, true, datatypes.JSONMap{"volume": raw})
		_, err := FromVariant(p, v)
		assert.ErrorIs(t, err, ErrInvalidVolume, raw)
	}
}

func TestFromVariant_ForeignVariant(t *testing.T) {
	p := product(0)
	other := product(0)
	_, err := FromVariant(p, variant(other, "x", 5, true, nil))
	assert.ErrorIs(t, err, ErrVariantMissing)
}

func TestParseVolume(t *testing.T) {
	amount, unit, err := ParseVolume("2.5 L")
	require.NoError(t, err)
	assert.Equal(t, 2.5, amount)
	assert.Equal(t, "L", unit)
}

func TestFromService(t *testing.T) {
	s := models.Service{ID: uuid.New(), Name: "Haircut", Price: 50, Duration: 30}
	item := FromService(s)
	assert.Equal(t, KindService, item.Kind)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, 50.0, item.UnitPrice)
	assert.Nil(t, item.DisplayPrice)
	assert.Equal(t, s.ID, *item.ServiceID)
}
