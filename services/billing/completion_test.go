package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"bookpos-backend/models"
)

func testAppointment(price float64) (models.Appointment, models.Service) {
	svc := models.Service{ID: uuid.New(), Name: "Haircut", Price: 30, Duration: 30, IsActive: true}
	appt := models.Appointment{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		ClientID:  uuid.New(),
		ServiceID: svc.ID,
		Date:      "2026-03-11",
		Time:      "10:00",
		Price:     price,
		Status:    models.AppointmentConfirmed,
		Notes:     "first visit",
	}
	return appt, svc
}

func TestNewCompletion_StartsWithBaseService(t *testing.T) {
	appt, svc := testAppointment(0)
	c := NewCompletion(appt, svc)

	require.Len(t, c.Items, 1)
	assert.Equal(t, KindService, c.Items[0].Kind)
	assert.Equal(t, svc.ID, *c.Items[0].ServiceID)
	assert.Equal(t, 30.0, c.Items[0].UnitPrice)
	assert.Equal(t, models.AppointmentCompleted, c.Status)
	assert.Equal(t, "first visit", c.Notes)
}

func TestNewCompletion_UsesBookedPrice(t *testing.T) {
	appt, svc := testAppointment(25)
	c := NewCompletion(appt, svc)
	assert.Equal(t, 25.0, c.Items[0].UnitPrice)
}

func TestCompletion_AddProductNeedingChoiceLeavesBill(t *testing.T) {
	appt, svc := testAppointment(0)
	c := NewCompletion(appt, svc)

	p := models.Product{ID: uuid.New(), Name: "Shampoo"}
	variants := []models.ProductVariant{
		{ID: uuid.New(), ProductID: p.ID, Name: "Small", Price: 8, IsActive: true},
		{ID: uuid.New(), ProductID: p.ID, Name: "Large", Price: 14, IsActive: true},
	}
	sel, err := c.AddProduct(p, variants)
	require.NoError(t, err)
	assert.True(t, sel.NeedsChoice())
	assert.Len(t, c.Items, 1)

	item, err := c.AddVariant(p, variants[1])
	require.NoError(t, err)
	assert.Equal(t, "Shampoo - Large", item.Name)
	assert.Len(t, c.Items, 2)
}

func TestCompletion_PayloadTotals(t *testing.T) {
	appt, svc := testAppointment(0)
	c := NewCompletion(appt, svc)

	p := models.Product{ID: uuid.New(), Name: "Oil", Unit: "ml"}
	oil := models.ProductVariant{ID: uuid.New(), ProductID: p.ID, Price: 12, IsActive: true,
		Attributes: datatypes.JSONMap{"volume": "30ml"}}
	item, err := c.AddVariant(p, oil)
	require.NoError(t, err)
	require.NoError(t, c.SetDiscount(item.ID, 50))
	require.NoError(t, c.SetStatus(models.AppointmentPartiallyCompleted))
	c.SetNotes("used oil")

	payload := c.Payload()
	assert.Equal(t, models.AppointmentPartiallyCompleted, payload.Status)
	assert.Equal(t, "used oil", payload.Notes)
	assert.Len(t, payload.BillingItems, 2)
	assert.InDelta(t, 36.0, payload.TotalAmount, 1e-9)
}

func TestCompletion_SetStatusRejectsOpenStatuses(t *testing.T) {
	appt, svc := testAppointment(0)
	c := NewCompletion(appt, svc)
	assert.ErrorIs(t, c.SetStatus(models.AppointmentPending), ErrInvalidStatus)
	assert.Equal(t, models.AppointmentCompleted, c.Status)
}

func TestCompletion_AddProductWithoutPricingLeavesBill(t *testing.T) {
	appt, svc := testAppointment(0)
	c := NewCompletion(appt, svc)

	_, err := c.AddProduct(models.Product{ID: uuid.New(), Name: "Comb"}, nil)
	assert.ErrorIs(t, err, ErrNoPricing)

	p := models.Product{ID: uuid.New(), Name: "Oil"}
	retired := models.ProductVariant{ID: uuid.New(), ProductID: p.ID, Name: "Retired", Price: 9}
	_, err = c.AddProduct(p, []models.ProductVariant{retired})
	assert.ErrorIs(t, err, ErrNoPricing)
	_, err = c.AddVariant(p, retired)
	assert.ErrorIs(t, err, ErrNoPricing)

	assert.Len(t, c.Items, 1)
}
