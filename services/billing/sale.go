package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookpos-backend/models"
	"bookpos-backend/utils"
)

const SaleCompleted = "completed"

func NewSaleNumber(now time.Time) string {
	return "SALE-" + now.Format("20060102") + "-" + utils.GenerateRandomString(6)
}

func ToSaleItem(it Item) models.SaleItem {
	si := models.SaleItem{
		Kind:            string(it.Kind),
		ProductID:       it.ProductID,
		VariantID:       it.VariantID,
		ServiceID:       it.ServiceID,
		Name:            it.Name,
		Description:     it.Description,
		Quantity:        it.Quantity,
		UnitPrice:       it.UnitPrice,
		DiscountPercent: it.DiscountPercent,
		Unit:            it.Unit,
		DisplayPrice:    it.DisplayPrice,
		LineTotal:       RoundMoney(it.LineTotal()),
	}
	if id, err := uuid.Parse(it.ID); err == nil {
		si.ID = id
	}
	return si
}

func FromSaleItem(si models.SaleItem) Item {
	return Item{
		ID:              si.ID.String(),
		Kind:            Kind(si.Kind),
		ProductID:       si.ProductID,
		VariantID:       si.VariantID,
		ServiceID:       si.ServiceID,
		Name:            si.Name,
		Description:     si.Description,
		Quantity:        si.Quantity,
		UnitPrice:       si.UnitPrice,
		DiscountPercent: si.DiscountPercent,
		Unit:            si.Unit,
		DisplayPrice:    si.DisplayPrice,
	}
}

// SaleBill rebuilds an editable bill from stored sale lines.
func SaleBill(s models.Sale) Bill {
	b := Bill{Items: make([]Item, 0, len(s.Items))}
	for _, si := range s.Items {
		b.Items = append(b.Items, FromSaleItem(si))
	}
	return b
}

// ApplyBill replaces the sale lines with items and stores cent-rounded
// totals. The stored total equals the stored subtotal minus the stored
// discount.
func ApplyBill(s *models.Sale, items []Item) {
	s.Items = make([]models.SaleItem, 0, len(items))
	for _, it := range items {
		si := ToSaleItem(it)
		si.SaleID = s.ID
		s.Items = append(s.Items, si)
	}
	t := Compute(items)
	subtotal := decimal.NewFromFloat(t.Subtotal).Round(2)
	discount := decimal.NewFromFloat(t.DiscountAmount).Round(2)
	s.Subtotal = subtotal.InexactFloat64()
	s.DiscountAmount = discount.InexactFloat64()
	s.Total = subtotal.Sub(discount).InexactFloat64()
}

// Sale turns the completion into a sale for the appointment's client.
func (c *Completion) Sale(createdBy *uuid.UUID, now time.Time) models.Sale {
	apptID := c.Appointment.ID
	s := models.Sale{
		ID:              uuid.New(),
		CompanyID:       c.Appointment.CompanyID,
		AppointmentID:   &apptID,
		ClientID:        c.Appointment.ClientID,
		CreatedByUserID: createdBy,
		SaleNumber:      NewSaleNumber(now),
		SaleDate:        now,
		Status:          SaleCompleted,
		PaymentStatus:   models.PaymentPending,
		Notes:           c.Notes,
	}
	ApplyBill(&s, c.Items)
	return s
}
