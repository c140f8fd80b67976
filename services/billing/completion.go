package billing

import (
	"errors"

	"bookpos-backend/models"
)

var ErrInvalidStatus = errors.New("status must be completed, no_show, cancelled or partially_completed")

// CompletionPayload is what gets handed over when an appointment is closed.
type CompletionPayload struct {
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	BillingItems []Item  `json:"billingItems"`
	TotalAmount  float64 `json:"totalAmount"`
}

// Completion is the draft bill for closing an existing appointment. It starts
// with the appointment's own service line.
type Completion struct {
	Appointment models.Appointment
	Status      string
	Notes       string
	Bill
}

func NewCompletion(appt models.Appointment, svc models.Service) *Completion {
	c := &Completion{
		Appointment: appt,
		Status:      models.AppointmentCompleted,
		Notes:       appt.Notes,
	}
	base := FromService(svc)
	if appt.Price > 0 {
		base.UnitPrice = appt.Price
	}
	c.Add(base)
	return c
}

func (c *Completion) AddService(s models.Service) Item {
	return c.Add(FromService(s))
}

// AddProduct runs the product selection rules. When a choice is needed the
// bill is left unchanged and the choices are returned.
func (c *Completion) AddProduct(p models.Product, variants []models.ProductVariant) (Selection, error) {
	sel, err := SelectProduct(p, variants)
	if err != nil {
		return Selection{}, err
	}
	if sel.Item != nil {
		added := c.Add(*sel.Item)
		sel.Item = &added
	}
	return sel, nil
}

func (c *Completion) AddVariant(p models.Product, v models.ProductVariant) (Item, error) {
	item, err := FromVariant(p, v)
	if err != nil {
		return Item{}, err
	}
	return c.Add(item), nil
}

func (c *Completion) SetStatus(status string) error {
	if !models.IsCompletionStatus(status) {
		return ErrInvalidStatus
	}
	c.Status = status
	return nil
}

func (c *Completion) SetNotes(notes string) {
	c.Notes = notes
}

func (c *Completion) Payload() CompletionPayload {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return CompletionPayload{
		Status:       c.Status,
		Notes:        c.Notes,
		BillingItems: items,
		TotalAmount:  c.Totals().FinalTotal,
	}
}
