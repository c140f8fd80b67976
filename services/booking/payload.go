package booking

import (
	"github.com/google/uuid"

	"bookpos-backend/models"
)

// Payload is the appointment creation command produced on submission.
type Payload struct {
	CompanyID         uuid.UUID   `json:"companyId"`
	ClientID          uuid.UUID   `json:"clientId"`
	ServiceID         uuid.UUID   `json:"serviceId"`
	StaffID           *uuid.UUID  `json:"staffId,omitempty"`
	PreferredStaffIDs []uuid.UUID `json:"preferredStaffIds,omitempty"`
	SpaceID           *uuid.UUID  `json:"spaceId,omitempty"`
	Date              string      `json:"date"`
	Time              string      `json:"time"`
	Duration          int         `json:"duration"`
	Status            string      `json:"status"`
	Price             float64     `json:"price"`
	PaymentStatus     string      `json:"paymentStatus"`
	Notes             string      `json:"notes,omitempty"`
	CreatedByUserID   *uuid.UUID  `json:"createdByUserId,omitempty"`
}

// BuildPayload assembles the draft. For non-owners a single preferred staff
// member becomes a direct assignment; two or three stay a shortlist for the
// owner to resolve.
func (w *Wizard) BuildPayload() (Payload, error) {
	if err := w.Validate(); err != nil {
		return Payload{}, err
	}
	if w.Service == nil || w.Draft.ServiceID == nil || w.Service.ID != *w.Draft.ServiceID {
		return Payload{}, stepError(StepService)
	}

	d := w.Draft
	p := Payload{
		CompanyID:     w.CompanyID,
		ClientID:      *d.ClientUserID,
		ServiceID:     *d.ServiceID,
		SpaceID:       d.SpaceID,
		Date:          d.Date,
		Time:          d.Time,
		Duration:      w.Service.Duration,
		Status:        models.AppointmentPending,
		Price:         w.Service.Price,
		PaymentStatus: models.PaymentPending,
		Notes:         d.Notes,
	}
	if w.UserID != uuid.Nil {
		creator := w.UserID
		p.CreatedByUserID = &creator
	}

	if w.IsOwner() {
		p.StaffID = d.StaffID
	} else if len(d.PreferredStaffIDs) == 1 {
		id := d.PreferredStaffIDs[0]
		p.StaffID = &id
	} else {
		p.PreferredStaffIDs = append([]uuid.UUID(nil), d.PreferredStaffIDs...)
	}
	return p, nil
}

// Appointment converts the payload into the stored row.
func (p Payload) Appointment() models.Appointment {
	appt := models.Appointment{
		CompanyID:       p.CompanyID,
		ClientID:        p.ClientID,
		ServiceID:       p.ServiceID,
		StaffID:         p.StaffID,
		SpaceID:         p.SpaceID,
		CreatedByUserID: p.CreatedByUserID,
		Date:            p.Date,
		Time:            p.Time,
		Duration:        p.Duration,
		Status:          p.Status,
		Price:           p.Price,
		PaymentStatus:   p.PaymentStatus,
		Notes:           p.Notes,
	}
	for _, id := range p.PreferredStaffIDs {
		appt.PreferredStaffIDs = append(appt.PreferredStaffIDs, id.String())
	}
	return appt
}
