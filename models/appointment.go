package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AppointmentPending            = "Pending"
	AppointmentConfirmed          = "Confirmed"
	AppointmentCompleted          = "completed"
	AppointmentNoShow             = "no_show"
	AppointmentCancelled          = "cancelled"
	AppointmentPartiallyCompleted = "partially_completed"

	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentPartial = "Partial"
)

type Appointment struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID         uuid.UUID                   `gorm:"type:uuid;index;not null" json:"companyId"`
	ClientID          uuid.UUID                   `gorm:"type:uuid;index;not null" json:"clientId"`
	ServiceID         uuid.UUID                   `gorm:"type:uuid;index;not null" json:"serviceId"`
	StaffID           *uuid.UUID                  `gorm:"type:uuid;index" json:"staffId,omitempty"`
	PreferredStaffIDs datatypes.JSONSlice[string] `json:"preferredStaffIds,omitempty"`
	SpaceID           *uuid.UUID                  `gorm:"type:uuid;index" json:"spaceId,omitempty"`
	CreatedByUserID   *uuid.UUID                  `gorm:"type:uuid" json:"createdByUserId,omitempty"`

	Date          string  `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	Time          string  `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM
	Duration      int     `json:"duration"`
	Status        string  `gorm:"type:varchar(30);default:'Pending'" json:"status"`
	Price         float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'Pending'" json:"paymentStatus"`
	Notes         string  `json:"notes"`

	Client  *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Staff   *Staff   `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Space   *Space   `gorm:"foreignKey:SpaceID" json:"space,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// IsCompletionStatus reports whether status is accepted when closing an appointment.
func IsCompletionStatus(status string) bool {
	switch status {
	case AppointmentCompleted, AppointmentNoShow, AppointmentCancelled, AppointmentPartiallyCompleted:
		return true
	}
	return false
}
