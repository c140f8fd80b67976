package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReminderAppointment = "appointment"

type ReminderTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"companyId"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"not null" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index;not null" json:"companyId"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	TemplateID    uuid.UUID `gorm:"type:uuid;index;not null" json:"templateId"`
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt        time.Time `json:"sentAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
