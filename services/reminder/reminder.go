// Package reminder texts clients the day before their appointments.
package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookpos-backend/models"
	"bookpos-backend/utils"
)

type Service struct {
	db       *gorm.DB
	sender   Sender
	whatsApp bool
	logger   *zap.Logger
}

func NewService(db *gorm.DB, sender Sender, whatsApp bool, logger *zap.Logger) *Service {
	return &Service{db: db, sender: sender, whatsApp: whatsApp, logger: logger}
}

// StartScheduler runs SendDailyReminders on schedule, a standard five-field cron
// expression. The caller stops the returned scheduler.
func (s *Service) StartScheduler(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.SendDailyReminders(context.Background(), time.Now()); err != nil {
			s.logger.Error("daily reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	s.logger.Info("reminder scheduler started", zap.String("schedule", schedule))
	return c, nil
}

// SendDailyReminders notifies clients of every active company about their
// open appointments on the day after now. It returns the number of messages
// sent.
func (s *Service) SendDailyReminders(ctx context.Context, now time.Time) (int, error) {
	var companies []models.Company
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&companies).Error; err != nil {
		return 0, err
	}

	tomorrow := utils.FormatLocalDate(now.AddDate(0, 0, 1))
	sent := 0
	for _, company := range companies {
		n, err := s.ProcessCompany(ctx, company.ID, tomorrow)
		if err != nil {
			s.logger.Warn("company reminders failed", zap.String("company_id", company.ID.String()), zap.Error(err))
			continue
		}
		sent += n
	}
	s.logger.Info("daily reminder processing completed", zap.Int("sent", sent), zap.String("date", tomorrow))
	return sent, nil
}

// ProcessCompany sends the company's appointment template to clients booked
// on date. Companies without an active template are skipped.
func (s *Service) ProcessCompany(ctx context.Context, companyID uuid.UUID, date string) (int, error) {
	db := s.db.WithContext(ctx)

	var tpl models.ReminderTemplate
	err := db.Where("company_id = ? AND type = ? AND is_active = ?", companyID, models.ReminderAppointment, true).First(&tpl).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var appts []models.Appointment
	err = db.Preload("Client").Preload("Service").
		Where("company_id = ? AND date = ? AND status IN ?", companyID, date,
			[]string{models.AppointmentPending, models.AppointmentConfirmed}).
		Order("time ASC").
		Find(&appts).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, appt := range appts {
		if s.remind(ctx, tpl, appt) {
			sent++
		}
	}
	return sent, nil
}

func (s *Service) remind(ctx context.Context, tpl models.ReminderTemplate, appt models.Appointment) bool {
	if appt.Client == nil || appt.Client.Phone == "" {
		return false
	}
	var already int64
	s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND status = ?", appt.ID, "sent").
		Count(&already)
	if already > 0 {
		return false
	}

	message := Render(tpl.Message, appt)
	channel := ChannelFor(appt.Client.Phone, s.whatsApp)
	sid, err := s.sender.Send(channel, appt.Client.Phone, message)

	entry := models.ReminderLog{
		CompanyID:     appt.CompanyID,
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		TemplateID:    tpl.ID,
		Message:       message,
		Status:        "sent",
		Channel:       channel,
		SentAt:        time.Now(),
	}
	if err != nil {
		s.logger.Warn("failed to send reminder", zap.String("appointment_id", appt.ID.String()), zap.Error(err))
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else {
		s.logger.Debug("reminder sent", zap.String("appointment_id", appt.ID.String()), zap.String("sid", sid))
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("failed to log reminder", zap.String("appointment_id", appt.ID.String()), zap.Error(err))
	}
	return entry.Status == "sent"
}

// Render fills the [ClientName], [ServiceName] and [Time] placeholders.
func Render(message string, appt models.Appointment) string {
	clientName, serviceName := "", ""
	if appt.Client != nil {
		clientName = appt.Client.Name
	}
	if appt.Service != nil {
		serviceName = appt.Service.Name
	}
	return strings.NewReplacer(
		"[ClientName]", clientName,
		"[ServiceName]", serviceName,
		"[Time]", appt.Time,
	).Replace(message)
}
