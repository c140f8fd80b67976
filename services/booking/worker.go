package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookpos-backend/models"
)

var ErrUnknownReference = errors.New("appointment references an unknown record")

// Worker stores appointments submitted by the wizard.
type Worker struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewWorker(db *gorm.DB, logger *zap.Logger) *Worker {
	return &Worker{db: db, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.logger.Error("invalid appointment payload", zap.Error(err))
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	_, err := w.Persist(ctx, p)
	if errors.Is(err, ErrUnknownReference) {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

// Persist checks that the referenced records belong to the company and
// inserts the appointment.
func (w *Worker) Persist(ctx context.Context, p Payload) (*models.Appointment, error) {
	db := w.db.WithContext(ctx)

	var svc models.Service
	if err := db.Where("id = ? AND company_id = ?", p.ServiceID, p.CompanyID).First(&svc).Error; err != nil {
		return nil, w.lookupError("service", err)
	}
	var client models.User
	if err := db.Where("id = ? AND company_id = ?", p.ClientID, p.CompanyID).First(&client).Error; err != nil {
		return nil, w.lookupError("client", err)
	}
	if p.StaffID != nil {
		var staff models.Staff
		if err := db.Where("id = ? AND company_id = ?", *p.StaffID, p.CompanyID).First(&staff).Error; err != nil {
			return nil, w.lookupError("staff", err)
		}
	}
	if p.SpaceID != nil {
		var space models.Space
		if err := db.Where("id = ? AND company_id = ?", *p.SpaceID, p.CompanyID).First(&space).Error; err != nil {
			return nil, w.lookupError("space", err)
		}
	}

	appt := p.Appointment()
	if err := db.Create(&appt).Error; err != nil {
		w.logger.Error("failed to create appointment", zap.Error(err))
		return nil, err
	}
	w.logger.Info("appointment created",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("company_id", appt.CompanyID.String()))
	return &appt, nil
}

func (w *Worker) lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w.logger.Warn("appointment dropped", zap.String("missing", what))
		return fmt.Errorf("%w: %s", ErrUnknownReference, what)
	}
	return err
}

// NewServer builds the queue server that runs the worker.
func NewServer(opt asynq.RedisConnOpt, w *Worker) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeAppointmentCreate, w)
	return srv, mux
}
