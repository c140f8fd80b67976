package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentCreate = "appointment:create"

// Dispatcher hands a submitted payload to whatever creates the appointment.
// It returns once the payload has been sent, not once it has been stored.
type Dispatcher interface {
	Dispatch(ctx context.Context, p Payload) error
}

func NewAppointmentTask(p Payload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAppointmentCreate, b, asynq.MaxRetry(3)), nil
}

// QueueDispatcher enqueues payloads for the appointment worker.
type QueueDispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewQueueDispatcher(client *asynq.Client, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, logger: logger}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, p Payload) error {
	task, err := NewAppointmentTask(p)
	if err != nil {
		return fmt.Errorf("encode appointment task: %w", err)
	}
	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue("default"))
	if err != nil {
		return err
	}
	d.logger.Info("appointment queued",
		zap.String("task_id", info.ID),
		zap.String("company_id", p.CompanyID.String()),
		zap.String("date", p.Date),
		zap.String("time", p.Time))
	return nil
}

// InlineDispatcher persists in a background goroutine. Used when no queue
// is reachable.
type InlineDispatcher struct {
	worker *Worker
}

func NewInlineDispatcher(w *Worker) *InlineDispatcher {
	return &InlineDispatcher{worker: w}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, p Payload) error {
	go func() {
		if _, err := d.worker.Persist(context.Background(), p); err != nil {
			d.worker.logger.Error("inline appointment create failed", zap.Error(err))
		}
	}()
	return nil
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, p Payload) error

func (f DispatcherFunc) Dispatch(ctx context.Context, p Payload) error {
	return f(ctx, p)
}
