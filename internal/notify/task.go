package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jvitormendess/jaci-api/internal/obs"
)

// TypeOrderMessage is the asynq task type for outbound order messages.
const TypeOrderMessage = "order:message"

// OrderMessagePayload carries a rendered message and its destination.
type OrderMessagePayload struct {
	Destination string `json:"destination"`
	Text        string `json:"text"`
}

// NewOrderMessageTask builds the asynq task for a rendered order message.
func NewOrderMessageTask(destination, text string) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderMessagePayload{Destination: destination, Text: text})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderMessage, payload, asynq.MaxRetry(5)), nil
}

// Enqueuer pushes order messages onto the task queue.
type Enqueuer struct {
	Client *asynq.Client
}

func (e *Enqueuer) Enqueue(ctx context.Context, destination, text string) error {
	task, err := NewOrderMessageTask(destination, text)
	if err != nil {
		return err
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue order message: %w", err)
	}
	return nil
}

// Worker consumes order message tasks and delivers them through a Sink.
type Worker struct {
	Sink Sink
	Log  zerolog.Logger
}

// Handle implements asynq.Handler for TypeOrderMessage tasks.
func (w *Worker) Handle(ctx context.Context, task *asynq.Task) error {
	var payload OrderMessagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order message payload: %w", err)
	}
	if err := w.Sink.Send(ctx, payload.Destination, payload.Text); err != nil {
		obs.ObserveOrderMessageDelivery("error")
		w.Log.Error().Err(err).Str("destination", payload.Destination).Msg("order message delivery failed")
		return err
	}
	obs.ObserveOrderMessageDelivery("ok")
	w.Log.Info().Str("destination", payload.Destination).Msg("order message delivered")
	return nil
}
