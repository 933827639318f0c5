package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bayside-club/backend/pkg/queue"
)

// Worker drains the push queue and dispatches through a Pusher.
type Worker struct {
	queue  *queue.Queue
	pusher Pusher
	logger *zap.Logger
}

// NewWorker creates a push dispatch worker.
func NewWorker(q *queue.Queue, pusher Pusher, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{queue: q, pusher: pusher, logger: logger}
}

// Process executes one push job.
func (w *Worker) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypePush {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.PushPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if len(payload.DeviceTokens) == 0 {
		return nil
	}
	n := Notification{Title: payload.Title, Body: payload.Body, Link: payload.Link}
	if err := w.pusher.Push(ctx, payload.DeviceTokens, n); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	w.logger.Debug("push dispatched",
		zap.String("job_id", job.ID),
		zap.Int("devices", len(payload.DeviceTokens)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("push worker stopping")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			w.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.Process(ctx, job); err != nil {
			w.logger.Error("push job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := w.queue.Retry(ctx, job); reErr != nil {
				w.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
