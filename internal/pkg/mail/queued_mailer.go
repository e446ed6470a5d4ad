package mail

import (
	"context"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/jobqueue"
)

// Enqueuer is the part of the job queue the mailer needs.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// QueuedMailer hands messages to the job queue; delivery happens in a worker.
type QueuedMailer struct {
	queue Enqueuer
}

func NewQueuedMailer(queue Enqueuer) *QueuedMailer {
	return &QueuedMailer{queue: queue}
}

func (m *QueuedMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	payload := jobqueue.SendEmailJobPayload{
		Receivers: msg.Receivers,
		Subject:   msg.Subject,
		HTML:      msg.HTML,
	}
	_, err := m.queue.EnqueueJob(ctx, jobqueue.JobTypeSendEmail, payload.ToMap())
	return err
}

// JobHandler delivers send_email jobs through the given mailer.
func JobHandler(delivery Mailer) jobqueue.Handler {
	return func(ctx context.Context, job *jobqueue.Job) error {
		payload, err := jobqueue.SendEmailJobPayloadFromMap(job.Payload)
		if err != nil {
			return err
		}
		return delivery.Send(ctx, Message{
			Receivers: payload.Receivers,
			Subject:   payload.Subject,
			HTML:      payload.HTML,
		})
	}
}
