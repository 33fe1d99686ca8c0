// Package notify delivers operator notifications either directly through an
// email.Sender or through the background email queue.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/email"
	"greendrake/realty/internal/tasks"
)

// Message is a rendered notification for a single recipient.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// EmailNotifier sends synchronously through an email.Sender.
type EmailNotifier struct {
	sender email.Sender
	now    func() time.Time
}

func NewEmailNotifier(sender email.Sender) *EmailNotifier {
	return &EmailNotifier{sender: sender, now: time.Now}
}

func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	raw := email.BuildHTMLMessage(msg.From, msg.To, msg.Subject, msg.HTML, n.now())
	if err := n.sender.Send(ctx, []string{msg.To}, msg.Subject, raw); err != nil {
		return fmt.Errorf("send notification to %s: %w", msg.To, err)
	}
	return nil
}

// Enqueuer is the part of *asynq.Client the queue notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands each message to the background worker as one
// email:deliver task.
type QueueNotifier struct {
	client Enqueuer
}

func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) Send(ctx context.Context, msg Message) error {
	task, err := tasks.NewEmailDeliveryTask(tasks.EmailTaskPayload{
		To:      msg.To,
		From:    msg.From,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue notification to %s: %w", msg.To, err)
	}
	log.Debug().Str("task_id", info.ID).Str("to", msg.To).Msg("notification enqueued")
	return nil
}

var (
	_ Notifier = (*EmailNotifier)(nil)
	_ Notifier = (*QueueNotifier)(nil)
)
