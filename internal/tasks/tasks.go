package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/email"
)

// TaskType defines the type of a background task.
const (
	TypeEmailDelivery = "email:deliver"
)

// EmailDeliveryMaxRetry bounds asynq's retries for a single email.
const EmailDeliveryMaxRetry = 3

// --- Task Client (Enqueuing tasks) ---

func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

// EmailTaskPayload is a fully rendered email waiting to be delivered.
type EmailTaskPayload struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// NewEmailDeliveryTask wraps the payload in an asynq task.
func NewEmailDeliveryTask(payload EmailTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email task payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, data, asynq.MaxRetry(EmailDeliveryMaxRetry)), nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies needed by task handlers.
type TaskProcessor struct {
	emailSender email.Sender
	now         func() time.Time
}

func NewTaskProcessor(emailSender email.Sender) *TaskProcessor {
	return &TaskProcessor{emailSender: emailSender, now: time.Now}
}

// SetupServer configures an asynq server and registers the handlers.
// The caller starts it with srv.Start(mux) and stops it with srv.Shutdown().
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task_type", task.Type()).Msg("asynq task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	log.Info().Msg("registered background task handlers")
	return srv, mux
}

// --- Task Handlers ---

// HandleEmailDeliveryTask delivers a rendered email through the configured sender.
// Returning the sender error lets asynq retry it.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("email task has no recipient: %w", asynq.SkipRetry)
	}

	raw := email.BuildHTMLMessage(payload.From, payload.To, payload.Subject, payload.HTML, p.now())
	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, raw); err != nil {
		log.Warn().Err(err).Str("to", payload.To).Msg("email delivery failed, will retry")
		return err
	}

	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email task processed")
	return nil
}
