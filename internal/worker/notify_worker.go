package worker

// notify_worker.go
// Processes customer-notification jobs from QueueNotify: currently a single
// kind, "your reward is ready", enqueued by the stamping path when a card
// reaches its max stamp count. Delivery is best-effort — a lost email never
// affects stamp state.

import (
	"context"
	"encoding/json"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotifyJobPayload is the job envelope sent to QueueNotify.
type NotifyJobPayload struct {
	ToEmail      string `json:"to_email"`
	CustomerName string `json:"customer_name"`
	BusinessName string `json:"business_name"`
	RewardName   string `json:"reward_name"`
}

// NotifyWorker sends reward-ready emails via the SMTP mailer, behind a
// circuit breaker so a dead relay fast-fails into the DLQ.
type NotifyWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewNotifyWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker) *NotifyWorker {
	return &NotifyWorker{mailer: mailer, breaker: breaker}
}

// Process sends the notification email for one job.
func (w *NotifyWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload NotifyJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		SendToDLQ(ctx, rdb, QueueNotify, "notify", raw, "invalid payload", 1)
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notify_worker: empty to_email — skipping")
		return
	}

	subject := "Your reward at " + payload.BusinessName + " is ready!"
	body := "Hi " + payload.CustomerName + ",\n\n" +
		"Your stamp card at " + payload.BusinessName + " is full. " +
		"Show your card in the app to claim: " + payload.RewardName + ".\n"

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("notify_worker: failed to send email")
		SendToDLQ(ctx, rdb, QueueNotify, "notify", raw, err.Error(), 1)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("notify_worker: reward-ready email sent")
}
