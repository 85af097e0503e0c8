package worker

import (
	"log/slog"
	"time"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/notifications"
)

const maxAttempts = 5

// StartWebhookWorker drains engine events and delivers them to the
// subscriber URL. Jobs are processed one at a time; delivery failures are
// retried with a growing delay and dropped after maxAttempts.
func StartWebhookWorker(events <-chan domain.Event, url string) {
	go func() {
		slog.Info("👷 Webhook worker started", "url", url)
		for ev := range events {
			deliver(url, ev)
		}
		slog.Info("Webhook worker stopped")
	}()
}

func deliver(url string, ev domain.Event) {
	payload := map[string]interface{}{
		"id":    ev.ID,
		"event": ev.Type,
		"data": map[string]interface{}{
			"account_id": ev.AccountID,
			"payment_id": ev.PaymentID,
			"amount":     ev.Amount,
			"display":    domain.FormatMinor(ev.Amount),
			"timestamp":  ev.Timestamp,
			"emitted_at": ev.EmittedAt,
		},
	}

	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := notifications.SendWebhook(url, payload)
		if err == nil {
			slog.Info("✅ Worker: webhook sent successfully!", "event", ev.Type, "id", ev.ID)
			return
		}

		slog.Error("Worker: webhook failed", "error", err, "attempts", attempts)
		if attempts < maxAttempts {
			nextRun := time.Duration(attempts*10+10) * time.Second
			slog.Info("Worker: scheduled retry", "in", nextRun)
			time.Sleep(nextRun)
		}
	}
	slog.Error("Worker: job dropped (max attempts reached)", "event", ev.Type, "id", ev.ID)
}
