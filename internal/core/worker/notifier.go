// Package worker delivers transfer outcome webhooks in the background,
// decoupled from the confirm path: the engine enqueues, the worker
// retries with backoff.
package worker

import (
	"log/slog"
	"time"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/metrics"
)

const (
	maxAttempts = 5
	queueDepth  = 256
)

// Sender is satisfied by notifications.Dispatcher.
type Sender interface {
	Send(url string, payload any) error
}

type job struct {
	transfer domain.Transfer
	attempts int
}

// Notifier implements engine.Notifier: each terminal transfer becomes a
// webhook job processed by a single background goroutine.
type Notifier struct {
	url    string
	sender Sender
	jobs   chan job
	done   chan struct{}
}

// StartNotifier launches the delivery loop. A Notifier with an empty URL
// is valid and drops every event.
func StartNotifier(url string, sender Sender) *Notifier {
	n := &Notifier{
		url:    url,
		sender: sender,
		jobs:   make(chan job, queueDepth),
		done:   make(chan struct{}),
	}
	go n.run()
	slog.Info("webhook worker started", "url", url)
	return n
}

// TransferCompleted enqueues a terminal transfer. Never blocks the
// confirm path: if the queue is full the event is dropped and counted.
func (n *Notifier) TransferCompleted(t domain.Transfer) {
	if n.url == "" {
		return
	}
	select {
	case n.jobs <- job{transfer: t}:
	default:
		metrics.WebhookDeliveries.WithLabelValues("dropped").Inc()
		slog.Warn("webhook queue full, dropping event", "transfer_id", t.ID)
	}
}

// Stop shuts the delivery loop down. Pending jobs are abandoned.
func (n *Notifier) Stop() {
	close(n.done)
}

func (n *Notifier) run() {
	for {
		select {
		case <-n.done:
			return
		case j := <-n.jobs:
			n.deliver(j)
		}
	}
}

func (n *Notifier) deliver(j job) {
	err := n.sender.Send(n.url, payloadFor(j.transfer))
	if err == nil {
		metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
		slog.Info("webhook delivered", "transfer_id", j.transfer.ID, "status", j.transfer.Status)
		return
	}

	j.attempts++
	if j.attempts >= maxAttempts {
		metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
		slog.Error("webhook abandoned after max attempts", "error", err, "transfer_id", j.transfer.ID)
		return
	}

	backoff := time.Duration(j.attempts*10) * time.Second
	slog.Warn("webhook failed, scheduling retry",
		"error", err, "transfer_id", j.transfer.ID, "attempt", j.attempts, "backoff", backoff)
	time.AfterFunc(backoff, func() {
		select {
		case n.jobs <- j:
		case <-n.done:
		}
	})
}

func payloadFor(t domain.Transfer) map[string]any {
	event := "transfer.succeeded"
	if t.Status == domain.StatusFailed {
		event = "transfer.failed"
	}
	data := map[string]any{
		"transfer_id":    t.ID,
		"account_id":     t.AccountID,
		"channel":        t.Channel,
		"amount_cents":   t.AmountCents,
		"currency":       t.Currency,
		"status":         t.Status,
		"reference_code": t.ReferenceCode,
		"completed_at":   t.CompletedAt,
	}
	if t.FailReason != "" {
		data["fail_reason"] = t.FailReason
	}
	return map[string]any{"event": event, "data": data}
}
