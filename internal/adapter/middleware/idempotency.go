package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyStore records the first response produced for an
// Idempotency-Key so retries replay it instead of re-running the handler.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (status int, body []byte, found bool, err error)
	Record(ctx context.Context, key string, status int, body []byte) error
}

// Idempotency replays the recorded response for a repeated
// Idempotency-Key header. Requests without the header pass through.
// This is what makes retrying a confirm safe: the debit runs once and the
// retry sees the original outcome.
func Idempotency(store IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("Idempotency-Key")
		if key == "" {
			return c.Next()
		}

		status, body, found, err := store.Lookup(c.Context(), key)
		if err == nil && found {
			slog.Info("idempotency hit, replaying response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(status).Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		resStatus := c.Response().StatusCode()
		resBody := c.Response().Body()
		if err := store.Record(c.Context(), key, resStatus, resBody); err != nil {
			slog.Error("failed to record idempotency key", "error", err, "key", key)
		}
		return nil
	}
}
