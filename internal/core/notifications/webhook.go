// Package notifications delivers transfer events to an external webhook
// endpoint. Sends go through a circuit breaker so a dead endpoint is
// cut off instead of retried on every event.
package notifications

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Dispatcher posts signed JSON payloads to a webhook URL.
type Dispatcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	secret  string
}

func NewDispatcher(secret string) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: 5 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "webhook",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		secret: secret,
	}
}

// Send delivers the payload. The request carries an HMAC-SHA256 signature
// of the body so the receiver can verify origin.
func (d *Dispatcher) Send(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = d.breaker.Execute(func() (any, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "ryt-transfers-webhook/1.0")
		req.Header.Set("X-Webhook-Signature", d.sign(body))

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}

func (d *Dispatcher) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
