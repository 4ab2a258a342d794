// Package webhook pushes domain events to the external automation
// pipeline over HTTP. The pipeline owns calendar snapshots and email
// triage; this side only notifies it of recomputed states and stored
// placements.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// NotifierConfig configures the webhook notifier.
type NotifierConfig struct {
	URL     string
	Timeout time.Duration

	// MaxRequests allowed through in half-open state.
	MaxRequests uint32

	// OpenTimeout is how long the breaker stays open after tripping.
	OpenTimeout time.Duration

	// FailureThreshold trips the breaker on this many consecutive failures.
	FailureThreshold uint32
}

// DefaultNotifierConfig returns the notifier defaults.
func DefaultNotifierConfig(url string) NotifierConfig {
	return NotifierConfig{
		URL:              url,
		Timeout:          10 * time.Second,
		MaxRequests:      3,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
	}
}

// Notifier posts event payloads behind a circuit breaker so a dead
// automation endpoint cannot stall the outbox loop with slow failures.
type Notifier struct {
	config  NotifierConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

func NewNotifier(config NotifierConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "automation-webhook",
		MaxRequests: config.MaxRequests,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("webhook breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Notifier{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

// Publish sends the payload with the routing key as an event-type
// header. It satisfies the event bus publisher contract, so the outbox
// processor can relay straight to the automation pipeline when no broker
// is deployed.
func (n *Notifier) Publish(ctx context.Context, routingKey string, payload []byte) error {
	_, err := n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.post(ctx, routingKey, payload)
	})
	return err
}

// Close satisfies the publisher contract.
func (n *Notifier) Close() error {
	return nil
}

func (n *Notifier) post(ctx context.Context, routingKey string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Echo-Event", routingKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
