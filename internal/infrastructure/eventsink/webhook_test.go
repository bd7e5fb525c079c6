package eventsink

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/resilience"
)

func TestWebhookForwarder_DeliversFrames(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- string(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	bus := eventbus.New(8, logging.NewNop())
	forwarder := NewWebhookForwarder(Config{
		Enabled: true,
		URL:     server.URL,
		Timeout: 2 * time.Second,
	}, bus, logging.NewNop())

	forwarder.Start()
	defer forwarder.Stop()

	bus.Publish("standings_updated", map[string]int64{"competition_id": 5})

	select {
	case body := <-received:
		if !strings.Contains(body, `"type":"standings_updated"`) {
			t.Fatalf("unexpected webhook body %q", body)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("webhook never received the frame")
	}
}

func TestWebhookForwarder_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		done <- struct{}{}
	}))
	t.Cleanup(server.Close)

	bus := eventbus.New(8, logging.NewNop())
	forwarder := NewWebhookForwarder(Config{
		Enabled:    true,
		URL:        server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, bus, logging.NewNop())

	forwarder.Start()
	defer forwarder.Stop()

	bus.Publish("match_confirmed", map[string]int64{"match_id": 9})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("frame was never retried to success")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", got)
	}
}

func TestWebhookForwarder_DoesNotRetryRejectedFrames(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(server.Close)

	bus := eventbus.New(8, logging.NewNop())
	forwarder := NewWebhookForwarder(Config{
		Enabled:    true,
		URL:        server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	}, bus, logging.NewNop())

	forwarder.Start()
	bus.Publish("bracket_updated", map[string]int64{"competition_id": 3})
	time.Sleep(300 * time.Millisecond)
	forwarder.Stop()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt for a 4xx rejection, got %d", got)
	}
}

func TestWebhookForwarder_StartWithoutURLIsNoop(t *testing.T) {
	bus := eventbus.New(8, logging.NewNop())
	forwarder := NewWebhookForwarder(Config{Enabled: true}, bus, logging.NewNop())

	forwarder.Start()
	defer forwarder.Stop()

	if bus.SubscriberCount() != 0 {
		t.Fatal("forwarder without a URL must not subscribe")
	}
}

func TestWebhookForwarder_CircuitBreakerShedsLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	bus := eventbus.New(8, logging.NewNop())
	forwarder := NewWebhookForwarder(Config{
		Enabled: true,
		URL:     server.URL,
		Timeout: time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
		},
	}, bus, logging.NewNop())

	if err := forwarder.deliver([]byte(`{}`)); err == nil {
		t.Fatal("expected delivery failure from 500 response")
	}
	if forwarder.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", forwarder.breaker.State())
	}
	if err := forwarder.deliver([]byte(`{}`)); err == nil {
		t.Fatal("expected circuit rejection")
	}
}
