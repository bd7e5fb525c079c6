package eventsink

import (
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type Config struct {
	Enabled        bool
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookForwarder mirrors the progression event feed to an external HTTP
// endpoint, one POST per frame. It is a best-effort side channel: delivery
// failures are retried a few times and then dropped, never propagated back
// to the confirming request.
type WebhookForwarder struct {
	client         *fasthttp.Client
	enabled        bool
	url            string
	timeout        time.Duration
	maxRetries     int
	bus            *eventbus.Bus
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	sub *eventbus.Subscriber
	wg  conc.WaitGroup
}

func NewWebhookForwarder(cfg Config, bus *eventbus.Bus, logger *logging.Logger) *WebhookForwarder {
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookForwarder{
		client:         &fasthttp.Client{Name: "dimba-api-eventsink"},
		enabled:        cfg.Enabled,
		url:            strings.TrimSpace(cfg.URL),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		bus:            bus,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Start subscribes to the bus and begins forwarding. It is a no-op when the
// sink is disabled or has no target URL.
func (f *WebhookForwarder) Start() {
	if !f.enabled || f.url == "" || f.sub != nil {
		return
	}

	f.sub = f.bus.Subscribe()
	f.wg.Go(f.run)
	f.logger.Info("webhook event sink started", "url", f.url)
}

// Stop detaches from the bus and waits for in-flight deliveries. The bus
// closes our channel on unsubscribe, which ends the run loop.
func (f *WebhookForwarder) Stop() {
	if f.sub == nil {
		return
	}
	f.bus.Unsubscribe(f.sub)
	f.wg.Wait()
	f.sub = nil
	f.logger.Info("webhook event sink stopped")
}

func (f *WebhookForwarder) run() {
	for frame := range f.sub.C {
		if err := f.deliverWithRetry(frame); err != nil {
			f.logger.Warn("event frame dropped", "error", err)
		}
	}
}

func (f *WebhookForwarder) deliverWithRetry(frame []byte) error {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
		}
		lastErr = f.deliver(frame)
		if lastErr == nil {
			return nil
		}
		if !crerr.Is(lastErr, errWebhookTransient) {
			return lastErr
		}
	}
	return crerr.Wrapf(lastErr, "gave up after %d attempts", f.maxRetries+1)
}

func (f *WebhookForwarder) deliver(frame []byte) error {
	if f.circuitEnabled {
		if err := f.breaker.Allow(); err != nil {
			return crerr.Mark(crerr.Wrap(err, "webhook circuit open"), errWebhookTransient)
		}
	}

	// The frame is already serialized by the bus; the buffer only exists so
	// fasthttp can own a stable copy for the request lifetime.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(frame)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(buf.B)

	err := f.client.DoTimeout(req, resp, f.timeout)
	if err != nil {
		f.recordFailure()
		return crerr.Mark(crerr.Wrap(err, "post event frame"), errWebhookTransient)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		f.recordSuccess()
		return nil
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		f.recordFailure()
		return crerr.Mark(crerr.Newf("webhook responded %d", status), errWebhookTransient)
	default:
		// 4xx means the receiver rejected the frame; retrying cannot help.
		f.recordSuccess()
		return crerr.Newf("webhook rejected frame with status %d", status)
	}
}

func (f *WebhookForwarder) recordSuccess() {
	if f.circuitEnabled {
		f.breaker.RecordSuccess()
	}
}

func (f *WebhookForwarder) recordFailure() {
	if f.circuitEnabled {
		f.breaker.RecordFailure()
	}
}
