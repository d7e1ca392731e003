// Package telemetry sends anonymous usage events to an optional collector.
// Delivery is best effort: failures are logged at debug level and dropped.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
)

// Event actions
const (
	ActionVerify   = "verify_click"
	ActionNewCheck = "new_check_click"
	ActionShare    = "share_click"
)

const queueSize = 64

// Event is one usage event
type Event struct {
	Action string                 `json:"event"`
	Params map[string]interface{} `json:"params,omitempty"`
	At     time.Time              `json:"at"`
}

// Collector accepts events without blocking the caller
type Collector interface {
	Track(action string, params map[string]interface{})
	Close() error
}

// New returns an HTTP collector when a URL is configured, otherwise a no-op
func New(cfg model.TelemetryConfig) Collector {
	if cfg.CollectorURL == "" {
		return Nop{}
	}
	return NewHTTPCollector(cfg)
}

// Nop discards every event
type Nop struct{}

func (Nop) Track(string, map[string]interface{}) {}
func (Nop) Close() error                         { return nil }

// HTTPCollector posts events as JSON from a single background goroutine.
// When the queue is full new events are dropped.
type HTTPCollector struct {
	url        string
	appName    string
	appVersion string
	client     *http.Client

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewHTTPCollector starts the delivery goroutine
func NewHTTPCollector(cfg model.TelemetryConfig) *HTTPCollector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	c := &HTTPCollector{
		url:        cfg.CollectorURL,
		appName:    cfg.AppName,
		appVersion: cfg.AppVersion,
		client:     &http.Client{Timeout: timeout},
		queue:      make(chan Event, queueSize),
		done:       make(chan struct{}),
	}
	go c.run()
	return c
}

// Track enqueues an event, stamping app_name and app_version
func (c *HTTPCollector) Track(action string, params map[string]interface{}) {
	merged := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	merged["app_name"] = c.appName
	merged["app_version"] = c.appVersion

	ev := Event{Action: action, Params: merged, At: time.Now().UTC()}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.queue <- ev:
	default:
		logging.Named("telemetry").Debug().Str("action", action).Msg("queue full, event dropped")
	}
}

// Close stops accepting events and waits for queued ones to be sent
func (c *HTTPCollector) Close() error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()

	<-c.done
	return nil
}

func (c *HTTPCollector) run() {
	defer close(c.done)
	log := logging.Named("telemetry")

	for ev := range c.queue {
		if err := c.send(ev); err != nil {
			log.Debug().Err(err).Str("action", ev.Action).Msg("event not delivered")
		}
	}
}

func (c *HTTPCollector) send(ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned HTTP %d", resp.StatusCode)
	}
	return nil
}
