package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "studio-session/1"

// Event types sent to the automation service
const (
	EventSessionStarted  = "session_started"
	EventSessionRestored = "session_restored"
	EventSessionArchived = "session_archived"
)

// Event is one outbound message. Payload fields are merged into the JSON
// body next to the "type" and "timestamp" discriminators.
type Event struct {
	Type    string
	At      time.Time
	Payload map[string]any
}

// Notifier delivers events to the external automation service
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoopNotifier drops every event
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }

// WebhookNotifier posts events as JSON, routing each type to its own URL
// and falling back to a default URL.
type WebhookNotifier struct {
	defaultURL string
	urls       map[string]string
	client     *http.Client
}

// NewWebhookNotifier builds a notifier. With no URLs at all it returns a
// NoopNotifier.
func NewWebhookNotifier(defaultURL string, urls map[string]string, timeout time.Duration) Notifier {
	defaultURL = strings.TrimSpace(defaultURL)
	routes := make(map[string]string, len(urls))
	for k, v := range urls {
		if v = strings.TrimSpace(v); v != "" {
			routes[k] = v
		}
	}
	if defaultURL == "" && len(routes) == 0 {
		return NoopNotifier{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		defaultURL: defaultURL,
		urls:       routes,
		client:     &http.Client{Timeout: timeout},
	}
}

func (w *WebhookNotifier) endpoint(eventType string) string {
	if url, ok := w.urls[eventType]; ok {
		return url
	}
	return w.defaultURL
}

// Notify posts the event; a non-2xx response is an error
func (w *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	endpoint := w.endpoint(event.Type)
	if endpoint == "" {
		return nil
	}

	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	body := make(map[string]any, len(event.Payload)+2)
	for k, v := range event.Payload {
		body[k] = v
	}
	body["type"] = event.Type
	body["timestamp"] = at.UTC().Format(time.RFC3339)

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", event.Type, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s event: %w", event.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s event: status %d: %s", event.Type, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
