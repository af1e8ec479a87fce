// Package notify delivers rendered order messages to the shopkeeper's
// WhatsApp number, either through a gateway HTTP API or as a wa.me link
// the storefront can open client-side.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jvitormendess/jaci-api/internal/resilience"
)

// Sink sends a plain-text message to a destination phone number.
type Sink interface {
	Send(ctx context.Context, destination, text string) error
}

// GatewaySink posts messages to a WhatsApp gateway endpoint. When a Breaker
// is set, calls are refused while the gateway is considered down; the task
// queue retries refused deliveries later.
type GatewaySink struct {
	URL     string
	Token   string
	Client  *http.Client
	Breaker *resilience.Breaker
}

// HTTPClient returns a client configured for gateway delivery.
func HTTPClient(timeoutMs int) *http.Client {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	return &http.Client{
		Timeout:   time.Duration(timeoutMs) * time.Millisecond,
		Transport: otelhttp.NewTransport(&http.Transport{}),
	}
}

func (s *GatewaySink) Send(ctx context.Context, destination, text string) error {
	if s.URL == "" {
		return errors.New("gateway sink: url not configured")
	}
	if err := validateURL(s.URL); err != nil {
		return err
	}
	if s.Client == nil {
		s.Client = HTTPClient(0)
	}
	if s.Breaker != nil && !s.Breaker.Allow() {
		return resilience.ErrOpenCircuit
	}
	err := s.deliver(ctx, destination, text)
	if s.Breaker != nil {
		s.Breaker.Report(err == nil)
	}
	return err
}

func (s *GatewaySink) deliver(ctx context.Context, destination, text string) error {
	body, err := json.Marshal(struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}{To: destination, Message: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "jaci-api/1.0")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway sink: status=%d body=%s", resp.StatusCode, snippet)
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid gateway url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.New("gateway url must be http or https")
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" {
			return errors.New("http gateway only allowed for localhost")
		}
	}
	if parsed.Host == "" {
		return errors.New("gateway url must include host")
	}
	return nil
}

// WhatsAppLink builds a wa.me deep link that opens a chat with the given
// phone number and the message prefilled.
func WhatsAppLink(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text)
}
