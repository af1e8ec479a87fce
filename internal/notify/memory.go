package notify

import (
	"context"
	"sync"
)

// SentMessage records one delivery made through InMemorySink.
type SentMessage struct {
	Destination string
	Text        string
}

// InMemorySink collects messages for tests instead of delivering them.
type InMemorySink struct {
	mu   sync.Mutex
	sent []SentMessage
}

func (s *InMemorySink) Send(_ context.Context, destination, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentMessage{Destination: destination, Text: text})
	return nil
}

// Sent returns a copy of everything delivered so far.
func (s *InMemorySink) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.sent))
	copy(out, s.sent)
	return out
}
