// Package relay subscribes to a WebSocket chat relay and delivers message
// text in arrival order.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultReconnectDelay is the pause between connection attempts.
const DefaultReconnectDelay = 3 * time.Second

// Handler receives the text of each chat event.
type Handler func(text string)

// event is the only shape consumed from the relay.
type event struct {
	Text *string `json:"text"`
}

// Subscriber reads chat events from a relay endpoint.
type Subscriber struct {
	URL            string
	Header         http.Header
	ReconnectDelay time.Duration
	Dialer         *websocket.Dialer
	Logger         *slog.Logger

	// OnError, when set, is called with each failed connection attempt.
	OnError func(error)
}

// NewSubscriber creates a subscriber for the relay at url.
func NewSubscriber(url string, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		URL:            url,
		ReconnectDelay: DefaultReconnectDelay,
		Dialer:         websocket.DefaultDialer,
		Logger:         logger,
	}
}

// Subscribe connects once and calls h for every event until ctx is done or
// the connection drops. Frames without a string text field are skipped.
func (s *Subscriber) Subscribe(ctx context.Context, h Handler) error {
	conn, _, err := s.Dialer.DialContext(ctx, s.URL, s.Header)
	if err != nil {
		return fmt.Errorf("dialing relay: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the caller cancels.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading relay: %w", err)
		}
		if kind != websocket.TextMessage {
			continue
		}

		text, ok := decode(data)
		if !ok {
			s.Logger.Debug("skipping relay frame", "bytes", len(data))
			continue
		}
		h(text)
	}
}

// Run keeps a subscription alive, reconnecting after a fixed delay whenever
// the connection fails. It only returns once ctx is done.
func (s *Subscriber) Run(ctx context.Context, h Handler) error {
	delay := s.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}

	for {
		err := s.Subscribe(ctx, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.Logger.Warn("relay connection lost", "url", s.URL, "error", err)
			if s.OnError != nil {
				s.OnError(err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func decode(data []byte) (string, bool) {
	var ev event
	if err := json.Unmarshal(data, &ev); err != nil || ev.Text == nil {
		return "", false
	}
	return *ev.Text, true
}
