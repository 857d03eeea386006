package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

// Frame is one message of the live feed socket
type Frame struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	models.FeedPage
}

// Result converts the frame into a settled fetch result
func (f Frame) Result() async.Result[models.FeedPage] {
	if !f.Success {
		return async.Fail[models.FeedPage](f.Message)
	}
	return async.Succeed(f.FeedPage)
}

// Stream reads feed frames from a websocket endpoint
type Stream struct {
	URL              string
	Header           http.Header
	HandshakeTimeout time.Duration
	ReadLimit        int64
}

// NewStream creates a stream for url, e.g. "ws://host/orders/all".
func NewStream(url string) *Stream {
	return &Stream{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		ReadLimit:        1 << 20,
	}
}

// Run dials the endpoint and calls handle for every frame until ctx is done or
// the connection fails. A cancelled context is not reported as an error.
func (s *Stream) Run(ctx context.Context, handle func(async.Result[models.FeedPage])) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.URL, s.Header)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("feed stream dial: %w", err)
	}
	conn.SetReadLimit(s.ReadLimit)

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
			conn.Close()
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed stream read: %w", err)
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			handle(async.FailWith[models.FeedPage](errors.New("malformed feed frame")))
			continue
		}
		handle(frame.Result())
	}
}
