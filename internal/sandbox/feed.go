package sandbox

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// subscriber is one feed websocket connection
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans feed frames out to every subscriber
type hub struct {
	mu      sync.Mutex
	clients map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*subscriber]struct{})}
}

func (h *hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[sub] = struct{}{}
}

func (h *hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sub]; ok {
		delete(h.clients, sub)
		close(sub.send)
	}
}

// broadcast queues msg for every subscriber. Subscribers that cannot keep up
// are dropped.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.send <- msg:
		default:
			delete(h.clients, sub)
			close(sub.send)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		delete(h.clients, sub)
		close(sub.send)
	}
}

// frame encodes the current feed page as a socket message
func (s *Server) frame() ([]byte, error) {
	page, err := s.feedPage(nil)
	if err != nil {
		return json.Marshal(gin.H{"success": false, "message": "feed unavailable"})
	}
	return json.Marshal(feedBody(page))
}

// publishFeed pushes the current feed to every subscriber
func (s *Server) publishFeed() {
	msg, err := s.frame()
	if err != nil {
		s.logger.Warn("encode feed frame", zap.Error(err))
		return
	}
	s.hub.broadcast(msg)
}

// handleFeedSocket streams the feed, starting with the current page
func (s *Server) handleFeedSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, 16)}
	if msg, err := s.frame(); err == nil {
		sub.send <- msg
	}
	s.hub.add(sub)

	go sub.writePump()
	sub.readPump()
	s.hub.remove(sub)
}

// readPump discards client messages and returns once the connection closes
func (sub *subscriber) readPump() {
	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (sub *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case message, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
