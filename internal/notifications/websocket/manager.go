package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Message is the frame pushed to connected clients.
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Manager tracks connected clients and routes messages to them. A user may
// hold several connections (multiple tabs); pushes go to all of them.
type Manager struct {
	mu       sync.RWMutex
	byUser   map[uuid.UUID]map[*Connection]bool
	upgrader websocket.Upgrader
	logger   *zap.Logger
	closed   bool
}

// Connection is one client websocket.
type Connection struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan Message
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		byUser: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin policy is enforced at the reverse proxy.
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated HTTP request and starts the
// read/write pumps for it.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		userID: userID,
		conn:   conn,
		send:   make(chan Message, 64),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return fmt.Errorf("manager is closed")
	}
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[*Connection]bool)
	}
	m.byUser[userID][c] = true
	m.mu.Unlock()

	go m.writePump(c)
	go m.readPump(c)
	return nil
}

// SendToUser pushes a message to every live connection of one user. Users
// without a connection are skipped silently.
func (m *Manager) SendToUser(userID uuid.UUID, msg Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for c := range m.byUser[userID] {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop rather than block the dispatcher.
			m.logger.Warn("dropping websocket message",
				zap.String("user_id", userID.String()))
		}
	}
}

// Broadcast pushes a message to every connected client.
func (m *Manager) Broadcast(msg Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conns := range m.byUser {
		for c := range conns {
			select {
			case c.send <- msg:
			default:
			}
		}
	}
}

// Close tears down every connection.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, conns := range m.byUser {
		for c := range conns {
			close(c.send)
		}
	}
	m.byUser = make(map[uuid.UUID]map[*Connection]bool)
}

func (m *Manager) remove(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conns, ok := m.byUser[c.userID]; ok && conns[c] {
		delete(conns, c)
		if len(conns) == 0 {
			delete(m.byUser, c.userID)
		}
		close(c.send)
	}
}

// readPump consumes client frames until the connection dies. Clients do not
// send application messages; reading only services close and pong frames.
func (m *Manager) readPump(c *Connection) {
	defer func() {
		m.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (m *Manager) writePump(c *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
