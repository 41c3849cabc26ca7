package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var ErrNotConnected = errors.New("user not connected")

// Event is pushed to household members when a shared task changes.
type Event struct {
	Type        string    `json:"type"` // task_completed | task_uncompleted
	TaskID      string    `json:"taskId"`
	HouseholdID string    `json:"householdId"`
	ActorID     string    `json:"actorId"`
	At          time.Time `json:"at"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla connections allow one concurrent writer
}

// Manager keeps track of active websocket connections, one per user.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*client // userID -> client
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*client)}
}

// Register registers a user connection, replacing any existing one.
func (m *Manager) Register(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.clients[userID]; ok && old.conn != conn {
		// close old connection to avoid leaks
		_ = old.conn.Close()
	}
	m.clients[userID] = &client{conn: conn}
}

// Unregister removes conn if it is still the user's current connection.
func (m *Manager) Unregister(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[userID]; ok && c.conn == conn {
		delete(m.clients, userID)
	}
	_ = conn.Close()
}

// SendToUser writes a text message to a user if connected.
func (m *Manager) SendToUser(userID string, payload []byte) error {
	m.mu.RLock()
	c, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok || c == nil {
		return ErrNotConnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Broadcast sends ev to every connected user in userIDs. Users without a
// connection are skipped.
func (m *Manager) Broadcast(userIDs []string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	for _, id := range userIDs {
		if err := m.SendToUser(id, payload); err != nil && !errors.Is(err, ErrNotConnected) {
			log.Printf("ws: send to %s: %v", id, err)
		}
	}
}

// IsConnected returns whether a user is currently connected.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// List returns a copy of current connected user IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	return ids
}
