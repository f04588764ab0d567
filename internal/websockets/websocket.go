package websockets

import (
	"hosteldesk/config"
	"hosteldesk/internal/events"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING      = "ping"
	MESSAGE_TYPE_PONG      = "pong"
	MESSAGE_TYPE_EVENT     = "event"
	PING_INTERVAL          = 30 * time.Second
	PONG_TIMEOUT           = 60 * time.Second
	WRITE_TIMEOUT          = 10 * time.Second
	MAX_MESSAGE_SIZE       = 64 * 1024
	SEND_CHANNEL_SIZE      = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

// Manager relays allocation and complaint events to connected admin
// dashboards. Connections are read-mostly; the only inbound message the
// server reacts to is ping.
type Manager struct {
	hub      *Hub
	config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus, config config.Config) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		config:   config,
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToEvents(); err != nil {
		return nil, log.Err("failed to subscribe to event channels", err)
	}

	return manager, nil
}

func (m *Manager) subscribeToEvents() error {
	relay := func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        event.ID,
			Type:      MESSAGE_TYPE_EVENT,
			Channel:   event.Channel.String(),
			Data:      withEventType(event),
			Timestamp: event.Timestamp,
		})
		return nil
	}

	if err := m.eventBus.Subscribe(events.ALLOCATIONS_CHANNEL, relay); err != nil {
		return err
	}
	return m.eventBus.Subscribe(events.COMPLAINTS_CHANNEL, relay)
}

func withEventType(event events.Event) map[string]any {
	data := make(map[string]any, len(event.Data)+1)
	for k, v := range event.Data {
		data[k] = v
	}
	data["eventType"] = string(event.Type)
	return data
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")
	clientID := uuid.New().String()

	client := &Client{
		ID:         clientID,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	log.Info("Client connected", "clientID", clientID)

	defer func() {
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		log.Info("Client disconnected", "clientID", clientID)
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) BroadcastMessage(message Message) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	m.hub.broadcast <- message
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	_ = c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Er("unexpected close", err, "clientID", c.ID)
			}
			return
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.send <- Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now(),
			}
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("failed to write message", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
