package websockets

import (
	"sync"
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			func() {
				defer func() {
					if r := recover(); r != nil {
						_ = r
					}
				}()
				close(client.send)
			}()
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
}

func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	delete(m.hub.clients, client.ID)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	for _, client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Slow client, drop the message rather than block the hub.
			log.Warn("client send buffer full, dropping message",
				"clientID", client.ID, "messageID", message.ID)
		}
	}
}
