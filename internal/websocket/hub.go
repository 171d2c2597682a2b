package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const proctorChannel = "proctor_events"

// Hub fans confirmed cheating events out to every connected proctor
// console. With Redis configured, events published on one instance
// reach consoles connected to the others.
type Hub struct {
	// ProctorID -> connections (a proctor may watch from several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ProctorID] = append(h.clients[client.ProctorID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Proctor console connected", map[string]interface{}{"proctor_id": client.ProctorID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ProctorID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ProctorID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ProctorID]) == 0 {
					delete(h.clients, client.ProctorID)
					h.logger.Info("Hub", "Proctor console disconnected", map[string]interface{}{"proctor_id": client.ProctorID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers a notice to every console. With Redis configured
// the notice goes through the pubsub channel so every instance,
// including this one, delivers it exactly once. A failed publish falls
// back to local delivery so an unreachable Redis never blinds the
// consoles on this instance.
func (h *Hub) Broadcast(notice dto.ProctorNotice) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "cheating_event",
		"data": notice,
	})

	if h.rdb != nil {
		err := h.rdb.Publish(context.Background(), proctorChannel, data).Err()
		if err == nil {
			return
		}
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
	}
	h.deliverLocal(data)
}

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Console send buffer full, dropping connection", map[string]interface{}{"proctor_id": client.ProctorID})
				close(client.Send)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, proctorChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliverLocal([]byte(msg.Payload))
	}
}
