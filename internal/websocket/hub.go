// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one dashboard notification, scoped to a campaign.
type Event struct {
	CampaignID int64       `json:"campaign_id"`
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload,omitempty"`
	At         time.Time   `json:"at"`
}

// Event types pushed to merchant dashboards.
const (
	EventParticipantPlayed = "participant.played"
	EventPrizeWon          = "prize.won"
	EventPrizeClaimed      = "prize.claimed"
)

type Hub struct {
	// Registered clients by campaign ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		logger:     logger,
	}
}

// Publish queues an event for every client watching the campaign.
// Non-blocking; events are dropped when the hub backlog is full.
func (h *Hub) Publish(event *Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("websocket broadcast backlog full, dropping event",
			zap.String("type", event.Type),
			zap.Int64("campaign_id", event.CampaignID),
		)
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.campaignID] == nil {
		h.clients[client.campaignID] = make(map[*Client]bool)
	}
	h.clients[client.campaignID][client] = true

	h.logger.Info("websocket client connected",
		zap.Int64("merchant_id", client.merchantID),
		zap.Int64("campaign_id", client.campaignID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[client.campaignID]; ok {
		if _, ok := set[client]; ok {
			delete(set, client)
			close(client.send)
			if len(set) == 0 {
				delete(h.clients, client.campaignID)
			}
		}
	}
}

func (h *Hub) deliver(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal websocket event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[event.CampaignID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer, skip this event for it.
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for client := range set {
			close(client.send)
			client.conn.Close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
