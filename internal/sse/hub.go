package sse

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Info("SSE client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Info("SSE client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("SSE client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
}

// PublishProgressUpdate 进度变更广播（采购/卡片/辅料三路共用）
func (h *Hub) PublishProgressUpdate(kind, orderID, sku string, percent int) {
	data := fmt.Sprintf(`{"kind":"%s","order_id":"%s","sku":"%s","percent":%d}`, kind, orderID, sku, percent)
	h.Broadcast(Event{
		EventType: "progress_update",
		Data:      data,
	})
}

// PublishInspectionUpdate 检验状态广播
func (h *Hub) PublishInspectionUpdate(orderID, sku, status, result string) {
	data := fmt.Sprintf(`{"order_id":"%s","sku":"%s","status":"%s","result":"%s"}`, orderID, sku, status, result)
	h.Broadcast(Event{
		EventType: "inspection_update",
		Data:      data,
	})
}
