package ws

import (
	"sync"

	"github.com/heartlinkapp/heartlink/internal/metrics"
)

// Hub groups live connections by chat id. One connection may sit in several
// groups at once; membership is dropped as a whole on disconnect.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) Join(chatID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*Client]bool)
	}
	h.rooms[chatID][c] = true
}

func (h *Hub) Leave(chatID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[chatID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// RemoveClient drops the connection from every group it joined.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for chatID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// Broadcast sends data to every member of the group, the sender's own
// connections included. Slow clients are dropped rather than blocked on:
// they are removed from every group and closed, after the lock is released.
func (h *Hub) Broadcast(chatID string, data []byte) {
	h.mu.RLock()
	members := h.rooms[chatID]
	if len(members) == 0 {
		h.mu.RUnlock()
		return
	}
	metrics.MessagesRelayed.Inc()
	var slow []*Client
	for c := range members {
		if !c.trySend(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.RemoveClient(c)
		c.Close()
	}
}

func (h *Hub) Members(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}
