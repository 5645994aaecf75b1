// Package realtime is the websocket relay: one room per user id, any number
// of live sessions per room. Notifications and chat messages are pushed to
// every session of the target user.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/theline-social/theline/pkg/logger"
)

// Event is the frame every push is wrapped in.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.userID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.userID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.userID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.userID)
	}
}

// Push delivers an event to every live session of the user. A session whose
// send buffer is full is dropped rather than blocking the caller.
func (h *Hub) Push(userID uint, event string, payload any) {
	frame, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		logger.Warn("push marshal failed", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[userID]
	for c := range room {
		select {
		case c.send <- frame:
		default:
			delete(room, c)
			close(c.send)
			logger.Warn("slow websocket session dropped", zap.Uint("user", userID))
		}
	}
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

// IsOnline reports whether the user has at least one live session.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

// Online returns the number of live sessions for the user.
func (h *Hub) Online(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
