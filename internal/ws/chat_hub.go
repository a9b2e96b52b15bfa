package ws

import (
	"encoding/json"
	"sync"
)

// ConversationRoom is one room per conversation (renter + owner).
type ConversationRoom struct {
	ConversationID uint
	RenterID       uint
	OwnerID        uint
	clients        map[*Client]struct{}
	mu             sync.RWMutex
}

func NewConversationRoom(conversationID, renterID, ownerID uint) *ConversationRoom {
	return &ConversationRoom{
		ConversationID: conversationID,
		RenterID:       renterID,
		OwnerID:        ownerID,
		clients:        make(map[*Client]struct{}),
	}
}

func (r *ConversationRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *ConversationRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *ConversationRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// MemberOnline reports whether the given user has a live connection in the
// room. Used to skip the push notification when the recipient is watching.
func (r *ConversationRoom) MemberOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

func (r *ConversationRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds all conversation rooms by conversation ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*ConversationRoom
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*ConversationRoom)}
}

func (h *ChatHub) GetOrCreateRoom(conversationID, renterID, ownerID uint) *ConversationRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[conversationID]; ok {
		return r
	}
	r := NewConversationRoom(conversationID, renterID, ownerID)
	h.rooms[conversationID] = r
	return r
}

func (h *ChatHub) GetRoom(conversationID uint) *ConversationRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[conversationID]
}

func (h *ChatHub) RemoveRoom(conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, conversationID)
}
