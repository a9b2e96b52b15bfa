package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 8)}
}

func TestHub_BroadcastToUserHitsAllConnections(t *testing.T) {
	h := NewHub()
	a1 := newTestClient(1)
	a2 := newTestClient(1)
	b := newTestClient(2)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)

	h.BroadcastToUser(1, map[string]string{"hello": "world"})

	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.Send:
			var decoded map[string]string
			if err := json.Unmarshal(msg, &decoded); err != nil || decoded["hello"] != "world" {
				t.Errorf("bad payload %s", msg)
			}
		default:
			t.Errorf("user 1 connection did not receive the message")
		}
	}
	select {
	case <-b.Send:
		t.Errorf("user 2 must not receive user 1's message")
	default:
	}
}

func TestHub_CloseUnregisters(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)
	if h.ClientCount() != 1 {
		t.Fatalf("count = %d, want 1", h.ClientCount())
	}
	c.Close()
	if h.ClientCount() != 0 {
		t.Errorf("count = %d after close, want 0", h.ClientCount())
	}
	// Double close is a no-op, not a panic.
	c.Close()
}

func TestConversationRoom_BroadcastSkipsSender(t *testing.T) {
	hub := NewChatHub()
	room := hub.GetOrCreateRoom(7, 1, 2)
	renter := newTestClient(1)
	owner := newTestClient(2)
	room.Join(renter)
	room.Join(owner)

	room.Broadcast(renter, map[string]string{"body": "hi"})

	select {
	case <-owner.Send:
	default:
		t.Errorf("owner did not receive the message")
	}
	select {
	case <-renter.Send:
		t.Errorf("sender must not receive its own message")
	default:
	}
}

func TestConversationRoom_MemberOnline(t *testing.T) {
	hub := NewChatHub()
	room := hub.GetOrCreateRoom(7, 1, 2)
	renter := newTestClient(1)
	room.Join(renter)

	if !room.MemberOnline(1) {
		t.Errorf("renter is joined, should be online")
	}
	if room.MemberOnline(2) {
		t.Errorf("owner never joined, should be offline")
	}
	room.Leave(renter)
	if room.MemberOnline(1) {
		t.Errorf("renter left, should be offline")
	}
}

func TestChatHub_GetOrCreateRoomIsStable(t *testing.T) {
	hub := NewChatHub()
	r1 := hub.GetOrCreateRoom(7, 1, 2)
	r2 := hub.GetOrCreateRoom(7, 1, 2)
	if r1 != r2 {
		t.Errorf("same conversation must map to the same room")
	}
	hub.RemoveRoom(7)
	if hub.GetRoom(7) != nil {
		t.Errorf("removed room still present")
	}
}
