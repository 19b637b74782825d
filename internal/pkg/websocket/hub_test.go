package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
)

func newTestClient(h *Hub, userID int64) *Client {
	return &Client{
		hub:    h,
		send:   make(chan []byte, 8),
		userID: userID,
		rooms:  make(map[int64]bool),
		logger: zerolog.Nop(),
	}
}

func receiveEnvelope(t *testing.T, c *Client) *Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("failed to decode envelope: %v", err)
		}
		return &envelope
	default:
		t.Fatalf("expected an event on the send channel")
		return nil
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)

	h.JoinRoom(a, 7)
	h.JoinRoom(b, 7)
	if got := h.RoomClientCount(7); got != 2 {
		t.Fatalf("expected 2 clients in room, got %d", got)
	}

	h.LeaveRoom(a, 7)
	if got := h.RoomClientCount(7); got != 1 {
		t.Fatalf("expected 1 client in room, got %d", got)
	}
	if a.rooms[7] {
		t.Fatalf("client must forget the room it left")
	}

	h.LeaveRoom(b, 7)
	if got := h.RoomClientCount(7); got != 0 {
		t.Fatalf("expected empty room, got %d clients", got)
	}
}

func TestBroadcastToRoomIncludesSender(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	outsider := newTestClient(h, 3)

	h.JoinRoom(a, 7)
	h.JoinRoom(b, 7)
	h.JoinRoom(outsider, 8)

	h.BroadcastToRoom(7, EventReceiveMessage, &models.Message{ID: 1, ChatID: 7, SenderID: 1, Content: "hi"})

	for _, c := range []*Client{a, b} {
		envelope := receiveEnvelope(t, c)
		if envelope.Event != EventReceiveMessage {
			t.Fatalf("expected %s, got %s", EventReceiveMessage, envelope.Event)
		}
	}
	if len(outsider.send) != 0 {
		t.Fatalf("client in another room must not receive the event")
	}
}

func TestBroadcastToRoomExceptSkipsUser(t *testing.T) {
	h := NewHub(zerolog.Nop())
	typist := newTestClient(h, 1)
	typistPhone := newTestClient(h, 1)
	other := newTestClient(h, 2)

	h.JoinRoom(typist, 7)
	h.JoinRoom(typistPhone, 7)
	h.JoinRoom(other, 7)

	h.BroadcastToRoomExcept(7, 1, EventUserTyping, &typingNotice{ChatID: 7, UserID: 1})

	if len(typist.send) != 0 || len(typistPhone.send) != 0 {
		t.Fatalf("typing indicator must not echo back to any of the author's connections")
	}
	envelope := receiveEnvelope(t, other)
	if envelope.Event != EventUserTyping {
		t.Fatalf("expected %s, got %s", EventUserTyping, envelope.Event)
	}
}

func TestSendToUserTargetsAllConnections(t *testing.T) {
	h := NewHub(zerolog.Nop())
	laptop := newTestClient(h, 1)
	phone := newTestClient(h, 1)
	other := newTestClient(h, 2)

	h.registerClient(laptop)
	h.registerClient(phone)
	h.registerClient(other)

	h.SendToUser(1, EventNewNotification, &models.Notification{ID: 5, UserID: 1})

	for _, c := range []*Client{laptop, phone} {
		envelope := receiveEnvelope(t, c)
		if envelope.Event != EventNewNotification {
			t.Fatalf("expected %s, got %s", EventNewNotification, envelope.Event)
		}
	}
	if len(other.send) != 0 {
		t.Fatalf("other users must not receive the notification")
	}

	// Delivery to an offline user is a no-op
	h.SendToUser(99, EventNewNotification, &models.Notification{ID: 6, UserID: 99})
}

func TestUnregisterCleansUp(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := newTestClient(h, 1)

	h.registerClient(a)
	h.JoinRoom(a, 7)
	if !h.IsUserConnected(1) {
		t.Fatalf("expected user 1 to be connected")
	}

	h.unregisterClient(a)
	if h.IsUserConnected(1) {
		t.Fatalf("expected user 1 to be disconnected")
	}
	if got := h.RoomClientCount(7); got != 0 {
		t.Fatalf("expected rooms to be cleaned up, got %d clients", got)
	}
	if _, ok := <-a.send; ok {
		t.Fatalf("expected send channel to be closed")
	}

	// A second unregister of the same client must be a no-op
	h.unregisterClient(a)
}

type fakeSender struct {
	last *dto.SendMessageRequest
	err  error
}

func (f *fakeSender) Send(ctx context.Context, req *dto.SendMessageRequest) (*models.Message, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: 42, ChatID: req.ChatID, SenderID: req.SenderID, Content: req.Content}, nil
}

func TestHandleSendMessageUsesAuthenticatedSender(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sender := &fakeSender{}
	h.SetMessageSender(sender)

	author := newTestClient(h, 1)
	peer := newTestClient(h, 2)
	h.JoinRoom(author, 7)
	h.JoinRoom(peer, 7)

	// The payload carries no sender; the connection's identity is used
	raw, _ := json.Marshal(&sendMessagePayload{ChatID: 7, Content: "hello"})
	author.handleSendMessage(raw)

	if sender.last == nil {
		t.Fatalf("expected the message service to be called")
	}
	if sender.last.SenderID != 1 {
		t.Fatalf("expected sender 1, got %d", sender.last.SenderID)
	}

	for _, c := range []*Client{author, peer} {
		envelope := receiveEnvelope(t, c)
		if envelope.Event != EventReceiveMessage {
			t.Fatalf("expected %s, got %s", EventReceiveMessage, envelope.Event)
		}
	}
}

func TestHandleEventDispatchesTyping(t *testing.T) {
	h := NewHub(zerolog.Nop())
	author := newTestClient(h, 1)
	peer := newTestClient(h, 2)
	h.JoinRoom(author, 7)
	h.JoinRoom(peer, 7)

	data, _ := json.Marshal(&typingPayload{ChatID: 7, DisplayName: "Ada Lovelace"})
	author.handleEvent(&Envelope{Event: EventTyping, Data: data})

	envelope := receiveEnvelope(t, peer)
	if envelope.Event != EventUserTyping {
		t.Fatalf("expected %s, got %s", EventUserTyping, envelope.Event)
	}

	var notice typingNotice
	if err := json.Unmarshal(envelope.Data, &notice); err != nil {
		t.Fatalf("failed to decode typing notice: %v", err)
	}
	if notice.UserID != 1 || notice.ChatID != 7 {
		t.Fatalf("unexpected notice %+v", notice)
	}
	if notice.DisplayName != "Ada Lovelace" {
		t.Fatalf("expected the typist's display name to be relayed, got %q", notice.DisplayName)
	}
}
