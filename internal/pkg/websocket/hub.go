package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/metrics"
)

// Event names exchanged over the gateway.
const (
	EventJoinChat        = "join_chat"
	EventLeaveChat       = "leave_chat"
	EventSendMessage     = "send_message"
	EventTyping          = "typing"
	EventStopTyping      = "stop_typing"
	EventReceiveMessage  = "receive_message"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
	EventNewNotification = "new_notification"
	EventError           = "error"
)

// Envelope is the wire format for every gateway event
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// MessageSender persists chat messages arriving over the gateway
type MessageSender interface {
	Send(ctx context.Context, req *dto.SendMessageRequest) (*models.Message, error)
}

// Hub maintains the set of active clients, the chat rooms they joined,
// and a per-user registry used for direct notification delivery.
type Hub struct {
	// Clients subscribed to each chat room
	rooms map[int64]map[*Client]bool

	// All open connections per user; one user may hold several
	users map[int64]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to rooms and users maps
	mu sync.RWMutex

	// Persists messages received over the socket
	messages MessageSender

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[int64]map[*Client]bool),
		users:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// SetMessageSender wires the message persistence service into the hub.
// Called once during startup, before Run.
func (h *Hub) SetMessageSender(sender MessageSender) {
	h.messages = sender
}

// Run starts the hub, handling client registrations and disconnects
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client to the per-user registry
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[client.userID]; !ok {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true

	metrics.WebsocketConnections.Inc()

	h.logger.Info().
		Int64("userID", client.userID).
		Msg("Client registered")
}

// unregisterClient removes a client from every room and the user registry
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[client.userID]; ok {
		if _, ok := clients[client]; !ok {
			return
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.users, client.userID)
		}
	} else {
		return
	}

	for chatID := range client.rooms {
		h.removeFromRoom(client, chatID)
	}
	close(client.send)

	metrics.WebsocketConnections.Dec()

	h.logger.Info().
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

// JoinRoom subscribes a client to a chat room
func (h *Hub) JoinRoom(client *Client, chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*Client]bool)
	}
	h.rooms[chatID][client] = true
	client.rooms[chatID] = true

	h.logger.Debug().
		Int64("chatID", chatID).
		Int64("userID", client.userID).
		Msg("Client joined chat room")
}

// LeaveRoom unsubscribes a client from a chat room
func (h *Hub) LeaveRoom(client *Client, chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, chatID)
	delete(client.rooms, chatID)

	h.logger.Debug().
		Int64("chatID", chatID).
		Int64("userID", client.userID).
		Msg("Client left chat room")
}

// removeFromRoom drops a client from a room map. Caller must hold mu.
func (h *Hub) removeFromRoom(client *Client, chatID int64) {
	if clients, ok := h.rooms[chatID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// BroadcastToRoom delivers an event to every client subscribed to the room,
// the sender included.
func (h *Hub) BroadcastToRoom(chatID int64, event string, payload interface{}) {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal room event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[chatID] {
		h.deliver(client, data)
	}
}

// BroadcastToRoomExcept delivers an event to every client in the room except
// connections belonging to the given user. Used for typing indicators, which
// would be noise echoed back at their author.
func (h *Hub) BroadcastToRoomExcept(chatID, exceptUserID int64, event string, payload interface{}) {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal room event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[chatID] {
		if client.userID == exceptUserID {
			continue
		}
		h.deliver(client, data)
	}
}

// SendToUser delivers an event to every open connection of a single user.
// A user with no open connections is not an error; the event is dropped.
func (h *Hub) SendToUser(userID int64, event string, payload interface{}) {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal user event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		h.deliver(client, data)
	}
}

// deliver pushes encoded data to a client without blocking the hub.
// Caller must hold mu for reading.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn().
			Int64("userID", client.userID).
			Msg("Client send buffer full, dropping event")
	}
}

// RoomClientCount returns the number of clients subscribed to a room
func (h *Hub) RoomClientCount(chatID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[chatID])
}

// IsUserConnected reports whether the user has at least one open connection
func (h *Hub) IsUserConnected(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID]) > 0
}

// encodeEnvelope serializes an event and payload to the wire format
func encodeEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Envelope{Event: event, Data: data})
}
