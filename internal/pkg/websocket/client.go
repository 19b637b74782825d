package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models/dto"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production you should restrict this
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// User ID authenticated at handshake time
	userID int64

	// Chat rooms this client has joined
	rooms map[int64]bool

	// Logger instance
	logger zerolog.Logger
}

// chatRef is the payload for join/leave/typing events
type chatRef struct {
	ChatID int64 `json:"chatId"`
}

// sendMessagePayload is the payload for send_message events
type sendMessagePayload struct {
	ChatID  int64  `json:"chatId"`
	Content string `json:"content"`
}

// typingPayload is the inbound payload for typing events; the display name
// comes from the client, the user id never does
type typingPayload struct {
	ChatID      int64  `json:"chatId"`
	DisplayName string `json:"displayName"`
}

// typingNotice is broadcast to the other room members
type typingNotice struct {
	ChatID      int64  `json:"chatId"`
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName"`
}

// errorNotice is sent back to the client when an event fails
type errorNotice struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// readPump pumps events from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("userID", c.userID).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("userID", c.userID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("userID", c.userID).
					Msg("WebSocket read error")
			}
			break
		}

		raw = bytes.TrimSpace(bytes.Replace(raw, newline, space, -1))

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.logger.Error().
				Err(err).
				Int64("userID", c.userID).
				Str("message", string(raw)).
				Msg("Failed to unmarshal client event")
			continue
		}

		c.handleEvent(&envelope)
	}
}

// handleEvent dispatches a single inbound event
func (c *Client) handleEvent(envelope *Envelope) {
	switch envelope.Event {
	case EventJoinChat:
		var ref chatRef
		if err := json.Unmarshal(envelope.Data, &ref); err != nil {
			c.sendError(envelope.Event, "invalid payload")
			return
		}
		c.hub.JoinRoom(c, ref.ChatID)

	case EventLeaveChat:
		var ref chatRef
		if err := json.Unmarshal(envelope.Data, &ref); err != nil {
			c.sendError(envelope.Event, "invalid payload")
			return
		}
		c.hub.LeaveRoom(c, ref.ChatID)

	case EventSendMessage:
		c.handleSendMessage(envelope.Data)

	case EventTyping:
		var payload typingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.sendError(envelope.Event, "invalid payload")
			return
		}
		c.hub.BroadcastToRoomExcept(payload.ChatID, c.userID, EventUserTyping,
			&typingNotice{ChatID: payload.ChatID, UserID: c.userID, DisplayName: payload.DisplayName})

	case EventStopTyping:
		var payload typingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.sendError(envelope.Event, "invalid payload")
			return
		}
		c.hub.BroadcastToRoomExcept(payload.ChatID, c.userID, EventUserStopTyping,
			&typingNotice{ChatID: payload.ChatID, UserID: c.userID, DisplayName: payload.DisplayName})

	default:
		c.logger.Debug().
			Str("event", envelope.Event).
			Int64("userID", c.userID).
			Msg("Unknown client event")
	}
}

// handleSendMessage persists the message, then fans it out to the room.
// The sender is always the authenticated user; the payload cannot spoof it.
func (c *Client) handleSendMessage(data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(EventSendMessage, "invalid payload")
		return
	}

	if c.hub.messages == nil {
		c.sendError(EventSendMessage, "messaging unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message, err := c.hub.messages.Send(ctx, &dto.SendMessageRequest{
		ChatID:   payload.ChatID,
		SenderID: c.userID,
		Content:  payload.Content,
	})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int64("chatID", payload.ChatID).
			Int64("userID", c.userID).
			Msg("Failed to persist socket message")
		c.sendError(EventSendMessage, err.Error())
		return
	}

	c.hub.BroadcastToRoom(payload.ChatID, EventReceiveMessage, message)
}

// sendError delivers an error notice back to this client only
func (c *Client) sendError(event, message string) {
	data, err := encodeEnvelope(EventError, &errorNotice{Event: event, Message: message})
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
