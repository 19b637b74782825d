package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/pkg/auth"
)

// Handler upgrades authenticated HTTP requests to gateway connections
type Handler struct {
	hub        *Hub
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, jwtService *auth.JWTService, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// HandleConnection authenticates the handshake and upgrades it to a
// WebSocket connection. The token comes from the "token" query parameter
// or the Authorization header; an invalid token rejects the handshake
// before the upgrade happens.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		extracted, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing authentication token",
			})
			return
		}
		token = extracted
	}

	claims, err := h.jwtService.ValidateAndExtractClaims(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid authentication token",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", claims.UserID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: claims.UserID,
		rooms:  make(map[int64]bool),
		logger: h.logger,
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", claims.UserID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
