package websocket

import (
	"context"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ConnectionGauge is satisfied by prometheus.Gauge.
type ConnectionGauge interface {
	Inc()
	Dec()
}

type ChatHandler struct {
	chat   service.IChatService
	gauge  ConnectionGauge
	logger logger.ILogger
}

func NewChatHandler(chat service.IChatService, gauge ConnectionGauge, logger logger.ILogger) *ChatHandler {
	return &ChatHandler{chat: chat, gauge: gauge, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/v1/ws", h.Upgrade)
}

// Upgrade accepts ?session_id= to resume an existing conversation.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	sessionID := c.Query("session_id")

	return websocket.New(func(conn *websocket.Conn) {
		h.ServeWs(conn, sessionID)
	})(c)
}

// ServeWs runs the connection until the peer goes away.
func (h *ChatHandler) ServeWs(conn *websocket.Conn, sessionID string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if h.gauge != nil {
		h.gauge.Inc()
		defer h.gauge.Dec()
	}

	client := &Client{
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
		chat:      h.chat,
		logger:    h.logger,
	}

	h.logger.Info("WEBSOCKET", "Chat connection opened", map[string]interface{}{"session_id": sessionID})

	done := make(chan struct{})
	go func() {
		client.writePump()
		close(done)
	}()
	client.readPump(ctx)
	<-done

	h.logger.Info("WEBSOCKET", "Chat connection closed", map[string]interface{}{"session_id": client.SessionID})
}
