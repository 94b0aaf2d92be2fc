package websocket

import (
	"context"
	"encoding/json"
	"time"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// Client is one chat connection. Frames are handled in arrival order, so a
// connection never has more than one turn in flight.
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte

	chat   service.IChatService
	logger logger.ILogger
}

func (c *Client) readPump(ctx context.Context) {
	defer close(c.Send)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WEBSOCKET", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		// Turns can outlast the pong window
		c.Conn.SetReadDeadline(time.Time{})
		c.emit(c.handle(ctx, raw))
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) dto.ChatSocketResponse {
	var req dto.ChatSocketRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return dto.ChatSocketResponse{Type: "error", SessionId: c.SessionID, Error: "invalid frame"}
	}

	switch req.Type {
	case "reset":
		res, err := c.chat.ResetSession(ctx, &dto.ResetSessionRequest{SessionId: c.SessionID})
		if err != nil {
			return dto.ChatSocketResponse{Type: "error", SessionId: c.SessionID, Error: err.Error()}
		}
		c.SessionID = res.SessionId
		return dto.ChatSocketResponse{Type: "reset", SessionId: c.SessionID}

	case "message", "":
		res, err := c.chat.SendChat(ctx, &dto.SendChatRequest{SessionId: c.SessionID, Message: req.Message})
		if err != nil {
			return dto.ChatSocketResponse{Type: "error", SessionId: c.SessionID, Error: err.Error()}
		}
		c.SessionID = res.SessionId
		return dto.ChatSocketResponse{
			Type:            "reply",
			SessionId:       res.SessionId,
			Reply:           res.Reply,
			ActiveResponder: res.ActiveResponder,
		}

	default:
		return dto.ChatSocketResponse{Type: "error", SessionId: c.SessionID, Error: "unknown frame type " + req.Type}
	}
}

func (c *Client) emit(res dto.ChatSocketResponse) {
	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	c.Send <- payload
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
