package ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/metrics"
	"github.com/heartlinkapp/heartlink/internal/models"
)

// Event types on the wire. Client-to-server: "join chat", "send message".
// Server-to-client: "new message", "error".
const (
	EventJoinChat    = "join chat"
	EventSendMessage = "send message"
	EventNewMessage  = "new message"
	EventError       = "error"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	ChatID string `json:"chatId"`
}

type sendPayload struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type newMessagePayload struct {
	ChatID  string          `json:"chatId"`
	Message *models.Message `json:"message"`
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// ChatBackend is the persistence surface the relay needs.
type ChatBackend interface {
	IsParticipant(ctx context.Context, chatID, userID string) (bool, error)
	AppendMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error)
}

type PresenceTracker interface {
	MarkOnline(ctx context.Context, userID string) error
	MarkOffline(ctx context.Context, userID string) error
}

type Handler struct {
	hub      *Hub
	auth     TokenVerifier
	chats    ChatBackend
	presence PresenceTracker
	log      *zap.SugaredLogger
}

func NewHandler(hub *Hub, auth TokenVerifier, chats ChatBackend, presence PresenceTracker, log *zap.SugaredLogger) *Handler {
	return &Handler{hub: hub, auth: auth, chats: chats, presence: presence, log: log}
}

// tokenKey is where Upgrade stashes the handshake token for handle.
const tokenKey = "handshake_token"

// Upgrade gates the route so only websocket upgrade requests reach Serve.
// The handshake token is captured here while headers are still available.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals(tokenKey, handshakeToken(c))
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// handshakeToken prefers the token query parameter; non-browser clients may
// send a bearer Authorization header instead.
func handshakeToken(c *fiber.Ctx) string {
	if tok := c.Query("token"); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (h *Handler) Serve() fiber.Handler {
	return websocket.New(h.handle)
}

// handle authenticates the handshake, then pumps inbound events until the
// connection drops. Group membership and presence are released on exit.
func (h *Handler) handle(conn *websocket.Conn) {
	token, _ := conn.Locals(tokenKey).(string)
	if token == "" {
		token = conn.Query("token")
	}
	userID, err := h.auth.Verify(token)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, errorEvent("Authentication error"))
		_ = conn.Close()
		return
	}

	client := NewClient(userID, conn)
	metrics.WsConnections.Inc()
	if h.presence != nil {
		_ = h.presence.MarkOnline(context.Background(), userID)
	}
	h.log.Infow("socket connected", "user_id", userID)

	go client.writePump()

	defer func() {
		h.hub.RemoveClient(client)
		client.Close()
		metrics.WsConnections.Dec()
		if h.presence != nil {
			_ = h.presence.MarkOffline(context.Background(), userID)
		}
		h.log.Infow("socket disconnected", "user_id", userID)
	}()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case EventJoinChat:
			h.onJoin(client, env.Payload)
		case EventSendMessage:
			h.onSend(client, env.Payload)
		}
	}
}

func (h *Handler) onJoin(c *Client, payload json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ChatID == "" {
		c.deliver(errorEvent("chatId required"))
		return
	}
	ok, err := h.chats.IsParticipant(context.Background(), p.ChatID, c.UserID)
	if err != nil || !ok {
		c.deliver(errorEvent("Not authorized to join this chat"))
		return
	}
	h.hub.Join(p.ChatID, c)
}

// onSend persists first, then broadcasts the stored message to the group.
// On failure the sender gets an error event; nothing is broadcast.
func (h *Handler) onSend(c *Client, payload json.RawMessage) {
	var p sendPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ChatID == "" {
		c.deliver(errorEvent("chatId required"))
		return
	}
	msg, err := h.chats.AppendMessage(context.Background(), p.ChatID, c.UserID, p.Message)
	if err != nil {
		h.log.Warnw("message persist failed", "chat_id", p.ChatID, "user_id", c.UserID, "err", err)
		c.deliver(errorEvent("Failed to send message"))
		return
	}
	out, err := json.Marshal(Envelope{
		Type:    EventNewMessage,
		Payload: mustJSON(newMessagePayload{ChatID: p.ChatID, Message: msg}),
	})
	if err != nil {
		return
	}
	h.hub.Broadcast(p.ChatID, out)
}

func (c *Client) deliver(data []byte) {
	c.trySend(data)
}

func errorEvent(message string) []byte {
	b, _ := json.Marshal(Envelope{
		Type:    EventError,
		Payload: mustJSON(fiber.Map{"message": message}),
	})
	return b
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
