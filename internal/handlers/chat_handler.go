package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/middleware"
	"github.com/heartlinkapp/heartlink/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
	log *zap.SugaredLogger
	dev bool
}

func NewChatHandler(svc *service.ChatService, log *zap.SugaredLogger, dev bool) *ChatHandler {
	return &ChatHandler{svc: svc, log: log, dev: dev}
}

type createChatReq struct {
	MatchedUserID string `json:"matchedUserId"`
}

// CreateChat returns the pair's chat id, reusing an existing chat when present.
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	var req createChatReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "matchedUserId required",
		})
	}
	chatID, err := h.svc.EnsureChat(c.Context(), middleware.UserID(c), req.MatchedUserID)
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"chatId":  chatID,
	})
}

func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	chats, err := h.svc.ListChats(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"chats":   chats,
	})
}

func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	detail, err := h.svc.GetChat(c.Context(), middleware.UserID(c), c.Params("chatId"))
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"chat": fiber.Map{
			"_id":             detail.Chat.ID.Hex(),
			"participants":    detail.Chat.Participants,
			"messages":        detail.Chat.Messages,
			"chatPartner":     detail.Partner,
			"partnerOnline":   detail.PartnerOnline,
			"partnerLastSeen": detail.PartnerLastSeen,
		},
	})
}
