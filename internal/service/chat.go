package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/events"
	"github.com/heartlinkapp/heartlink/internal/models"
	"github.com/heartlinkapp/heartlink/internal/repository"
)

// PresenceChecker reports socket-level liveness. Nil-safe at the call sites so
// the service works without redis configured.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
	LastSeen(ctx context.Context, userID string) (time.Time, error)
}

// ChatSummary is one entry of a user's chat list.
type ChatSummary struct {
	ID           string                `json:"_id"`
	Participants []string              `json:"participants"`
	Partner      models.ProfileSummary `json:"chatPartner"`
	LastMessage  *models.Message       `json:"lastMessage,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// ChatDetail is the full chat view for one participant. PartnerLastSeen is
// only set while the partner is offline and has disconnected at least once.
type ChatDetail struct {
	Chat            *models.Chat          `json:"-"`
	Partner         models.ProfileSummary `json:"chatPartner"`
	PartnerOnline   bool                  `json:"partnerOnline"`
	PartnerLastSeen *time.Time            `json:"partnerLastSeen,omitempty"`
}

type ChatService struct {
	chats    repository.ChatRepository
	users    repository.UserRepository
	presence PresenceChecker
	events   events.Publisher
	log      *zap.SugaredLogger
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository, presence PresenceChecker, pub events.Publisher, log *zap.SugaredLogger) *ChatService {
	return &ChatService{chats: chats, users: users, presence: presence, events: pub, log: log}
}

// EnsureChat returns the chat id for the pair, creating the chat when none
// exists yet. Existing chats are always reused, never duplicated.
func (s *ChatService) EnsureChat(ctx context.Context, userID, otherID string) (string, error) {
	if otherID == "" || otherID == userID {
		return "", apperr.Validation("A chat needs two distinct participants")
	}
	if _, err := s.users.FindByID(ctx, otherID); err != nil {
		return "", notFoundUser(err)
	}
	chat, err := s.chats.Create(ctx, &models.Chat{
		Participants: []string{userID, otherID},
	})
	if err != nil {
		return "", apperr.Internal("create chat", err)
	}
	return chat.ID.Hex(), nil
}

func (s *ChatService) ListChats(ctx context.Context, userID string) ([]ChatSummary, error) {
	chats, err := s.chats.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list chats", err)
	}

	out := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		sum := ChatSummary{
			ID:           c.ID.Hex(),
			Participants: c.Participants,
			UpdatedAt:    c.UpdatedAt,
		}
		if partner, err := s.users.FindByID(ctx, c.Partner(userID)); err == nil {
			sum.Partner = SummaryOf(partner)
		}
		if n := len(c.Messages); n > 0 {
			sum.LastMessage = &c.Messages[n-1]
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, chatID string) (*ChatDetail, error) {
	chat, err := s.findChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, apperr.Forbidden("Not authorized to view this chat")
	}

	detail := &ChatDetail{Chat: chat}
	if partner, err := s.users.FindByID(ctx, chat.Partner(userID)); err == nil {
		detail.Partner = SummaryOf(partner)
	}
	if s.presence != nil {
		partnerID := chat.Partner(userID)
		if online, err := s.presence.IsOnline(ctx, partnerID); err == nil {
			detail.PartnerOnline = online
		}
		if !detail.PartnerOnline {
			if seen, err := s.presence.LastSeen(ctx, partnerID); err == nil {
				detail.PartnerLastSeen = &seen
			}
		}
	}
	return detail, nil
}

// IsParticipant is the relay's join-authorization check.
func (s *ChatService) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	chat, err := s.findChat(ctx, chatID)
	if err != nil {
		return false, err
	}
	return chat.HasParticipant(userID), nil
}

// AppendMessage persists a message with a server-side timestamp. The sender
// must be a participant and the content non-empty.
func (s *ChatService) AppendMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("Message content cannot be empty")
	}
	chat, err := s.findChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, apperr.Validation("Sender is not a participant of this chat")
	}

	msg := &models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    senderID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.chats.AppendMessage(ctx, chatID, msg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Chat not found")
		}
		return nil, apperr.Internal("append message", err)
	}

	if err := s.events.Publish(ctx, events.TopicMessageSent, events.MessageSent{
		ChatID: chatID,
		Sender: senderID,
		At:     msg.Timestamp,
	}); err != nil {
		s.log.Warnw("message event publish failed", "chat_id", chatID, "err", err)
	}
	return msg, nil
}

func (s *ChatService) findChat(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Chat not found")
		}
		return nil, apperr.Internal("find chat", err)
	}
	return chat, nil
}
