package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/events"
	"github.com/heartlinkapp/heartlink/internal/metrics"
	"github.com/heartlinkapp/heartlink/internal/models"
	"github.com/heartlinkapp/heartlink/internal/repository"
)

type LikeResult struct {
	IsMatch bool
	ChatID  string
}

type MatchService struct {
	users  repository.UserRepository
	chats  repository.ChatRepository
	events events.Publisher
	log    *zap.SugaredLogger
}

func NewMatchService(users repository.UserRepository, chats repository.ChatRepository, pub events.Publisher, log *zap.SugaredLogger) *MatchService {
	return &MatchService{users: users, chats: chats, events: pub, log: log}
}

// Like records a one-directional like and, when the reverse like already
// exists, ensures the pair's chat and marks both users matched. Re-liking is
// a no-op, and the chat-per-pair invariant is held by the storage layer, so
// concurrent mutual likes converge on one chat.
func (s *MatchService) Like(ctx context.Context, userID, targetID string) (*LikeResult, error) {
	if userID == targetID {
		return nil, apperr.Validation("Cannot like yourself")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFoundUser(err)
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, notFoundUser(err)
	}

	if err := s.users.AddLike(ctx, userID, targetID); err != nil {
		return nil, apperr.Internal("record like", err)
	}

	if !target.HasLiked(userID) {
		return &LikeResult{IsMatch: false}, nil
	}

	chat, err := s.chats.Create(ctx, &models.Chat{
		Participants: []string{userID, targetID},
	})
	if err != nil {
		return nil, apperr.Internal("create chat", err)
	}

	if err := s.users.AddMatch(ctx, userID, targetID); err != nil {
		return nil, apperr.Internal("record match", err)
	}
	if err := s.users.AddMatch(ctx, targetID, userID); err != nil {
		return nil, apperr.Internal("record match", err)
	}

	metrics.MatchesDetected.Inc()
	if err := s.events.Publish(ctx, events.TopicMatchCreated, events.MatchCreated{
		ChatID: chat.ID.Hex(),
		UserA:  userID,
		UserB:  targetID,
		At:     time.Now().UTC(),
	}); err != nil {
		s.log.Warnw("match event publish failed", "chat_id", chat.ID.Hex(), "err", err)
	}

	return &LikeResult{IsMatch: true, ChatID: chat.ID.Hex()}, nil
}

func notFoundUser(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	return apperr.Internal("find user", err)
}
