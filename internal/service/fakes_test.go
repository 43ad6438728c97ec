package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/heartlinkapp/heartlink/internal/models"
	"github.com/heartlinkapp/heartlink/internal/repository"
)

// In-memory repositories mirroring the mongo implementations' contracts,
// including unique-email and unique-pair-key behavior.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID.Hex()] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile = p
	return nil
}

func (f *fakeUserRepo) AddLike(_ context.Context, userID, targetID string) error {
	return f.addToSet(userID, targetID, true)
}

func (f *fakeUserRepo) AddMatch(_ context.Context, userID, targetID string) error {
	return f.addToSet(userID, targetID, false)
}

func (f *fakeUserRepo) addToSet(userID, value string, likes bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	set := &u.Matches
	if likes {
		set = &u.Likes
	}
	for _, v := range *set {
		if v == value {
			return nil
		}
	}
	*set = append(*set, value)
	return nil
}

func (f *fakeUserRepo) ListWithProfiles(_ context.Context, excludeID string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for id, u := range f.users {
		if id == excludeID || !u.HasProfile() {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeChatRepo struct {
	mu     sync.Mutex
	chats  map[string]*models.Chat
	byPair map[string]string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:  make(map[string]*models.Chat),
		byPair: make(map[string]string),
	}
}

func (f *fakeChatRepo) Create(_ context.Context, chat *models.Chat) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.PairKeyOf(chat.Participants[0], chat.Participants[1])
	if id, ok := f.byPair[key]; ok {
		return f.chats[id], nil
	}
	chat.ID = primitive.NewObjectID()
	chat.PairKey = key
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	f.chats[chat.ID.Hex()] = chat
	f.byPair[key] = chat.ID.Hex()
	return chat, nil
}

func (f *fakeChatRepo) FindByPair(_ context.Context, a, b string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byPair[models.PairKeyOf(a, b)]; ok {
		return f.chats[id], nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChatRepo) FindByID(_ context.Context, id string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chats[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChatRepo) ListForUser(_ context.Context, userID string) ([]*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Chat
	for _, c := range f.chats {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) AppendMessage(_ context.Context, chatID string, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Messages = append(c.Messages, *msg)
	c.UpdatedAt = msg.Timestamp
	return nil
}
