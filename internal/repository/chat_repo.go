package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/heartlinkapp/heartlink/internal/models"
)

type ChatRepository interface {
	// Create inserts the chat, or returns the already-existing chat for the
	// same participant pair. The unique pair_key index arbitrates concurrent
	// creations, so callers never observe two chats for one pair.
	Create(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	FindByPair(ctx context.Context, userA, userB string) (*models.Chat, error)
	FindByID(ctx context.Context, id string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Chat, error)
	AppendMessage(ctx context.Context, chatID string, msg *models.Message) error
}

type mongoChatRepo struct {
	col *mongo.Collection
}

func NewMongoChatRepo(db *mongo.Database, collection string) ChatRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participants", Value: 1}},
		},
	})
	return &mongoChatRepo{col: col}
}

func (r *mongoChatRepo) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	chat.PairKey = models.PairKeyOf(chat.Participants[0], chat.Participants[1])

	_, err := r.col.InsertOne(ctx, chat)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the race: fetch the winner.
		return r.FindByPair(ctx, chat.Participants[0], chat.Participants[1])
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *mongoChatRepo) FindByPair(ctx context.Context, userA, userB string) (*models.Chat, error) {
	var c models.Chat
	err := r.col.FindOne(ctx, bson.M{"pair_key": models.PairKeyOf(userA, userB)}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoChatRepo) FindByID(ctx context.Context, id string) (*models.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var c models.Chat
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoChatRepo) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Chat
	for cur.Next(ctx) {
		var c models.Chat
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

// AppendMessage pushes the message atomically; a partial message is never visible.
func (r *mongoChatRepo) AppendMessage(ctx context.Context, chatID string, msg *models.Message) error {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": msg.Timestamp},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
