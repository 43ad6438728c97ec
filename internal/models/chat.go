package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is embedded in its Chat and immutable once appended.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Sender    string             `bson:"sender" json:"sender"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Chat holds exactly two participants and their ordered message history.
// PairKey is the sorted participant pair; a unique index on it enforces
// at most one chat per pair.
type Chat struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PairKey      string             `bson:"pair_key" json:"-"`
	Participants []string           `bson:"participants" json:"participants"`
	Messages     []Message          `bson:"messages" json:"messages"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (c *Chat) HasParticipant(id string) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Partner returns the other participant's id, or "" when id is not a participant.
func (c *Chat) Partner(id string) string {
	if !c.HasParticipant(id) {
		return ""
	}
	for _, p := range c.Participants {
		if p != id {
			return p
		}
	}
	return ""
}

// PairKeyOf normalizes an unordered participant pair into the storage key.
func PairKeyOf(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
