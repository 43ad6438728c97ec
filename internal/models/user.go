package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the mutable onboarding sub-document. A user "has a profile" once
// Name is set; the other fields stay independently optional.
type Profile struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Age          int    `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string `bson:"gender,omitempty" json:"gender,omitempty"`
	InterestedIn string `bson:"interested_in,omitempty" json:"interestedIn,omitempty"`
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	ImageURL     string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Profile      *Profile           `bson:"profile,omitempty" json:"profile,omitempty"`
	Likes        []string           `bson:"likes" json:"likes"`
	Matches      []string           `bson:"matches" json:"matches"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (u *User) HasProfile() bool {
	return u.Profile != nil && u.Profile.Name != ""
}

func (u *User) HasLiked(id string) bool {
	for _, l := range u.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// ProfileSummary is the candidate-listing projection of a user's profile.
type ProfileSummary struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Age          int    `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	InterestedIn string `json:"interestedIn,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ImageURL     string `json:"imageUrl"`
}
