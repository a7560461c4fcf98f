package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username       string               `json:"username" bson:"username"`
	FullName       string               `json:"full_name" bson:"fullName"`
	Bio            string               `json:"bio" bson:"bio"`
	ProfilePicture *string              `json:"profile_picture" bson:"profilePicture"`
	CoverPhoto     *string              `json:"cover_photo" bson:"coverPhoto"`
	Following      []primitive.ObjectID `json:"following" bson:"following"`
	Followers      []primitive.ObjectID `json:"followers" bson:"followers"`
	CreatedAt      time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updatedAt"`
}

// UserSummary is the public profile slice denormalized onto posts,
// comments and follow lists.
type UserSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Username       string             `json:"username" bson:"username"`
	FullName       string             `json:"full_name" bson:"fullName"`
	Bio            string             `json:"bio" bson:"bio"`
	ProfilePicture *string            `json:"profile_picture" bson:"profilePicture"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

// PublicProfile is the full profile view returned by GET /users/:id.
type PublicProfile struct {
	User           User `json:"user"`
	FollowersCount int  `json:"followers_count"`
	FollowingCount int  `json:"following_count"`
}
