package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityFollowers || v == VisibilityPrivate
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Media describes one externally stored object. StorageKey is the blob
// store reference used for deletion; URL is the public CDN address.
type Media struct {
	Type       MediaType `json:"type" bson:"type"`
	URL        string    `json:"url" bson:"url"`
	StorageKey string    `json:"storage_key" bson:"storageKey"`
}

type Link struct {
	URL         string `json:"url" bson:"url"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

type PostContent struct {
	Text  string  `json:"text" bson:"text"`
	Media []Media `json:"media" bson:"media"`
	Links []Link  `json:"links" bson:"links"`
}

// Empty reports whether the content carries neither text nor media nor
// links. A post must never be persisted in this state.
func (c PostContent) Empty() bool {
	return c.Text == "" && len(c.Media) == 0 && len(c.Links) == 0
}

// Comment is an embedded sub-document with its own identity; deletion
// and authorization key off ID, never off position.
type Comment struct {
	ID        string             `json:"id" bson:"id"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}

type Post struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	AuthorID   primitive.ObjectID   `json:"author_id" bson:"author"`
	Content    PostContent          `json:"content" bson:"content"`
	Visibility Visibility           `json:"visibility" bson:"visibility"`
	Likes      []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments   []Comment            `json:"comments" bson:"comments"`
	IsEdited   bool                 `json:"is_edited" bson:"isEdited"`
	EditedAt   *time.Time           `json:"edited_at" bson:"editedAt"`
	CreatedAt  time.Time            `json:"created_at" bson:"createdAt"`
}

// CanMutate reports whether actor may update or delete the post.
func (p *Post) CanMutate(actor primitive.ObjectID) bool {
	return p.AuthorID == actor
}

// CanDeleteComment reports whether actor may delete the given comment:
// either the comment's author or the post's author.
func (p *Post) CanDeleteComment(c *Comment, actor primitive.ObjectID) bool {
	return c.User == actor || p.AuthorID == actor
}

func (p *Post) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// FullComment carries the comment with its author's resolved summary.
type FullComment struct {
	Comment Comment     `json:"comment"`
	User    UserSummary `json:"user"`
}

// FullPost is a post joined against the identity store: author, liker
// and comment-author summaries resolved.
type FullPost struct {
	Post     Post          `json:"post"`
	Author   UserSummary   `json:"author"`
	Likes    []UserSummary `json:"likes"`
	Comments []FullComment `json:"comments"`
}
