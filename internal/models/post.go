package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeEntry records one user's like on one post
type LikeEntry struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post represents a travel post stored in MongoDB. CommentIDs and Likes are
// owned exclusively by the post document; every id in CommentIDs must
// reference a Comment whose PostID equals this post's id, and Likes holds at
// most one entry per user.
type Post struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	ImageURL    string               `json:"image_url" bson:"image_url"`
	Location    string               `json:"location,omitempty" bson:"location,omitempty"`
	Tags        []string             `json:"tags" bson:"tags"`
	AuthorID    uint                 `json:"author_id" bson:"author_id"`
	CommentIDs  []primitive.ObjectID `json:"comment_ids" bson:"comment_ids"`
	Likes       []LikeEntry          `json:"likes" bson:"likes"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// LikedBy reports whether the user has a like entry on the post.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"required,min=1,max=500"`
	ImageURL    string   `json:"image_url" validate:"required,url,startswith=http"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Only provided fields are applied.
type UpdatePostRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url,startswith=http"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
}

// NormalizeTags trims each tag and splits comma-joined entries, so both
// ["beach","sunset"] and ["beach, sunset"] yield the same tag list.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// PostView is a post joined with its author's public details at read time
type PostView struct {
	Post
	Author *AuthorSummary `json:"author,omitempty"`
}
