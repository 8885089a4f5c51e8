package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommentLength is the upper bound on comment content.
const MaxCommentLength = 300

// Comment represents a reply attached to exactly one post, stored in MongoDB
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	PostID    primitive.ObjectID `json:"post_id" bson:"post_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=300"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=300"`
}

// CommentView is a comment joined with its author's public details at read time
type CommentView struct {
	Comment
	Author *AuthorSummary `json:"author,omitempty"`
}

// Pagination describes the page window of a comment listing
type Pagination struct {
	Page        int64 `json:"page"`
	Pages       int64 `json:"pages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination computes page metadata for a total item count.
func NewPagination(page, limit, total int64) Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{
		Page:        page,
		Pages:       pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
