package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wanderlog/internal/middleware"
	"wanderlog/internal/models"
	"wanderlog/internal/repositories"
	"wanderlog/pkg/cache"

	"github.com/labstack/echo/v4"
)

const defaultCommentPageSize = 10

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
	}
}

// RegisterPublicRoutes registers the comment routes that need no authentication
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/comments/post/:postId", h.GetPostComments)
}

// RegisterProtectedRoutes registers the comment routes behind JWT auth
func (h *CommentHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/comments/post/:postId", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment on a post and links it into the post's
// comment list. The comment is written first; if the post-side link fails the
// comment is removed again so neither side is ever visible without the other.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("postId"))
	if err != nil {
		return err
	}

	comment := &models.Comment{
		Content:  req.Content,
		AuthorID: middleware.UserID(c),
		PostID:   post.ID,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return err
	}

	if err := h.postRepository.PushCommentID(ctx, post.ID, comment.ID); err != nil {
		if delErr := h.commentRepository.DeleteComment(ctx, comment.ID); delErr != nil {
			return models.NewPartialFailureError("comment was created but could not be linked to its post", err)
		}
		return err
	}
	cache.Invalidate(ctx, postsCacheKey)

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Comment created successfully",
		"comment": lookup.commentView(*comment),
	})
}

// GetPostComments retrieves one page of a post's comments newest-first, with
// ETag/Last-Modified validators so unchanged pages answer 304.
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("postId"))
	if err != nil {
		return err
	}

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 {
		limit = defaultCommentPageSize
	}
	if limit > 100 {
		limit = 100
	}

	comments, total, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID, page, limit)
	if err != nil {
		return err
	}

	lookup := newAuthorLookup(h.userRepository)
	views := make([]models.CommentView, 0, len(comments))
	lastModified := time.Time{}
	for _, cm := range comments {
		views = append(views, lookup.commentView(cm))
		if cm.UpdatedAt.After(lastModified) {
			lastModified = cm.UpdatedAt
		}
	}
	if lastModified.IsZero() {
		lastModified = time.Now()
	}

	body, err := json.Marshal(views)
	if err != nil {
		return err
	}
	sum := md5.Sum(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	c.Response().Header().Set("Cache-Control", "public, max-age=60")

	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(views),
		"total":      total,
		"pagination": models.NewPagination(page, limit, total),
		"comments":   views,
	})
}

// UpdateComment rewrites a comment's content. Only the author or an admin
// may update.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if comment.AuthorID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return models.NewForbiddenError("Not authorized to update this comment")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(ctx, comment); err != nil {
		return err
	}

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Comment updated successfully",
		"comment": lookup.commentView(*comment),
	})
}

// DeleteComment removes a comment and its reference from the parent post.
// The post-side reference goes first so a comment never outlives it; a
// comment-side failure after that surfaces as a distinct partial-failure
// error.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if comment.AuthorID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return models.NewForbiddenError("Not authorized to delete this comment")
	}

	if err := h.postRepository.PullCommentID(ctx, comment.PostID, comment.ID); err != nil {
		// A vanished parent post means its cascade already removed the
		// reference; the comment itself still has to go.
		if appErr, ok := err.(*models.AppError); !ok || appErr.Status != http.StatusNotFound {
			return err
		}
	}
	if err := h.commentRepository.DeleteComment(ctx, comment.ID); err != nil {
		return models.NewPartialFailureError("comment was unlinked from its post but not deleted", err)
	}
	cache.Invalidate(ctx, postsCacheKey)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Comment deleted successfully",
	})
}
