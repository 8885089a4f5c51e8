package handlers

import (
	"net/http"
	"time"

	"wanderlog/internal/middleware"
	"wanderlog/internal/models"
	"wanderlog/internal/repositories"
	"wanderlog/pkg/cache"

	"github.com/labstack/echo/v4"
)

// postsCacheKey holds the newest-first post feed; any post or comment-link
// mutation invalidates it.
const postsCacheKey = "posts:all"

const postsCacheTTL = 30 * time.Second

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
		userRepository:    userRepo,
	}
}

// RegisterPublicRoutes registers the post routes that need no authentication
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
}

// RegisterProtectedRoutes registers the post routes behind JWT auth
func (h *PostHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.PATCH("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
}

// CreatePost creates a new post authored by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Tags:        models.NormalizeTags(req.Tags),
		AuthorID:    middleware.UserID(c),
	}

	ctx := c.Request().Context()
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return err
	}
	cache.Invalidate(ctx, postsCacheKey)

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    lookup.postView(*post),
	})
}

// GetPosts retrieves all posts newest-first, through the feed cache
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()

	var views []models.PostView
	err := cache.CacheAside(ctx, postsCacheKey, &views, postsCacheTTL, func() error {
		posts, err := h.postRepository.GetAllPosts(ctx)
		if err != nil {
			return err
		}
		lookup := newAuthorLookup(h.userRepository)
		views = make([]models.PostView, 0, len(posts))
		for _, p := range posts {
			views = append(views, lookup.postView(p))
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(views),
		"posts":   views,
	})
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"post":    lookup.postView(*post),
	})
}

// UpdatePost applies the provided fields to an existing post. Only the
// author or an admin may update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if post.AuthorID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return models.NewForbiddenError("Not authorized to update this post")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.Location != "" {
		post.Location = req.Location
	}
	if req.Tags != nil {
		post.Tags = models.NormalizeTags(req.Tags)
	}

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return err
	}
	cache.Invalidate(ctx, postsCacheKey)

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post updated successfully",
		"post":    lookup.postView(*post),
	})
}

// DeletePost deletes a post and every comment referencing it. Comments go
// first; a post-side failure after that surfaces as a distinct
// partial-failure error instead of a silent partial deletion.
func (h *PostHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if post.AuthorID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return models.NewForbiddenError("Not authorized to delete this post")
	}

	if _, err := h.commentRepository.DeleteCommentsByPostID(ctx, post.ID); err != nil {
		return err
	}
	if err := h.postRepository.DeletePost(ctx, post.ID.Hex()); err != nil {
		return models.NewPartialFailureError("post comments were removed but the post deletion failed", err)
	}
	cache.Invalidate(ctx, postsCacheKey)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// ToggleLike flips the authenticated user's like entry on the post. Two
// consecutive calls return the post to its original like state.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	ctx := c.Request().Context()
	post, liked, err := h.postRepository.ToggleLike(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, postsCacheKey)

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}

	lookup := newAuthorLookup(h.userRepository)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"post":    lookup.postView(*post),
	})
}
