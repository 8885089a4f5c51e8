package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"wanderlog/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository implementations. They satisfy the same interfaces as
// the Postgres/Mongo ones so handlers can run against them in tests without a
// database.

// MemoryUserRepository implements UserRepository in memory
type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[uint]*models.User{}, nextID: 1}
}

func (r *MemoryUserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// MemoryPostRepository implements PostRepository in memory
type MemoryPostRepository struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post

	// PushErr, when set, fails PushCommentID. Used to exercise the
	// compensating cleanup of the two-step comment create.
	PushErr error
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: map[primitive.ObjectID]*models.Post{}}
}

func (r *MemoryPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CommentIDs = []primitive.ObjectID{}
	post.Likes = []models.LikeEntry{}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *MemoryPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[objID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, models.NewNotFoundError("Post")
}

func (r *MemoryPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *MemoryPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	post.UpdatedAt = time.Now()
	stored.Title = post.Title
	stored.Description = post.Description
	stored.ImageURL = post.ImageURL
	stored.Location = post.Location
	stored.Tags = post.Tags
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *MemoryPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[objID]; !ok {
		return models.NewNotFoundError("Post")
	}
	delete(r.posts, objID)
	return nil
}

func (r *MemoryPostRepository) ToggleLike(ctx context.Context, id string, userID uint) (*models.Post, bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, models.NewNotFoundError("Post")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[objID]
	if !ok {
		return nil, false, models.NewNotFoundError("Post")
	}
	for i, l := range post.Likes {
		if l.UserID == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			cp := *post
			return &cp, false, nil
		}
	}
	post.Likes = append(post.Likes, models.LikeEntry{UserID: userID, CreatedAt: time.Now()})
	cp := *post
	return &cp, true, nil
}

func (r *MemoryPostRepository) PushCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error {
	if r.PushErr != nil {
		return r.PushErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	for _, id := range post.CommentIDs {
		if id == commentID {
			return nil
		}
	}
	post.CommentIDs = append(post.CommentIDs, commentID)
	return nil
}

func (r *MemoryPostRepository) PullCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	for i, id := range post.CommentIDs {
		if id == commentID {
			post.CommentIDs = append(post.CommentIDs[:i], post.CommentIDs[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryCommentRepository implements CommentRepository in memory
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

// NewMemoryCommentRepository creates an empty MemoryCommentRepository
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: map[primitive.ObjectID]*models.Comment{}}
}

func (r *MemoryCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *MemoryCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Comment")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[objID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, models.NewNotFoundError("Comment")
}

func (r *MemoryCommentRepository) GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID, page, limit int64) ([]models.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= total {
		return []models.Comment{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.comments[comment.ID]
	if !ok {
		return models.NewNotFoundError("Comment")
	}
	comment.UpdatedAt = time.Now()
	stored.Content = comment.Content
	stored.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *MemoryCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *MemoryCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}
