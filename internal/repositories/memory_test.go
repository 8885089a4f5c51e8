package repositories

import (
	"context"
	"testing"

	"wanderlog/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

func TestMemoryUserRepositoryUniqueness(t *testing.T) {
	repo := NewMemoryUserRepository()
	if err := repo.CreateUser(&models.User{Name: "Ana", Username: "ana", Email: "ana@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateUser(&models.User{Name: "Dup", Username: "other", Email: "ana@x.com"}); err == nil {
		t.Error("duplicate email accepted")
	}
	if err := repo.CreateUser(&models.User{Name: "Dup", Username: "ana", Email: "b@x.com"}); err == nil {
		t.Error("duplicate username accepted")
	}
	if _, err := repo.GetUserByEmail("missing@x.com"); err != gorm.ErrRecordNotFound {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestMemoryToggleLikeInvolution(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	post := &models.Post{Title: "Trip", AuthorID: 1}
	if err := repo.CreatePost(ctx, post); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, liked, err := repo.ToggleLike(ctx, post.ID.Hex(), 2)
	if err != nil || !liked || len(updated.Likes) != 1 {
		t.Fatalf("first toggle: liked=%v likes=%v err=%v", liked, updated.Likes, err)
	}
	updated, liked, err = repo.ToggleLike(ctx, post.ID.Hex(), 2)
	if err != nil || liked || len(updated.Likes) != 0 {
		t.Fatalf("second toggle: liked=%v likes=%v err=%v", liked, updated.Likes, err)
	}
}

func TestMemoryDeleteCommentsByPostID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if err := repo.CreateComment(ctx, &models.Comment{Content: "c", PostID: postID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.CreateComment(ctx, &models.Comment{Content: "c", PostID: otherID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.DeleteCommentsByPostID(ctx, postID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	_, total, err := repo.GetCommentsByPostID(ctx, otherID, 1, 10)
	if err != nil || total != 1 {
		t.Errorf("unrelated post lost comments: total=%d err=%v", total, err)
	}
}
