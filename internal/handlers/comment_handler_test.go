package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	rec, body := env.do(t, http.MethodPost, "/api/comments/post/"+postID, token, map[string]string{
		"content": "Great!",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}
	comment := body["comment"].(map[string]any)
	if comment["content"] != "Great!" {
		t.Errorf("content = %v", comment["content"])
	}
	if got := comment["author_id"].(float64); uint(got) != id {
		t.Errorf("author_id = %v, want %d", got, id)
	}

	// The post carries the backlink
	_, postBody := env.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	post := postBody["post"].(map[string]any)
	ids := post["comment_ids"].([]any)
	if len(ids) != 1 || ids[0] != comment["id"] {
		t.Errorf("post comment_ids = %v, want [%v]", ids, comment["id"])
	}
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	rec, _ := env.do(t, http.MethodPost, "/api/comments/post/"+postID, token, map[string]string{
		"content": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty content: got status %d, want 400", rec.Code)
	}

	rec, _ = env.do(t, http.MethodPost, "/api/comments/post/"+postID, token, map[string]string{
		"content": strings.Repeat("x", 301),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized content: got status %d, want 400", rec.Code)
	}
}

func TestCreateCommentPostNotFound(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")

	rec, _ := env.do(t, http.MethodPost, "/api/comments/post/ffffffffffffffffffffffff", token, map[string]string{
		"content": "Great!",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestCreateCommentCompensatesFailedLink(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	env.posts.PushErr = fmt.Errorf("link write refused")
	rec, _ := env.do(t, http.MethodPost, "/api/comments/post/"+postID, token, map[string]string{
		"content": "Great!",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}
	env.posts.PushErr = nil

	// The orphaned comment was cleaned up: no reader sees it
	_, body := env.do(t, http.MethodGet, "/api/comments/post/"+postID, "", nil)
	if body["total"].(float64) != 0 {
		t.Errorf("compensation left %v comments behind", body["total"])
	}
}

func TestListCommentsPagination(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")
	for i := 0; i < 15; i++ {
		env.createComment(t, token, postID, fmt.Sprintf("comment %d", i))
	}

	rec, body := env.do(t, http.MethodGet, "/api/comments/post/"+postID+"?page=2&limit=10", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}
	if body["total"].(float64) != 15 {
		t.Errorf("total = %v, want 15", body["total"])
	}
	if body["count"].(float64) != 5 {
		t.Errorf("count = %v, want 5", body["count"])
	}
	p := body["pagination"].(map[string]any)
	if p["page"].(float64) != 2 || p["pages"].(float64) != 2 {
		t.Errorf("pagination = %v", p)
	}
	if p["hasNextPage"] != false || p["hasPrevPage"] != true {
		t.Errorf("page flags = %v", p)
	}

	// Newest-first: page 2 holds the oldest comments
	comments := body["comments"].([]any)
	last := comments[len(comments)-1].(map[string]any)
	if last["content"] != "comment 0" {
		t.Errorf("oldest comment should close page 2, got %v", last["content"])
	}
}

func TestListCommentsNotModified(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")
	env.createComment(t, token, postID, "Great!")

	rec, _ := env.do(t, http.MethodGet, "/api/comments/post/"+postID, "", nil)
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/comments/post/"+postID, nil)
	req.Header.Set("If-None-Match", etag)
	rec2 := httptest.NewRecorder()
	env.e.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want 304", rec2.Code)
	}

	// A new comment changes the ETag, so the stale validator misses
	env.createComment(t, token, postID, "Another!")
	req = httptest.NewRequest(http.MethodGet, "/api/comments/post/"+postID, nil)
	req.Header.Set("If-None-Match", etag)
	rec3 := httptest.NewRecorder()
	env.e.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("got status %d after mutation, want 200", rec3.Code)
	}
}

func TestUpdateCommentAuthorization(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	other, _ := env.register(t, "Bob", "bob@x.com", "pw123456")
	postID := env.createPost(t, author, "Trip")
	commentID := env.createComment(t, author, postID, "Great!")

	patch := map[string]string{"content": "Edited"}

	rec, _ := env.do(t, http.MethodPut, "/api/comments/"+commentID, other, patch)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-author update: got status %d, want 403", rec.Code)
	}

	rec, body := env.do(t, http.MethodPut, "/api/comments/"+commentID, author, patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("author update: got status %d", rec.Code)
	}
	comment := body["comment"].(map[string]any)
	if comment["content"] != "Edited" {
		t.Errorf("content = %v", comment["content"])
	}

	rec, _ = env.do(t, http.MethodPut, "/api/comments/"+commentID, env.admin(t), map[string]string{"content": "Moderated"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: got status %d", rec.Code)
	}
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	other, _ := env.register(t, "Bob", "bob@x.com", "pw123456")
	postID := env.createPost(t, author, "Trip")
	commentID := env.createComment(t, author, postID, "Great!")
	env.createComment(t, author, postID, "Second")

	rec, _ := env.do(t, http.MethodDelete, "/api/comments/"+commentID, other, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-author delete: got status %d, want 403", rec.Code)
	}

	rec, _ = env.do(t, http.MethodDelete, "/api/comments/"+commentID, author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("author delete: got status %d", rec.Code)
	}

	// The backlink is gone and the count dropped by exactly one
	_, postBody := env.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	post := postBody["post"].(map[string]any)
	ids := post["comment_ids"].([]any)
	if len(ids) != 1 {
		t.Errorf("comment_ids = %v, want one entry left", ids)
	}
	for _, id := range ids {
		if id == commentID {
			t.Errorf("deleted comment id still referenced: %v", ids)
		}
	}

	_, listBody := env.do(t, http.MethodGet, "/api/comments/post/"+postID, "", nil)
	if listBody["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", listBody["total"])
	}
}

func TestDeleteCommentNotFound(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")

	rec, _ := env.do(t, http.MethodDelete, "/api/comments/ffffffffffffffffffffffff", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}
