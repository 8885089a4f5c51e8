package handlers_test

import (
	"net/http"
	"testing"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "Ana", "ana@x.com", "pw123456")

	rec, body := env.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title":       "Trip",
		"description": "Nice",
		"image_url":   "https://x/i.jpg",
		"location":    "Lisbon",
		"tags":        []string{"beach, sunset", "city"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}

	post := body["post"].(map[string]any)
	if likes := post["likes"].([]any); len(likes) != 0 {
		t.Errorf("new post should have no likes, got %v", likes)
	}
	if comments := post["comment_ids"].([]any); len(comments) != 0 {
		t.Errorf("new post should have no comments, got %v", comments)
	}
	if got := post["author_id"].(float64); uint(got) != id {
		t.Errorf("author_id = %v, want %d", got, id)
	}
	tags := post["tags"].([]any)
	if len(tags) != 3 || tags[0] != "beach" || tags[1] != "sunset" || tags[2] != "city" {
		t.Errorf("comma-joined tags not normalized: %v", tags)
	}
	author := post["author"].(map[string]any)
	if author["name"] != "Ana" {
		t.Errorf("author not joined: %v", author)
	}
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "Nice", "image_url": "https://x/i.jpg"}},
		{"missing description", map[string]any{"title": "Trip", "image_url": "https://x/i.jpg"}},
		{"missing image", map[string]any{"title": "Trip", "description": "Nice"}},
		{"malformed image url", map[string]any{"title": "Trip", "description": "Nice", "image_url": "not a url"}},
		{"non-http image url", map[string]any{"title": "Trip", "description": "Nice", "image_url": "ftp://x/i.jpg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodPost, "/api/posts", token, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreatePostUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPost, "/api/posts", "", map[string]any{
		"title": "Trip", "description": "Nice", "image_url": "https://x/i.jpg",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestGetPosts(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	env.createPost(t, token, "First")
	env.createPost(t, token, "Second")

	rec, body := env.do(t, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}
	posts := body["posts"].([]any)
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	// Newest-first ordering
	first := posts[0].(map[string]any)
	if first["title"] != "Second" {
		t.Errorf("expected newest post first, got %v", first["title"])
	}
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestGetPostNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/posts/ffffffffffffffffffffffff", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/posts/not-an-id", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d for malformed id, want 404", rec.Code)
	}
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	rec, body := env.do(t, http.MethodPut, "/api/posts/"+postID, token, map[string]any{
		"title": "Updated trip",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}
	post := body["post"].(map[string]any)
	if post["title"] != "Updated trip" {
		t.Errorf("title = %v", post["title"])
	}
	// Untouched fields survive a partial update
	if post["description"] != "A place worth the trip" {
		t.Errorf("description was clobbered: %v", post["description"])
	}
}

func TestUpdatePostAuthorization(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	other, _ := env.register(t, "Bob", "bob@x.com", "pw123456")
	postID := env.createPost(t, owner, "Trip")

	patch := map[string]any{"title": "Hijacked"}

	rec, _ := env.do(t, http.MethodPut, "/api/posts/"+postID, other, patch)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: got status %d, want 403", rec.Code)
	}

	rec, _ = env.do(t, http.MethodPatch, "/api/posts/"+postID, env.admin(t), patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: got status %d, want 200", rec.Code)
	}
}

func TestDeletePostAuthorization(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	other, _ := env.register(t, "Bob", "bob@x.com", "pw123456")
	postID := env.createPost(t, owner, "Trip")

	rec, _ := env.do(t, http.MethodDelete, "/api/posts/"+postID, other, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: got status %d, want 403", rec.Code)
	}

	rec, _ = env.do(t, http.MethodDelete, "/api/posts/"+postID, owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: got status %d, want 200", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted post still readable: status %d", rec.Code)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")
	env.createComment(t, token, postID, "Great!")
	env.createComment(t, token, postID, "Me too!")

	rec, _ := env.do(t, http.MethodDelete, "/api/posts/"+postID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got status %d", rec.Code)
	}

	// Listing comments of a deleted post resolves nothing
	rec, _ = env.do(t, http.MethodGet, "/api/comments/post/"+postID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("comments of deleted post: got status %d, want 404", rec.Code)
	}
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	rec, body := env.do(t, http.MethodPost, "/api/posts/"+postID+"/like", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %v", rec.Code, body)
	}
	if body["message"] != "Post liked" {
		t.Errorf("message = %v, want Post liked", body["message"])
	}
	post := body["post"].(map[string]any)
	if likes := post["likes"].([]any); len(likes) != 1 {
		t.Fatalf("likes = %v, want one entry", likes)
	}

	// Toggling again restores the original state
	rec, body = env.do(t, http.MethodPost, "/api/posts/"+postID+"/like", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle: got status %d", rec.Code)
	}
	if body["message"] != "Post unliked" {
		t.Errorf("message = %v, want Post unliked", body["message"])
	}
	post = body["post"].(map[string]any)
	if likes := post["likes"].([]any); len(likes) != 0 {
		t.Errorf("likes = %v, want empty", likes)
	}
}

func TestToggleLikeOnePerUser(t *testing.T) {
	env := newTestEnv(t)
	ana, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	bob, _ := env.register(t, "Bob", "bob@x.com", "pw123456")
	postID := env.createPost(t, ana, "Trip")

	env.do(t, http.MethodPost, "/api/posts/"+postID+"/like", ana, nil)
	_, body := env.do(t, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)

	post := body["post"].(map[string]any)
	if likes := post["likes"].([]any); len(likes) != 2 {
		t.Fatalf("likes = %v, want two entries", likes)
	}
}

func TestToggleLikeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ana", "ana@x.com", "pw123456")
	postID := env.createPost(t, token, "Trip")

	rec, _ := env.do(t, http.MethodPost, "/api/posts/"+postID+"/like", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}
